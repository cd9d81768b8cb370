package model

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMr Gender = "mr"
	GenderMs Gender = "ms"
)

type PaymentMethod string

const (
	PaymentMomo PaymentMethod = "momo"
	PaymentBank PaymentMethod = "bank"
)

// Valid проверяет способ оплаты
func (m PaymentMethod) Valid() bool {
	return m == PaymentMomo || m == PaymentBank
}

// Customer пассажир. Создаётся заново для каждого бронирования.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	Gender    Gender    `json:"gender"`
	Birthday  time.Time `json:"birthday"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticket билет, единственный для своей SeatAssignment
type Ticket struct {
	ID               int64     `json:"id"`
	SeatAssignmentID int64     `json:"seat_assignment_id"`
	UserID           int64     `json:"user_id"`
	CustomerID       int64     `json:"customer_id"`
	ReceiptID        int64     `json:"receipt_id"`
	Class            SeatClass `json:"class"`
	CreatedAt        time.Time `json:"created_at"`

	// Для отображения в чеке
	SeatCode     string `json:"seat_code,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

type Receipt struct {
	ID        int64         `json:"id"`
	Reference uuid.UUID     `json:"reference"`
	UserID    int64         `json:"user_id"`
	Total     int64         `json:"total"`
	Method    PaymentMethod `json:"method"`
	CreatedAt time.Time     `json:"created_at"`

	Detail  *ReceiptDetail `json:"detail,omitempty"`
	Tickets []*Ticket      `json:"tickets,omitempty"`
}

// ReceiptDetail одна строка чека на всю партию билетов
type ReceiptDetail struct {
	ID        int64 `json:"id"`
	ReceiptID int64 `json:"receipt_id"`
	RouteID   int64 `json:"route_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// Passenger данные пассажира и выбранное место
type Passenger struct {
	Name     string    `json:"name"`
	LastName string    `json:"last_name"`
	Gender   Gender    `json:"gender"`
	Birthday time.Time `json:"birthday"`
	SeatCode string    `json:"seat_code"`
}

// BookingRequest запрос на покупку билетов одного класса на один вылет
type BookingRequest struct {
	ScheduleID    int64
	UserID        int64
	Class         SeatClass
	PaymentMethod PaymentMethod
	Passengers    []Passenger
}
