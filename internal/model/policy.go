package model

import "time"

// Policy набор бизнес-правил для расписаний и продажи билетов.
// Политики не изменяются: новая запись заменяет текущую, ID служит версией.
type Policy struct {
	ID                       int64     `json:"id"`
	MinFlightTimeMinutes     int       `json:"min_flight_time_minutes"`
	MaxIntermediateStops     int       `json:"max_intermediate_stops"`
	MinStopMinutes           int       `json:"min_stop_minutes"`
	MaxStopMinutes           int       `json:"max_stop_minutes"`
	MinTicketPrice           int64     `json:"min_ticket_price"`
	TicketSellWindowHours    int       `json:"ticket_sell_window_hours"`    // для сотрудников
	TicketBookingWindowHours int       `json:"ticket_booking_window_hours"` // для обычных пользователей
	CreatedAt                time.Time `json:"created_at"`
}
