package model

import "time"

// FlightSchedule конкретный вылет рейса со своими ценами и количеством мест
type FlightSchedule struct {
	ID                    int64     `json:"id"`
	FlightID              int64     `json:"flight_id"`
	DepartureTime         time.Time `json:"departure_time"`
	FlightDurationMinutes int       `json:"flight_duration_minutes"`
	BusinessSeatsOffered  int       `json:"business_seats_offered"`
	EconomySeatsOffered   int       `json:"economy_seats_offered"`
	BusinessPrice         int64     `json:"business_price"`
	EconomyPrice          int64     `json:"economy_price"`
	CreatedAt             time.Time `json:"created_at"`

	// Заполняется при чтении вместе с рейсом
	RouteID int64 `json:"route_id,omitempty"`
}

// Price возвращает цену билета для класса
func (s *FlightSchedule) Price(class SeatClass) int64 {
	if class == SeatClassBusiness {
		return s.BusinessPrice
	}
	return s.EconomyPrice
}

// ArrivalTime время прибытия
func (s *FlightSchedule) ArrivalTime() time.Time {
	return s.DepartureTime.Add(time.Duration(s.FlightDurationMinutes) * time.Minute)
}

// ScheduleRequest параметры создания расписания
type ScheduleRequest struct {
	FlightID              int64
	DepartureTime         time.Time
	FlightDurationMinutes int
	BusinessSeats         int
	EconomySeats          int
	BusinessPrice         int64
	EconomyPrice          int64
}

type SeatState string

// Единственный переход: available -> reserved. Reserved конечное состояние.
const (
	SeatStateAvailable SeatState = "available"
	SeatStateReserved  SeatState = "reserved"
)

// SeatAssignment привязка физического места к вылету
type SeatAssignment struct {
	ID         int64     `json:"id"`
	SeatID     int64     `json:"seat_id"`
	ScheduleID int64     `json:"schedule_id"`
	State      SeatState `json:"state"`

	SeatCode  string    `json:"seat_code"`
	SeatClass SeatClass `json:"seat_class"`
}

// FlightSearchResult вылет в результатах поиска по направлению и дате
type FlightSearchResult struct {
	ScheduleID             int64        `json:"schedule_id"`
	FlightID               int64        `json:"flight_id"`
	FlightCode             string       `json:"flight_code"`
	DepartureAirport       string       `json:"departure_airport"`
	DestinationAirport     string       `json:"destination_airport"`
	DepartureTime          time.Time    `json:"departure_time"`
	ArrivalTime            time.Time    `json:"arrival_time"`
	FlightDurationMinutes  int          `json:"flight_duration_minutes"`
	BusinessPrice          int64        `json:"business_price"`
	EconomyPrice           int64        `json:"economy_price"`
	AirplaneName           string       `json:"airplane_name"`
	Airline                Airline      `json:"airline"`
	RemainingBusinessSeats int          `json:"remaining_business_seats"`
	RemainingEconomySeats  int          `json:"remaining_economy_seats"`
	Stops                  []SearchStop `json:"stops"`
}

// SearchStop промежуточная посадка в результатах поиска
type SearchStop struct {
	AirportID   int64  `json:"airport_id"`
	AirportName string `json:"airport_name"`
	StopMinutes int    `json:"stop_minutes"`
	Note        string `json:"note"`
}
