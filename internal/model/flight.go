package model

import "time"

type Airport struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type Route struct {
	ID                   int64 `json:"id"`
	DepartureAirportID   int64 `json:"departure_airport_id"`
	DestinationAirportID int64 `json:"destination_airport_id"`
}

// Flight рейс: пара (Code, RouteID) уникальна
type Flight struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	RouteID    int64     `json:"route_id"`
	AirplaneID int64     `json:"airplane_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из таблицы flights)
	Route    *Route    `json:"route,omitempty"`
	Airplane *Airplane `json:"airplane,omitempty"`
}

// IntermediateStop промежуточная посадка, ключ (FlightID, AirportID)
type IntermediateStop struct {
	FlightID    int64  `json:"flight_id"`
	AirportID   int64  `json:"airport_id"`
	StopMinutes int    `json:"stop_minutes"`
	Note        string `json:"note"`
}

// FlightCapacity вместимость самолёта, назначенного на рейс
type FlightCapacity struct {
	FlightID             int64 `json:"flight_id"`
	BusinessSeatCapacity int   `json:"business_seat_capacity"`
	EconomySeatCapacity  int   `json:"economy_seat_capacity"`
}
