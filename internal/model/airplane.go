package model

import "time"

type Airline string

const (
	AirlineBambooAirways  Airline = "bamboo_airways"
	AirlineVietjetAir     Airline = "vietjet_air"
	AirlineVietnamAirline Airline = "vietnam_airlines"
)

// Valid проверяет что авиакомпания известна
func (a Airline) Valid() bool {
	switch a {
	case AirlineBambooAirways, AirlineVietjetAir, AirlineVietnamAirline:
		return true
	}
	return false
}

type SeatClass string

const (
	SeatClassBusiness SeatClass = "business"
	SeatClassEconomy  SeatClass = "economy"
)

// Valid проверяет что класс обслуживания известен
func (c SeatClass) Valid() bool {
	return c == SeatClassBusiness || c == SeatClassEconomy
}

// Prefix возвращает букву класса в коде места (B3C, E12A)
func (c SeatClass) Prefix() string {
	if c == SeatClassBusiness {
		return "B"
	}
	return "E"
}

type Airplane struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Airline              Airline   `json:"airline"`
	BusinessSeatCapacity int       `json:"business_seat_capacity"`
	EconomySeatCapacity  int       `json:"economy_seat_capacity"`
	CreatedAt            time.Time `json:"created_at"`
}

// Capacity возвращает вместимость самолёта для класса
func (a *Airplane) Capacity(class SeatClass) int {
	if class == SeatClassBusiness {
		return a.BusinessSeatCapacity
	}
	return a.EconomySeatCapacity
}

// Seat физическое место в самолёте. Набор мест неизменен после создания самолёта.
type Seat struct {
	ID         int64     `json:"id"`
	AirplaneID int64     `json:"airplane_id"`
	Code       string    `json:"code"`
	Class      SeatClass `json:"class"`
}
