package httpapi

import "time"

type policyRequest struct {
	MinFlightTimeMinutes     int   `json:"min_flight_time_minutes" validate:"gte=0"`
	MaxIntermediateStops     int   `json:"max_intermediate_stops" validate:"gte=0"`
	MinStopMinutes           int   `json:"min_stop_minutes" validate:"gte=0"`
	MaxStopMinutes           int   `json:"max_stop_minutes" validate:"gtefield=MinStopMinutes"`
	MinTicketPrice           int64 `json:"min_ticket_price" validate:"gte=0"`
	TicketSellWindowHours    int   `json:"ticket_sell_window_hours" validate:"gte=0"`
	TicketBookingWindowHours int   `json:"ticket_booking_window_hours" validate:"gte=0"`
}

type createAirplaneRequest struct {
	Name                 string `json:"name" validate:"required,max=128"`
	Airline              string `json:"airline" validate:"required,oneof=bamboo_airways vietjet_air vietnam_airlines"`
	BusinessSeatCapacity int    `json:"business_seat_capacity" validate:"gte=0,lte=1000"`
	EconomySeatCapacity  int    `json:"economy_seat_capacity" validate:"gte=0,lte=1000"`
}

type createAirportRequest struct {
	Name string `json:"name" validate:"required,max=128"`
	City string `json:"city" validate:"max=128"`
}

type createRouteRequest struct {
	DepartureAirportID   int64 `json:"departure_airport_id" validate:"required,gt=0"`
	DestinationAirportID int64 `json:"destination_airport_id" validate:"required,gt=0"`
}

type createFlightRequest struct {
	Code       string `json:"code" validate:"required,max=16"`
	RouteID    int64  `json:"route_id" validate:"required,gt=0"`
	AirplaneID int64  `json:"airplane_id" validate:"required,gt=0"`
}

type addStopRequest struct {
	AirportID   int64  `json:"airport_id" validate:"required,gt=0"`
	StopMinutes int    `json:"stop_minutes" validate:"gte=0"`
	Note        string `json:"note" validate:"max=512"`
}

type createScheduleRequest struct {
	FlightID              int64     `json:"flight_id" validate:"required,gt=0"`
	DepartureTime         time.Time `json:"departure_time" validate:"required"`
	FlightDurationMinutes int       `json:"flight_duration_minutes" validate:"gte=0"`
	BusinessSeats         int       `json:"business_seats" validate:"gte=0"`
	EconomySeats          int       `json:"economy_seats" validate:"gte=0"`
	BusinessPrice         int64     `json:"business_price" validate:"gte=0"`
	EconomyPrice          int64     `json:"economy_price" validate:"gte=0"`
}

type passengerRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	LastName string `json:"last_name" validate:"required,max=128"`
	Gender   string `json:"gender" validate:"required,oneof=mr ms"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
	SeatCode string `json:"seat_code" validate:"required,max=8"`
}

type bookSeatsRequest struct {
	ScheduleID    int64              `json:"schedule_id" validate:"required,gt=0"`
	Class         string             `json:"class" validate:"required,oneof=business economy"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=momo bank"`
	Passengers    []passengerRequest `json:"passengers" validate:"required,min=1,dive"`
}

type materializeResponse struct {
	ScheduleID int64 `json:"schedule_id"`
	Seats      int   `json:"seats"`
}

type availableSeatsResponse struct {
	ScheduleID int64    `json:"schedule_id"`
	Class      string   `json:"class"`
	Seats      []string `json:"seats"`
}
