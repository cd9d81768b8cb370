package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
)

// GetPolicy GET /api/policy - текущая политика
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.services.Policy.Current(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// SetPolicy PUT /api/policy - сохраняет новую версию политики
func (h *Handler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.services.Policy.Set(r.Context(), &model.Policy{
		MinFlightTimeMinutes:     req.MinFlightTimeMinutes,
		MaxIntermediateStops:     req.MaxIntermediateStops,
		MinStopMinutes:           req.MinStopMinutes,
		MaxStopMinutes:           req.MaxStopMinutes,
		MinTicketPrice:           req.MinTicketPrice,
		TicketSellWindowHours:    req.TicketSellWindowHours,
		TicketBookingWindowHours: req.TicketBookingWindowHours,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// PolicyHistory GET /api/policy/history - все версии политики, новые первыми
func (h *Handler) PolicyHistory(w http.ResponseWriter, r *http.Request) {
	policies, err := h.services.Policy.History(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, policies)
}

// CreateAirplane POST /api/airplanes - создаёт самолёт вместе с каталогом мест
func (h *Handler) CreateAirplane(w http.ResponseWriter, r *http.Request) {
	var req createAirplaneRequest
	if !h.decode(w, r, &req) {
		return
	}

	airplane, err := h.services.Catalog.CreateAirplane(r.Context(), req.Name, model.Airline(req.Airline),
		req.BusinessSeatCapacity, req.EconomySeatCapacity)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, airplane)
}

// GetAirplane GET /api/airplanes/{id} - самолёт по ID
func (h *Handler) GetAirplane(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	airplane, err := h.services.Catalog.Airplane(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, airplane)
}

// GetAirplaneSeats GET /api/airplanes/{id}/seats - каталог мест самолёта
func (h *Handler) GetAirplaneSeats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	seats, err := h.services.Catalog.Seats(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, seats)
}

// CreateAirport POST /api/airports - создаёт аэропорт
func (h *Handler) CreateAirport(w http.ResponseWriter, r *http.Request) {
	var req createAirportRequest
	if !h.decode(w, r, &req) {
		return
	}

	airport, err := h.services.Registry.CreateAirport(r.Context(), req.Name, req.City)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, airport)
}

// CreateRoute POST /api/routes - находит или создаёт маршрут между аэропортами
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req createRouteRequest
	if !h.decode(w, r, &req) {
		return
	}

	route, err := h.services.Registry.CreateRoute(r.Context(), req.DepartureAirportID, req.DestinationAirportID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// CreateFlight POST /api/flights - создаёт рейс на маршруте
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req createFlightRequest
	if !h.decode(w, r, &req) {
		return
	}

	flight, err := h.services.Registry.CreateFlight(r.Context(), req.Code, req.RouteID, req.AirplaneID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

// LookupFlights GET /api/flights?code=VN123[&from=1&to=2] - рейсы по коду, с from и to - один рейс направления
func (h *Handler) LookupFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.TrimSpace(q.Get("code"))
	if code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	if q.Get("from") == "" && q.Get("to") == "" {
		flights, err := h.services.Registry.FlightsByCode(r.Context(), code)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, flights)
		return
	}

	from, errFrom := strconv.ParseInt(q.Get("from"), 10, 64)
	to, errTo := strconv.ParseInt(q.Get("to"), 10, 64)
	if errFrom != nil || errTo != nil {
		respondError(w, http.StatusBadRequest, "from and to must be airport ids")
		return
	}

	flight, err := h.services.Registry.FindFlight(r.Context(), code, from, to)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetCapacity GET /api/flights/{id}/capacity - вместимость самолёта рейса
func (h *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	capacity, err := h.services.Registry.Capacity(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, capacity)
}

// AddStop POST /api/flights/{id}/stops - добавляет промежуточную посадку
func (h *Handler) AddStop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req addStopRequest
	if !h.decode(w, r, &req) {
		return
	}

	stop, err := h.services.Stop.AddStop(r.Context(), id, req.AirportID, req.StopMinutes, req.Note)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, stop)
}

// GetStops GET /api/flights/{id}/stops - промежуточные посадки рейса
func (h *Handler) GetStops(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stops, err := h.services.Stop.Stops(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stops)
}

// CreateSchedule POST /api/schedules - создаёт вылет и привязывает места
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}

	schedule, err := h.services.Schedule.CreateSchedule(r.Context(), model.ScheduleRequest{
		FlightID:              req.FlightID,
		DepartureTime:         req.DepartureTime,
		FlightDurationMinutes: req.FlightDurationMinutes,
		BusinessSeats:         req.BusinessSeats,
		EconomySeats:          req.EconomySeats,
		BusinessPrice:         req.BusinessPrice,
		EconomyPrice:          req.EconomyPrice,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, schedule)
}

// SearchSchedules GET /api/schedules?dep=1&dest=2&date=2026-11-01 - поиск вылетов по направлению и дате
func (h *Handler) SearchSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dep, errDep := strconv.ParseInt(q.Get("dep"), 10, 64)
	dest, errDest := strconv.ParseInt(q.Get("dest"), 10, 64)
	if errDep != nil || errDest != nil {
		respondError(w, http.StatusBadRequest, "dep and dest must be airport ids")
		return
	}

	date, err := time.Parse(time.DateOnly, q.Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	results, err := h.services.Schedule.Search(r.Context(), dep, dest, date)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// GetSchedule GET /api/schedules/{id} - вылет по ID
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	schedule, err := h.services.Schedule.Schedule(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// SeatFeed GET /api/schedules/{id}/ws - WebSocket-подписка на изменения мест вылета
func (h *Handler) SeatFeed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.services.Schedule.Schedule(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.services.Feed.ServeWS(w, r, id)
}

// GetAssignments GET /api/schedules/{id}/assignments - все места вылета
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	assignments, err := h.services.Schedule.Assignments(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

// GetAvailableSeats GET /api/schedules/{id}/available?class=economy - свободные места класса
func (h *Handler) GetAvailableSeats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	class := model.SeatClass(r.URL.Query().Get("class"))
	seats, err := h.services.Schedule.AvailableSeats(r.Context(), id, class)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, availableSeatsResponse{
		ScheduleID: id,
		Class:      string(class),
		Seats:      seats,
	})
}

// MaterializeSeats POST /api/schedules/{id}/materialize - повторная привязка мест вылета
func (h *Handler) MaterializeSeats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	total, err := h.services.Schedule.MaterializeSeats(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, materializeResponse{ScheduleID: id, Seats: total})
}

// BookSeats POST /api/bookings - покупка мест, вызывающий из X-User-ID
func (h *Handler) BookSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req bookSeatsRequest
	if !h.decode(w, r, &req) {
		return
	}

	passengers := make([]model.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		// формат уже проверен тегом datetime
		birthday, _ := time.Parse(time.DateOnly, p.Birthday)
		passengers = append(passengers, model.Passenger{
			Name:     p.Name,
			LastName: p.LastName,
			Gender:   model.Gender(p.Gender),
			Birthday: birthday,
			SeatCode: strings.ToUpper(p.SeatCode),
		})
	}

	receipt, err := h.services.Booking.BookSeats(r.Context(), model.BookingRequest{
		ScheduleID:    req.ScheduleID,
		UserID:        userID,
		Class:         model.SeatClass(req.Class),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Passengers:    passengers,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

// GetReceipt GET /api/receipts/{id} - чек с билетами
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	receipt, err := h.services.Booking.Receipt(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}
