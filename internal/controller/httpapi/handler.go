// Package httpapi JSON-транспорт поверх сервисов бронирования.
// Аутентификация выполняется снаружи, вызывающий передаётся в заголовке X-User-ID.
package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// UserIDHeader заголовок с ID вызывающего пользователя
const UserIDHeader = "X-User-ID"

type PolicyService interface {
	Current(ctx context.Context) (*model.Policy, error)
	Set(ctx context.Context, p *model.Policy) (*model.Policy, error)
	History(ctx context.Context) ([]*model.Policy, error)
}

type CatalogService interface {
	CreateAirplane(ctx context.Context, name string, airline model.Airline, business, economy int) (*model.Airplane, error)
	Airplane(ctx context.Context, id int64) (*model.Airplane, error)
	Seats(ctx context.Context, airplaneID int64) ([]*model.Seat, error)
}

type RegistryService interface {
	CreateAirport(ctx context.Context, name, city string) (*model.Airport, error)
	CreateRoute(ctx context.Context, departureID, destinationID int64) (*model.Route, error)
	CreateFlight(ctx context.Context, code string, routeID, airplaneID int64) (*model.Flight, error)
	FindFlight(ctx context.Context, code string, departureID, destinationID int64) (*model.Flight, error)
	FlightsByCode(ctx context.Context, code string) ([]*model.Flight, error)
	Capacity(ctx context.Context, flightID int64) (*model.FlightCapacity, error)
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req model.ScheduleRequest) (*model.FlightSchedule, error)
	Schedule(ctx context.Context, id int64) (*model.FlightSchedule, error)
	MaterializeSeats(ctx context.Context, scheduleID int64) (int, error)
	Assignments(ctx context.Context, scheduleID int64) ([]*model.SeatAssignment, error)
	AvailableSeats(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, error)
	Search(ctx context.Context, departureID, destinationID int64, date time.Time) ([]*model.FlightSearchResult, error)
}

type BookingService interface {
	BookSeats(ctx context.Context, req model.BookingRequest) (*model.Receipt, error)
	Receipt(ctx context.Context, id int64) (*model.Receipt, error)
}

type StopService interface {
	AddStop(ctx context.Context, flightID, airportID int64, stopMinutes int, note string) (*model.IntermediateStop, error)
	Stops(ctx context.Context, flightID int64) ([]*model.IntermediateStop, error)
}

// SeatFeed подписка на изменения мест вылета (internal/live)
type SeatFeed interface {
	ServeWS(w http.ResponseWriter, r *http.Request, scheduleID int64)
}

// Services набор сервисов, которые обслуживает API
type Services struct {
	Policy   PolicyService
	Catalog  CatalogService
	Registry RegistryService
	Schedule ScheduleService
	Booking  BookingService
	Stop     StopService
	Feed     SeatFeed
}

type Handler struct {
	services Services
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(services Services, logger *zap.Logger) *Handler {
	return &Handler{
		services: services,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Router создаёт маршрутизатор со всеми эндпоинтами
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api").Subrouter()

	// Политика
	api.HandleFunc("/policy", h.GetPolicy).Methods(http.MethodGet)
	api.HandleFunc("/policy", h.SetPolicy).Methods(http.MethodPut)
	api.HandleFunc("/policy/history", h.PolicyHistory).Methods(http.MethodGet)

	// Самолёты и места
	api.HandleFunc("/airplanes", h.CreateAirplane).Methods(http.MethodPost)
	api.HandleFunc("/airplanes/{id:[0-9]+}", h.GetAirplane).Methods(http.MethodGet)
	api.HandleFunc("/airplanes/{id:[0-9]+}/seats", h.GetAirplaneSeats).Methods(http.MethodGet)

	// Аэропорты, маршруты, рейсы
	api.HandleFunc("/airports", h.CreateAirport).Methods(http.MethodPost)
	api.HandleFunc("/routes", h.CreateRoute).Methods(http.MethodPost)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights", h.LookupFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id:[0-9]+}/capacity", h.GetCapacity).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id:[0-9]+}/stops", h.AddStop).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id:[0-9]+}/stops", h.GetStops).Methods(http.MethodGet)

	// Вылеты
	api.HandleFunc("/schedules", h.CreateSchedule).Methods(http.MethodPost)
	api.HandleFunc("/schedules", h.SearchSchedules).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}", h.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}/assignments", h.GetAssignments).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}/available", h.GetAvailableSeats).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{id:[0-9]+}/materialize", h.MaterializeSeats).Methods(http.MethodPost)
	if h.services.Feed != nil {
		api.HandleFunc("/schedules/{id:[0-9]+}/ws", h.SeatFeed).Methods(http.MethodGet)
	}

	// Бронирование
	api.HandleFunc("/bookings", h.BookSeats).Methods(http.MethodPost)
	api.HandleFunc("/receipts/{id:[0-9]+}", h.GetReceipt).Methods(http.MethodGet)

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack нужен для перехода на WebSocket
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError переводит ошибку сервиса в HTTP-статус
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidRequest),
		errors.Is(err, model.ErrInvalidPolicy),
		errors.Is(err, model.ErrInvalidRoute):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrFlightNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSeatUnavailable),
		errors.Is(err, model.ErrDuplicateFlight),
		errors.Is(err, model.ErrDuplicateSchedule),
		errors.Is(err, model.ErrDuplicateStop):
		return http.StatusConflict
	case errors.Is(err, model.ErrPolicyViolation),
		errors.Is(err, model.ErrTooManyStops),
		errors.Is(err, model.ErrStopDurationOutOfRange),
		errors.Is(err, model.ErrBookingWindowClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// decode читает JSON-тело и проверяет теги validate
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "field " + fe.Namespace() + " failed on " + fe.Tag()
	}
	return err.Error()
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Header.Get(UserIDHeader), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusUnauthorized, "missing or invalid "+UserIDHeader)
		return 0, false
	}
	return id, true
}
