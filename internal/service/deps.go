package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/jackc/pgx/v5"
)

// Интерфейсы зависимостей сервисов. Реализуются репозиториями из internal/repository,
// кэшем из internal/cache, уведомлениями из internal/notify и internal/live.

// Transactor запускает функцию в транзакции (base.Transactor)
type Transactor interface {
	WithinTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(ctx context.Context) error) error
}

type PolicyStore interface {
	Create(ctx context.Context, p *model.Policy) error
	GetLatest(ctx context.Context) (*model.Policy, error)
	List(ctx context.Context) ([]*model.Policy, error)
}

// PolicyProvider отдаёт актуальную политику на момент вызова
type PolicyProvider interface {
	Current(ctx context.Context) (*model.Policy, error)
}

type AirplaneStore interface {
	Create(ctx context.Context, airplane *model.Airplane) error
	GetByID(ctx context.Context, id int64) (*model.Airplane, error)
	CreateSeats(ctx context.Context, seats []model.Seat) (int64, error)
	GetSeats(ctx context.Context, airplaneID int64) ([]*model.Seat, error)
}

type FlightStore interface {
	CreateAirport(ctx context.Context, airport *model.Airport) error
	GetAirport(ctx context.Context, id int64) (*model.Airport, error)
	GetOrCreateRoute(ctx context.Context, departureID, destinationID int64) (*model.Route, error)
	GetRoute(ctx context.Context, id int64) (*model.Route, error)
	Create(ctx context.Context, flight *model.Flight) error
	GetByID(ctx context.Context, id int64) (*model.Flight, error)
	FindByCodeAndAirports(ctx context.Context, code string, departureID, destinationID int64) (*model.Flight, error)
	GetByCode(ctx context.Context, code string) ([]*model.Flight, error)
	LockByID(ctx context.Context, id int64) (bool, error)
	Capacity(ctx context.Context, flightID int64) (*model.FlightCapacity, error)
}

type StopStore interface {
	Create(ctx context.Context, stop *model.IntermediateStop) error
	CountByFlight(ctx context.Context, flightID int64) (int, error)
	GetByFlight(ctx context.Context, flightID int64) ([]*model.IntermediateStop, error)
}

type ScheduleStore interface {
	Create(ctx context.Context, s *model.FlightSchedule) error
	ExistsAt(ctx context.Context, flightID int64, departure time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.FlightSchedule, error)
	UpcomingIDs(ctx context.Context, from time.Time) ([]int64, error)
	MaterializeSeats(ctx context.Context, scheduleID, airplaneID int64, business, economy int) (int64, error)
	CountAssignments(ctx context.Context, scheduleID int64) (business, economy int, err error)
	GetAssignments(ctx context.Context, scheduleID int64) ([]*model.SeatAssignment, error)
	AvailableSeatCodes(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, error)
	Search(ctx context.Context, departureID, destinationID int64, from, to time.Time) ([]*model.FlightSearchResult, error)
}

type BookingStore interface {
	CreateCustomer(ctx context.Context, c *model.Customer) error
	ReserveSeat(ctx context.Context, scheduleID int64, class model.SeatClass, code string) (int64, error)
	CreateTicket(ctx context.Context, t *model.Ticket) error
	CreateReceipt(ctx context.Context, receipt *model.Receipt) error
	GetReceipt(ctx context.Context, id int64) (*model.Receipt, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// SeatCache кэш свободных мест вылета. Ошибки кэша не должны ломать основной сценарий.
// GetAvailable отдаёт версию вылета, с которой SetAvailable сохраняет прочитанный список.
type SeatCache interface {
	GetAvailable(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, int64, bool, error)
	SetAvailable(ctx context.Context, scheduleID int64, class model.SeatClass, version int64, codes []string) error
	Invalidate(ctx context.Context, scheduleID int64) error
}

// Notifier уведомляет сотрудников о событиях
type Notifier interface {
	ReceiptIssued(ctx context.Context, receipt *model.Receipt) error
	ScheduleCreated(ctx context.Context, schedule *model.FlightSchedule) error
}

// SeatEvents рассылает подписчикам вылета изменения мест. Не блокирует вызывающего.
type SeatEvents interface {
	SeatsBooked(scheduleID int64, class model.SeatClass, seatCodes []string)
}

// Clock источник текущего времени, подменяется в тестах
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock часы по системному времени
var SystemClock Clock = systemClock{}
