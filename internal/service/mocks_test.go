package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// fakeTx выполняет функцию без транзакции и запоминает уровень изоляции
type fakeTx struct {
	levels []pgx.TxIsoLevel
}

func (f *fakeTx) WithinTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(ctx context.Context) error) error {
	f.levels = append(f.levels, iso)
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testLogger = zap.NewNop()

type mockPolicyStore struct {
	mock.Mock
}

func (m *mockPolicyStore) Create(ctx context.Context, p *model.Policy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPolicyStore) GetLatest(ctx context.Context) (*model.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Policy), args.Error(1)
}

func (m *mockPolicyStore) List(ctx context.Context) ([]*model.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Policy), args.Error(1)
}

type mockPolicyProvider struct {
	mock.Mock
}

func (m *mockPolicyProvider) Current(ctx context.Context) (*model.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Policy), args.Error(1)
}

type mockAirplaneStore struct {
	mock.Mock
}

func (m *mockAirplaneStore) Create(ctx context.Context, airplane *model.Airplane) error {
	args := m.Called(ctx, airplane)
	return args.Error(0)
}

func (m *mockAirplaneStore) GetByID(ctx context.Context, id int64) (*model.Airplane, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airplane), args.Error(1)
}

func (m *mockAirplaneStore) CreateSeats(ctx context.Context, seats []model.Seat) (int64, error) {
	args := m.Called(ctx, seats)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAirplaneStore) GetSeats(ctx context.Context, airplaneID int64) ([]*model.Seat, error) {
	args := m.Called(ctx, airplaneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Seat), args.Error(1)
}

type mockFlightStore struct {
	mock.Mock
}

func (m *mockFlightStore) CreateAirport(ctx context.Context, airport *model.Airport) error {
	args := m.Called(ctx, airport)
	return args.Error(0)
}

func (m *mockFlightStore) GetAirport(ctx context.Context, id int64) (*model.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *mockFlightStore) GetOrCreateRoute(ctx context.Context, departureID, destinationID int64) (*model.Route, error) {
	args := m.Called(ctx, departureID, destinationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *mockFlightStore) GetRoute(ctx context.Context, id int64) (*model.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *mockFlightStore) Create(ctx context.Context, flight *model.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *mockFlightStore) GetByID(ctx context.Context, id int64) (*model.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *mockFlightStore) FindByCodeAndAirports(ctx context.Context, code string, departureID, destinationID int64) (*model.Flight, error) {
	args := m.Called(ctx, code, departureID, destinationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *mockFlightStore) GetByCode(ctx context.Context, code string) ([]*model.Flight, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Flight), args.Error(1)
}

func (m *mockFlightStore) LockByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockFlightStore) Capacity(ctx context.Context, flightID int64) (*model.FlightCapacity, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FlightCapacity), args.Error(1)
}

type mockStopStore struct {
	mock.Mock
}

func (m *mockStopStore) Create(ctx context.Context, stop *model.IntermediateStop) error {
	args := m.Called(ctx, stop)
	return args.Error(0)
}

func (m *mockStopStore) CountByFlight(ctx context.Context, flightID int64) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

func (m *mockStopStore) GetByFlight(ctx context.Context, flightID int64) ([]*model.IntermediateStop, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.IntermediateStop), args.Error(1)
}

type mockScheduleStore struct {
	mock.Mock
}

func (m *mockScheduleStore) Create(ctx context.Context, s *model.FlightSchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockScheduleStore) ExistsAt(ctx context.Context, flightID int64, departure time.Time) (bool, error) {
	args := m.Called(ctx, flightID, departure)
	return args.Bool(0), args.Error(1)
}

func (m *mockScheduleStore) GetByID(ctx context.Context, id int64) (*model.FlightSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FlightSchedule), args.Error(1)
}

func (m *mockScheduleStore) UpcomingIDs(ctx context.Context, from time.Time) ([]int64, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockScheduleStore) MaterializeSeats(ctx context.Context, scheduleID, airplaneID int64, business, economy int) (int64, error) {
	args := m.Called(ctx, scheduleID, airplaneID, business, economy)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockScheduleStore) CountAssignments(ctx context.Context, scheduleID int64) (int, int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockScheduleStore) GetAssignments(ctx context.Context, scheduleID int64) ([]*model.SeatAssignment, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SeatAssignment), args.Error(1)
}

func (m *mockScheduleStore) AvailableSeatCodes(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, error) {
	args := m.Called(ctx, scheduleID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockScheduleStore) Search(ctx context.Context, departureID, destinationID int64, from, to time.Time) ([]*model.FlightSearchResult, error) {
	args := m.Called(ctx, departureID, destinationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FlightSearchResult), args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockBookingStore) ReserveSeat(ctx context.Context, scheduleID int64, class model.SeatClass, code string) (int64, error) {
	args := m.Called(ctx, scheduleID, class, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingStore) CreateTicket(ctx context.Context, t *model.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockBookingStore) CreateReceipt(ctx context.Context, receipt *model.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *mockBookingStore) GetReceipt(ctx context.Context, id int64) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockSeatCache struct {
	mock.Mock
}

func (m *mockSeatCache) GetAvailable(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, int64, bool, error) {
	args := m.Called(ctx, scheduleID, class)
	codes, _ := args.Get(0).([]string)
	return codes, args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *mockSeatCache) SetAvailable(ctx context.Context, scheduleID int64, class model.SeatClass, version int64, codes []string) error {
	args := m.Called(ctx, scheduleID, class, version, codes)
	return args.Error(0)
}

func (m *mockSeatCache) Invalidate(ctx context.Context, scheduleID int64) error {
	args := m.Called(ctx, scheduleID)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) ReceiptIssued(ctx context.Context, receipt *model.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *mockNotifier) ScheduleCreated(ctx context.Context, schedule *model.FlightSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

type bookedSeats struct {
	scheduleID int64
	class      model.SeatClass
	codes      []string
}

type recordingSeatEvents struct {
	booked []bookedSeats
}

func (r *recordingSeatEvents) SeatsBooked(scheduleID int64, class model.SeatClass, seatCodes []string) {
	r.booked = append(r.booked, bookedSeats{scheduleID: scheduleID, class: class, codes: seatCodes})
}

func defaultPolicy() *model.Policy {
	return &model.Policy{
		ID:                       1,
		MinFlightTimeMinutes:     30,
		MaxIntermediateStops:     2,
		MinStopMinutes:           20,
		MaxStopMinutes:           30,
		MinTicketPrice:           1_000_000,
		TicketSellWindowHours:    4,
		TicketBookingWindowHours: 12,
	}
}
