package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/stretchr/testify/mock"
)

type mockPolicyService struct {
	mock.Mock
}

func (m *mockPolicyService) Current(ctx context.Context) (*model.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Policy), args.Error(1)
}

func (m *mockPolicyService) Set(ctx context.Context, p *model.Policy) (*model.Policy, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Policy), args.Error(1)
}

func (m *mockPolicyService) History(ctx context.Context) ([]*model.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Policy), args.Error(1)
}

type mockScheduleService struct {
	mock.Mock
}

func (m *mockScheduleService) CreateSchedule(ctx context.Context, req model.ScheduleRequest) (*model.FlightSchedule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FlightSchedule), args.Error(1)
}

func (m *mockScheduleService) Schedule(ctx context.Context, id int64) (*model.FlightSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FlightSchedule), args.Error(1)
}

func (m *mockScheduleService) MaterializeSeats(ctx context.Context, scheduleID int64) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

func (m *mockScheduleService) Assignments(ctx context.Context, scheduleID int64) ([]*model.SeatAssignment, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SeatAssignment), args.Error(1)
}

func (m *mockScheduleService) AvailableSeats(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, error) {
	args := m.Called(ctx, scheduleID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockScheduleService) Search(ctx context.Context, departureID, destinationID int64, date time.Time) ([]*model.FlightSearchResult, error) {
	args := m.Called(ctx, departureID, destinationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FlightSearchResult), args.Error(1)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) BookSeats(ctx context.Context, req model.BookingRequest) (*model.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *mockBookingService) Receipt(ctx context.Context, id int64) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

type mockStopService struct {
	mock.Mock
}

func (m *mockStopService) AddStop(ctx context.Context, flightID, airportID int64, stopMinutes int, note string) (*model.IntermediateStop, error) {
	args := m.Called(ctx, flightID, airportID, stopMinutes, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IntermediateStop), args.Error(1)
}

func (m *mockStopService) Stops(ctx context.Context, flightID int64) ([]*model.IntermediateStop, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.IntermediateStop), args.Error(1)
}

type mockSeatFeed struct {
	mock.Mock
}

func (m *mockSeatFeed) ServeWS(w http.ResponseWriter, r *http.Request, scheduleID int64) {
	m.Called(scheduleID)
	w.WriteHeader(http.StatusSwitchingProtocols)
}
