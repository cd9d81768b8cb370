package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	tx        *fakeTx
	policies  *mockPolicyProvider
	flights   *mockFlightStore
	schedules *mockScheduleStore
	cache     *mockSeatCache
	notifier  *mockNotifier
	svc       *ScheduleService
}

func newScheduleFixture() *scheduleFixture {
	f := &scheduleFixture{
		tx:        &fakeTx{},
		policies:  new(mockPolicyProvider),
		flights:   new(mockFlightStore),
		schedules: new(mockScheduleStore),
		cache:     new(mockSeatCache),
		notifier:  new(mockNotifier),
	}
	f.svc = NewScheduleService(f.tx, f.policies, f.flights, f.schedules, f.cache, f.notifier,
		fixedClock{now: testToday}, testLogger)
	return f
}

func testFlight() *model.Flight {
	return &model.Flight{
		ID:         1,
		Code:       "VN123",
		RouteID:    10,
		AirplaneID: 3,
		Airplane: &model.Airplane{
			ID:                   3,
			BusinessSeatCapacity: 20,
			EconomySeatCapacity:  150,
		},
	}
}

var testDeparture = time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)

var testToday = time.Date(2026, 10, 20, 15, 30, 0, 0, time.UTC)

func validScheduleRequest() model.ScheduleRequest {
	return model.ScheduleRequest{
		FlightID:              1,
		DepartureTime:         testDeparture,
		FlightDurationMinutes: 90,
		BusinessSeats:         10,
		EconomySeats:          100,
		BusinessPrice:         3_000_000,
		EconomyPrice:          1_500_000,
	}
}

func TestScheduleService_CreateSchedule(t *testing.T) {
	f := newScheduleFixture()

	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.policies.On("Current", mock.Anything).Return(defaultPolicy(), nil)
	f.schedules.On("ExistsAt", mock.Anything, int64(1), testDeparture).Return(false, nil)
	f.schedules.On("Create", mock.Anything, mock.AnythingOfType("*model.FlightSchedule")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.FlightSchedule).ID = 100
		}).
		Return(nil)
	f.schedules.On("MaterializeSeats", mock.Anything, int64(100), int64(3), 10, 100).Return(int64(110), nil)
	f.notifier.On("ScheduleCreated", mock.Anything, mock.Anything).Return(nil)

	schedule, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(100), schedule.ID)
	assert.Equal(t, int64(10), schedule.RouteID)
	assert.Equal(t, []pgx.TxIsoLevel{pgx.Serializable}, f.tx.levels)

	f.schedules.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestScheduleService_CreateScheduleRejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.ScheduleRequest)
		msg    string
	}{
		{
			name:   "business seats over capacity",
			modify: func(r *model.ScheduleRequest) { r.BusinessSeats = 21 },
			msg:    "business seats 21 exceed airplane capacity 20",
		},
		{
			name:   "economy seats over capacity",
			modify: func(r *model.ScheduleRequest) { r.EconomySeats = 151 },
			msg:    "economy seats 151 exceed airplane capacity 150",
		},
		{
			name:   "flight too short",
			modify: func(r *model.ScheduleRequest) { r.FlightDurationMinutes = 29 },
			msg:    "flight duration must be at least 30 minutes",
		},
		{
			name:   "economy price too low",
			modify: func(r *model.ScheduleRequest) { r.EconomyPrice = 999_999 },
			msg:    "economy price must be at least 1000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture()
			f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
			f.policies.On("Current", mock.Anything).Return(defaultPolicy(), nil)

			req := validScheduleRequest()
			tt.modify(&req)

			_, err := f.svc.CreateSchedule(context.Background(), req)
			assert.ErrorIs(t, err, model.ErrPolicyViolation)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Empty(t, f.tx.levels)
			f.schedules.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestScheduleService_CreateScheduleUnknownFlight(t *testing.T) {
	f := newScheduleFixture()
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(nil, nil)

	_, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	assert.ErrorIs(t, err, model.ErrFlightNotFound)
}

func TestScheduleService_CreateScheduleNoPolicy(t *testing.T) {
	f := newScheduleFixture()
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.policies.On("Current", mock.Anything).Return(nil, model.ErrNotConfigured)

	_, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	assert.ErrorIs(t, err, model.ErrNotConfigured)
}

func TestScheduleService_CreateScheduleDuplicate(t *testing.T) {
	f := newScheduleFixture()
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.policies.On("Current", mock.Anything).Return(defaultPolicy(), nil)
	f.schedules.On("ExistsAt", mock.Anything, int64(1), testDeparture).Return(true, nil)

	_, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	assert.ErrorIs(t, err, model.ErrDuplicateSchedule)
}

func TestScheduleService_CreateScheduleDuplicateRace(t *testing.T) {
	f := newScheduleFixture()
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.policies.On("Current", mock.Anything).Return(defaultPolicy(), nil)
	f.schedules.On("ExistsAt", mock.Anything, int64(1), testDeparture).Return(false, nil)
	f.schedules.On("Create", mock.Anything, mock.Anything).Return(model.ErrDuplicateSchedule)

	_, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	assert.ErrorIs(t, err, model.ErrDuplicateSchedule)
	f.schedules.AssertNotCalled(t, "MaterializeSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleService_CreateScheduleShortMaterialization(t *testing.T) {
	f := newScheduleFixture()
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.policies.On("Current", mock.Anything).Return(defaultPolicy(), nil)
	f.schedules.On("ExistsAt", mock.Anything, int64(1), testDeparture).Return(false, nil)
	f.schedules.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.schedules.On("MaterializeSeats", mock.Anything, mock.Anything, int64(3), 10, 100).Return(int64(108), nil)

	_, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materialized 108 seats, expected 110")
	f.notifier.AssertNotCalled(t, "ScheduleCreated", mock.Anything, mock.Anything)
}

func TestScheduleService_CreateScheduleNotifyFailureIgnored(t *testing.T) {
	f := newScheduleFixture()
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.policies.On("Current", mock.Anything).Return(defaultPolicy(), nil)
	f.schedules.On("ExistsAt", mock.Anything, int64(1), testDeparture).Return(false, nil)
	f.schedules.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.schedules.On("MaterializeSeats", mock.Anything, mock.Anything, int64(3), 10, 100).Return(int64(110), nil)
	f.notifier.On("ScheduleCreated", mock.Anything, mock.Anything).Return(errors.New("telegram down"))

	_, err := f.svc.CreateSchedule(context.Background(), validScheduleRequest())
	assert.NoError(t, err)
}

func TestScheduleService_MaterializeSeatsIdempotent(t *testing.T) {
	f := newScheduleFixture()
	f.schedules.On("GetByID", mock.Anything, int64(100)).Return(&model.FlightSchedule{
		ID:                   100,
		FlightID:             1,
		BusinessSeatsOffered: 10,
		EconomySeatsOffered:  100,
	}, nil)
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.schedules.On("MaterializeSeats", mock.Anything, int64(100), int64(3), 10, 100).Return(int64(0), nil)
	f.schedules.On("CountAssignments", mock.Anything, int64(100)).Return(10, 100, nil)

	total, err := f.svc.MaterializeSeats(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 110, total)
}

func TestScheduleService_AvailableSeatsCacheHit(t *testing.T) {
	f := newScheduleFixture()
	f.cache.On("GetAvailable", mock.Anything, int64(100), model.SeatClassBusiness).
		Return([]string{"B1A", "B1C"}, int64(3), true, nil)

	codes, err := f.svc.AvailableSeats(context.Background(), 100, model.SeatClassBusiness)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1A", "B1C"}, codes)
	f.schedules.AssertNotCalled(t, "AvailableSeatCodes", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleService_AvailableSeatsCacheMiss(t *testing.T) {
	f := newScheduleFixture()
	f.cache.On("GetAvailable", mock.Anything, int64(100), model.SeatClassEconomy).
		Return(nil, int64(4), false, nil)
	f.schedules.On("GetByID", mock.Anything, int64(100)).Return(&model.FlightSchedule{ID: 100}, nil)
	f.schedules.On("AvailableSeatCodes", mock.Anything, int64(100), model.SeatClassEconomy).
		Return([]string{"E1A"}, nil)
	// список сохраняется с версией, прочитанной до запроса в базу
	f.cache.On("SetAvailable", mock.Anything, int64(100), model.SeatClassEconomy, int64(4), []string{"E1A"}).Return(nil)

	codes, err := f.svc.AvailableSeats(context.Background(), 100, model.SeatClassEconomy)
	require.NoError(t, err)
	assert.Equal(t, []string{"E1A"}, codes)
	f.cache.AssertExpectations(t)
}

func TestScheduleService_AvailableSeatsCacheDown(t *testing.T) {
	f := newScheduleFixture()
	f.cache.On("GetAvailable", mock.Anything, int64(100), model.SeatClassEconomy).
		Return(nil, int64(0), false, errors.New("redis down"))
	f.schedules.On("GetByID", mock.Anything, int64(100)).Return(&model.FlightSchedule{ID: 100}, nil)
	f.schedules.On("AvailableSeatCodes", mock.Anything, int64(100), model.SeatClassEconomy).
		Return([]string{"E1A"}, nil)

	codes, err := f.svc.AvailableSeats(context.Background(), 100, model.SeatClassEconomy)
	require.NoError(t, err)
	assert.Equal(t, []string{"E1A"}, codes)
	f.cache.AssertNotCalled(t, "SetAvailable", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleService_AssignmentsUnknownSchedule(t *testing.T) {
	f := newScheduleFixture()
	f.schedules.On("GetByID", mock.Anything, int64(5)).Return(nil, nil)

	_, err := f.svc.Assignments(context.Background(), 5)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestScheduleService_RepairUpcomingContinuesOnError(t *testing.T) {
	f := newScheduleFixture()
	now := testDeparture.Add(-48 * time.Hour)

	f.schedules.On("UpcomingIDs", mock.Anything, now).Return([]int64{100, 101}, nil)
	f.schedules.On("GetByID", mock.Anything, int64(100)).Return(nil, errors.New("timeout"))
	f.schedules.On("GetByID", mock.Anything, int64(101)).Return(&model.FlightSchedule{
		ID:                   101,
		FlightID:             1,
		BusinessSeatsOffered: 2,
		EconomySeatsOffered:  3,
	}, nil)
	f.flights.On("GetByID", mock.Anything, int64(1)).Return(testFlight(), nil)
	f.schedules.On("MaterializeSeats", mock.Anything, int64(101), int64(3), 2, 3).Return(int64(1), nil)
	f.schedules.On("CountAssignments", mock.Anything, int64(101)).Return(2, 3, nil)

	repaired, err := f.svc.RepairUpcoming(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
}

func TestScheduleService_Search(t *testing.T) {
	f := newScheduleFixture()
	from := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	found := []*model.FlightSearchResult{{
		ScheduleID:             100,
		FlightCode:             "VN123",
		RemainingBusinessSeats: 8,
		RemainingEconomySeats:  97,
		Stops:                  []model.SearchStop{{AirportID: 7, AirportName: "Cam Ranh", StopMinutes: 25}},
	}}
	f.schedules.On("Search", mock.Anything, int64(1), int64(2), from, from.Add(24*time.Hour)).Return(found, nil)

	// время суток в дате не влияет на границы дня
	results, err := f.svc.Search(context.Background(), 1, 2, time.Date(2026, 11, 1, 17, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, found, results)
	f.schedules.AssertExpectations(t)
}

func TestScheduleService_SearchToday(t *testing.T) {
	f := newScheduleFixture()
	from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	f.schedules.On("Search", mock.Anything, int64(1), int64(2), from, from.Add(24*time.Hour)).
		Return([]*model.FlightSearchResult{}, nil)

	results, err := f.svc.Search(context.Background(), 1, 2, from)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScheduleService_SearchRejected(t *testing.T) {
	tests := []struct {
		name        string
		departure   int64
		destination int64
		date        time.Time
		wantErr     error
	}{
		{name: "past date", departure: 1, destination: 2, date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), wantErr: model.ErrInvalidRequest},
		{name: "missing airport", departure: 0, destination: 2, date: testDeparture, wantErr: model.ErrInvalidRequest},
		{name: "same airports", departure: 2, destination: 2, date: testDeparture, wantErr: model.ErrInvalidRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture()

			_, err := f.svc.Search(context.Background(), tt.departure, tt.destination, tt.date)
			assert.ErrorIs(t, err, tt.wantErr)
			f.schedules.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
