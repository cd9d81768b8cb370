package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateAirplane(t *testing.T) {
	tx := &fakeTx{}
	repo := new(mockAirplaneStore)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Airplane")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Airplane).ID = 3
		}).
		Return(nil)

	var inserted []model.Seat
	repo.On("CreateSeats", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]model.Seat)
		}).
		Return(int64(9), nil)

	svc := NewCatalogService(tx, repo, testLogger)

	airplane, err := svc.CreateAirplane(context.Background(), "A321", model.AirlineVietjetAir, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), airplane.ID)
	assert.Equal(t, []pgx.TxIsoLevel{pgx.ReadCommitted}, tx.levels)

	require.Len(t, inserted, 9)
	assert.Equal(t, "B1A", inserted[0].Code)
	assert.Equal(t, "B1B", inserted[1].Code)
	assert.Equal(t, "E1A", inserted[2].Code)
	assert.Equal(t, "E2A", inserted[8].Code)
	for _, s := range inserted {
		assert.Equal(t, int64(3), s.AirplaneID)
	}
}

func TestCatalogService_CreateAirplaneShortInsert(t *testing.T) {
	repo := new(mockAirplaneStore)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateSeats", mock.Anything, mock.Anything).Return(int64(1), nil)

	svc := NewCatalogService(&fakeTx{}, repo, testLogger)

	_, err := svc.CreateAirplane(context.Background(), "A321", model.AirlineVietjetAir, 2, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserted 1 seats, expected 2")
}

func TestCatalogService_CreateAirplaneValidation(t *testing.T) {
	tests := []struct {
		name     string
		airplane string
		airline  model.Airline
		business int
		economy  int
	}{
		{name: "empty name", airplane: " ", airline: model.AirlineBambooAirways, business: 1, economy: 1},
		{name: "unknown airline", airplane: "A320", airline: "aeroflot", business: 1, economy: 1},
		{name: "negative capacity", airplane: "A320", airline: model.AirlineBambooAirways, business: -1, economy: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockAirplaneStore)
			svc := NewCatalogService(&fakeTx{}, repo, testLogger)

			_, err := svc.CreateAirplane(context.Background(), tt.airplane, tt.airline, tt.business, tt.economy)
			assert.ErrorIs(t, err, model.ErrInvalidRequest)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_SeatsUnknownAirplane(t *testing.T) {
	repo := new(mockAirplaneStore)
	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)

	svc := NewCatalogService(&fakeTx{}, repo, testLogger)

	_, err := svc.Seats(context.Background(), 42)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
