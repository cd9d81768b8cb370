package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/policy"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CatalogService struct {
	tx        Transactor
	airplanes AirplaneStore
	logger    *zap.Logger
}

func NewCatalogService(tx Transactor, airplanes AirplaneStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		tx:        tx,
		airplanes: airplanes,
		logger:    logger,
	}
}

// CreateAirplane создаёт самолёт и весь каталог его мест в одной транзакции
func (s *CatalogService) CreateAirplane(ctx context.Context, name string, airline model.Airline, business, economy int) (*model.Airplane, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: airplane name is required", model.ErrInvalidRequest)
	}
	if !airline.Valid() {
		return nil, fmt.Errorf("%w: unknown airline %q", model.ErrInvalidRequest, airline)
	}
	if business < 0 || economy < 0 {
		return nil, fmt.Errorf("%w: seat capacity must not be negative", model.ErrInvalidRequest)
	}

	var airplane *model.Airplane
	err := s.tx.WithinTx(ctx, pgx.ReadCommitted, func(ctx context.Context) error {
		airplane = &model.Airplane{
			Name:                 name,
			Airline:              airline,
			BusinessSeatCapacity: business,
			EconomySeatCapacity:  economy,
		}
		if err := s.airplanes.Create(ctx, airplane); err != nil {
			return err
		}

		seats := policy.GenerateSeats(airplane)
		if len(seats) == 0 {
			return nil
		}

		n, err := s.airplanes.CreateSeats(ctx, seats)
		if err != nil {
			return err
		}
		if n != int64(len(seats)) {
			return fmt.Errorf("inserted %d seats, expected %d", n, len(seats))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create airplane",
			zap.String("name", name),
			zap.Error(err))
		return nil, fmt.Errorf("create airplane: %w", err)
	}

	s.logger.Info("Airplane created",
		zap.Int64("airplane_id", airplane.ID),
		zap.String("airline", string(airline)),
		zap.Int("business_seats", business),
		zap.Int("economy_seats", economy))

	return airplane, nil
}

// Airplane получает самолёт по ID
func (s *CatalogService) Airplane(ctx context.Context, id int64) (*model.Airplane, error) {
	airplane, err := s.airplanes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get airplane: %w", err)
	}
	if airplane == nil {
		return nil, fmt.Errorf("airplane %d: %w", id, model.ErrNotFound)
	}
	return airplane, nil
}

// Seats каталог мест самолёта: сначала бизнес, затем эконом
func (s *CatalogService) Seats(ctx context.Context, airplaneID int64) ([]*model.Seat, error) {
	if _, err := s.Airplane(ctx, airplaneID); err != nil {
		return nil, err
	}

	seats, err := s.airplanes.GetSeats(ctx, airplaneID)
	if err != nil {
		return nil, fmt.Errorf("get seats: %w", err)
	}
	return seats, nil
}
