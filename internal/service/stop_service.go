package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/policy"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// StopService промежуточные посадки рейсов
type StopService struct {
	tx       Transactor
	policies PolicyProvider
	flights  FlightStore
	stops    StopStore
	logger   *zap.Logger
}

func NewStopService(tx Transactor, policies PolicyProvider, flights FlightStore, stops StopStore, logger *zap.Logger) *StopService {
	return &StopService{
		tx:       tx,
		policies: policies,
		flights:  flights,
		stops:    stops,
		logger:   logger,
	}
}

// AddStop добавляет промежуточную посадку. Строка рейса блокируется на время
// проверки, поэтому параллельные вызовы не превысят лимит посадок.
func (s *StopService) AddStop(ctx context.Context, flightID, airportID int64, stopMinutes int, note string) (*model.IntermediateStop, error) {
	p, err := s.policies.Current(ctx)
	if err != nil {
		return nil, err
	}

	stop := &model.IntermediateStop{
		FlightID:    flightID,
		AirportID:   airportID,
		StopMinutes: stopMinutes,
		Note:        note,
	}

	err = s.tx.WithinTx(ctx, pgx.ReadCommitted, func(ctx context.Context) error {
		found, err := s.flights.LockByID(ctx, flightID)
		if err != nil {
			return err
		}
		if !found {
			return model.ErrFlightNotFound
		}

		count, err := s.stops.CountByFlight(ctx, flightID)
		if err != nil {
			return err
		}

		if err := policy.ValidateStop(p, count, stopMinutes); err != nil {
			return err
		}

		return s.stops.Create(ctx, stop)
	})
	if err != nil {
		if isStopRejection(err) {
			s.logger.Warn("Stop rejected",
				zap.Int64("flight_id", flightID),
				zap.Int64("airport_id", airportID),
				zap.Int("stop_minutes", stopMinutes),
				zap.Error(err))
			return nil, err
		}
		s.logger.Error("Failed to add stop",
			zap.Int64("flight_id", flightID),
			zap.Error(err))
		return nil, fmt.Errorf("add stop: %w", err)
	}

	s.logger.Info("Stop added",
		zap.Int64("flight_id", flightID),
		zap.Int64("airport_id", airportID),
		zap.Int("stop_minutes", stopMinutes))

	return stop, nil
}

// Stops промежуточные посадки рейса
func (s *StopService) Stops(ctx context.Context, flightID int64) ([]*model.IntermediateStop, error) {
	stops, err := s.stops.GetByFlight(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("get stops: %w", err)
	}
	return stops, nil
}

func isStopRejection(err error) bool {
	return errors.Is(err, model.ErrFlightNotFound) ||
		errors.Is(err, model.ErrTooManyStops) ||
		errors.Is(err, model.ErrStopDurationOutOfRange) ||
		errors.Is(err, model.ErrDuplicateStop) ||
		errors.Is(err, model.ErrNotFound)
}
