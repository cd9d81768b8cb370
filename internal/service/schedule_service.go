package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/policy"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScheduleService struct {
	tx        Transactor
	policies  PolicyProvider
	flights   FlightStore
	schedules ScheduleStore
	cache     SeatCache
	notifier  Notifier
	clock     Clock
	logger    *zap.Logger
}

func NewScheduleService(
	tx Transactor,
	policies PolicyProvider,
	flights FlightStore,
	schedules ScheduleStore,
	cache SeatCache,
	notifier Notifier,
	clock Clock,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		tx:        tx,
		policies:  policies,
		flights:   flights,
		schedules: schedules,
		cache:     cache,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
	}
}

// CreateSchedule создаёт вылет рейса и привязывает к нему места самолёта.
// Вылет и его места появляются вместе или не появляются вовсе.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req model.ScheduleRequest) (*model.FlightSchedule, error) {
	flight, err := s.flights.GetByID(ctx, req.FlightID)
	if err != nil {
		return nil, fmt.Errorf("get flight: %w", err)
	}
	if flight == nil {
		return nil, model.ErrFlightNotFound
	}

	p, err := s.policies.Current(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.ValidateSchedule(p, flight.Airplane, req); err != nil {
		s.logger.Warn("Schedule rejected",
			zap.Int64("flight_id", req.FlightID),
			zap.Int64("policy_id", p.ID),
			zap.Error(err))
		return nil, err
	}

	exists, err := s.schedules.ExistsAt(ctx, req.FlightID, req.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("check schedule: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicateSchedule
	}

	expected := int64(req.BusinessSeats + req.EconomySeats)

	var schedule *model.FlightSchedule
	err = s.tx.WithinTx(ctx, pgx.Serializable, func(ctx context.Context) error {
		schedule = &model.FlightSchedule{
			FlightID:              req.FlightID,
			DepartureTime:         req.DepartureTime,
			FlightDurationMinutes: req.FlightDurationMinutes,
			BusinessSeatsOffered:  req.BusinessSeats,
			EconomySeatsOffered:   req.EconomySeats,
			BusinessPrice:         req.BusinessPrice,
			EconomyPrice:          req.EconomyPrice,
			RouteID:               flight.RouteID,
		}
		if err := s.schedules.Create(ctx, schedule); err != nil {
			return err
		}

		n, err := s.schedules.MaterializeSeats(ctx, schedule.ID, flight.AirplaneID, req.BusinessSeats, req.EconomySeats)
		if err != nil {
			return err
		}
		if n != expected {
			return fmt.Errorf("materialized %d seats, expected %d", n, expected)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateSchedule) {
			return nil, err
		}
		s.logger.Error("Failed to create schedule",
			zap.Int64("flight_id", req.FlightID),
			zap.Time("departure_time", req.DepartureTime),
			zap.Error(err))
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.logger.Info("Schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("flight_id", schedule.FlightID),
		zap.Int64("policy_id", p.ID),
		zap.Time("departure_time", schedule.DepartureTime),
		zap.Int64("seats", expected))

	if err := s.notifier.ScheduleCreated(ctx, schedule); err != nil {
		s.logger.Warn("Failed to notify about schedule",
			zap.Int64("schedule_id", schedule.ID),
			zap.Error(err))
	}

	return schedule, nil
}

// MaterializeSeats повторно привязывает места к вылету. Уже привязанные места
// не меняются. Возвращает итоговое количество мест вылета.
func (s *ScheduleService) MaterializeSeats(ctx context.Context, scheduleID int64) (int, error) {
	schedule, err := s.schedule(ctx, scheduleID)
	if err != nil {
		return 0, err
	}

	flight, err := s.flights.GetByID(ctx, schedule.FlightID)
	if err != nil {
		return 0, fmt.Errorf("get flight: %w", err)
	}
	if flight == nil {
		return 0, model.ErrFlightNotFound
	}

	var total int
	err = s.tx.WithinTx(ctx, pgx.Serializable, func(ctx context.Context) error {
		added, err := s.schedules.MaterializeSeats(ctx, schedule.ID, flight.AirplaneID,
			schedule.BusinessSeatsOffered, schedule.EconomySeatsOffered)
		if err != nil {
			return err
		}

		business, economy, err := s.schedules.CountAssignments(ctx, schedule.ID)
		if err != nil {
			return err
		}
		total = business + economy

		if added > 0 {
			s.logger.Info("Seats materialized",
				zap.Int64("schedule_id", schedule.ID),
				zap.Int64("added", added))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to materialize seats",
			zap.Int64("schedule_id", scheduleID),
			zap.Error(err))
		return 0, fmt.Errorf("materialize seats: %w", err)
	}

	return total, nil
}

// RepairUpcoming перепривязывает места всех будущих вылетов.
// Ошибка одного вылета не останавливает остальные. Возвращает число обработанных вылетов.
func (s *ScheduleService) RepairUpcoming(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.schedules.UpcomingIDs(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("get upcoming schedules: %w", err)
	}

	repaired := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}
		if _, err := s.MaterializeSeats(ctx, id); err != nil {
			s.logger.Warn("Seat repair failed", zap.Int64("schedule_id", id), zap.Error(err))
			continue
		}
		repaired++
	}
	return repaired, nil
}

// Assignments все места вылета в порядке каталога
func (s *ScheduleService) Assignments(ctx context.Context, scheduleID int64) ([]*model.SeatAssignment, error) {
	if _, err := s.schedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	assignments, err := s.schedules.GetAssignments(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get assignments: %w", err)
	}
	return assignments, nil
}

// AvailableSeats коды свободных мест класса. Версия вылета читается из кэша до
// запроса в базу, поэтому список, прочитанный до бронирования, не переживёт его
// инвалидацию. Окончательно место проверяется только при бронировании.
func (s *ScheduleService) AvailableSeats(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("%w: unknown seat class %q", model.ErrInvalidRequest, class)
	}

	codes, version, ok, cacheErr := s.cache.GetAvailable(ctx, scheduleID, class)
	if cacheErr != nil {
		s.logger.Warn("Seat cache read failed", zap.Int64("schedule_id", scheduleID), zap.Error(cacheErr))
	}
	if ok {
		return codes, nil
	}

	if _, err := s.schedule(ctx, scheduleID); err != nil {
		return nil, err
	}

	codes, err := s.schedules.AvailableSeatCodes(ctx, scheduleID, class)
	if err != nil {
		return nil, fmt.Errorf("get available seats: %w", err)
	}

	// без версии запись нельзя проверить на устаревание
	if cacheErr != nil {
		return codes, nil
	}
	if err := s.cache.SetAvailable(ctx, scheduleID, class, version, codes); err != nil {
		s.logger.Warn("Seat cache write failed", zap.Int64("schedule_id", scheduleID), zap.Error(err))
	}

	return codes, nil
}

// Search вылеты из аэропорта departureID в destinationID в календарный день date
// (в часовом поясе date). Дни раньше сегодняшнего не ищутся.
func (s *ScheduleService) Search(ctx context.Context, departureID, destinationID int64, date time.Time) ([]*model.FlightSearchResult, error) {
	if departureID <= 0 || destinationID <= 0 {
		return nil, fmt.Errorf("%w: departure and destination airports are required", model.ErrInvalidRequest)
	}
	if departureID == destinationID {
		return nil, model.ErrInvalidRoute
	}

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	now := s.clock.Now().In(date.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	if from.Before(today) {
		return nil, fmt.Errorf("%w: departure date %s is in the past",
			model.ErrInvalidRequest, from.Format(time.DateOnly))
	}

	results, err := s.schedules.Search(ctx, departureID, destinationID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("search schedules: %w", err)
	}
	return results, nil
}

// Schedule получает вылет по ID
func (s *ScheduleService) Schedule(ctx context.Context, scheduleID int64) (*model.FlightSchedule, error) {
	return s.schedule(ctx, scheduleID)
}

func (s *ScheduleService) schedule(ctx context.Context, id int64) (*model.FlightSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %d: %w", id, model.ErrNotFound)
	}
	return schedule, nil
}
