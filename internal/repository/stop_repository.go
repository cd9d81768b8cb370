package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const constraintStopKey = "intermediate_stops_pkey"

type StopRepository struct {
	db *base.Repository
}

func NewStopRepository(pool *pgxpool.Pool) *StopRepository {
	return &StopRepository{db: base.NewRepository(pool)}
}

// Create добавляет промежуточную посадку. Повтор аэропорта - model.ErrDuplicateStop.
func (r *StopRepository) Create(ctx context.Context, stop *model.IntermediateStop) error {
	query := `
		INSERT INTO intermediate_stops (flight_id, airport_id, stop_minutes, note)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecAffected(ctx, query, stop.FlightID, stop.AirportID, stop.StopMinutes, stop.Note)
	if err != nil {
		if base.IsUniqueViolation(err, constraintStopKey) {
			return model.ErrDuplicateStop
		}
		if base.IsForeignKeyViolation(err) {
			return fmt.Errorf("airport: %w", model.ErrNotFound)
		}
		return fmt.Errorf("create stop: %w", err)
	}

	return nil
}

// CountByFlight количество посадок рейса
func (r *StopRepository) CountByFlight(ctx context.Context, flightID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM intermediate_stops WHERE flight_id = $1`, flightID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stops: %w", err)
	}
	return n, nil
}

// GetByFlight получает посадки рейса
func (r *StopRepository) GetByFlight(ctx context.Context, flightID int64) ([]*model.IntermediateStop, error) {
	query := `
		SELECT flight_id, airport_id, stop_minutes, note
		FROM intermediate_stops
		WHERE flight_id = $1
		ORDER BY airport_id
	`

	rows, err := r.db.Query(ctx, query, flightID)
	if err != nil {
		return nil, fmt.Errorf("get stops: %w", err)
	}
	defer rows.Close()

	var stops []*model.IntermediateStop
	for rows.Next() {
		var s model.IntermediateStop
		if err := rows.Scan(&s.FlightID, &s.AirportID, &s.StopMinutes, &s.Note); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		stops = append(stops, &s)
	}

	return stops, rows.Err()
}
