package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirplaneRepository struct {
	db *base.Repository
}

func NewAirplaneRepository(pool *pgxpool.Pool) *AirplaneRepository {
	return &AirplaneRepository{db: base.NewRepository(pool)}
}

// Create создаёт самолёт (без мест)
func (r *AirplaneRepository) Create(ctx context.Context, airplane *model.Airplane) error {
	query := `
		INSERT INTO airplanes (name, airline, business_seat_capacity, economy_seat_capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		airplane.Name,
		airplane.Airline,
		airplane.BusinessSeatCapacity,
		airplane.EconomySeatCapacity,
	).Scan(&airplane.ID, &airplane.CreatedAt)

	if err != nil {
		return fmt.Errorf("create airplane: %w", err)
	}

	return nil
}

// GetByID получает самолёт по ID
func (r *AirplaneRepository) GetByID(ctx context.Context, id int64) (*model.Airplane, error) {
	query := `
		SELECT id, name, airline, business_seat_capacity, economy_seat_capacity, created_at
		FROM airplanes
		WHERE id = $1
	`

	var a model.Airplane
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Airline,
		&a.BusinessSeatCapacity,
		&a.EconomySeatCapacity,
		&a.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get airplane by id: %w", err)
	}

	return &a, nil
}

// CreateSeats вставляет каталог мест одной командой COPY.
// Порядок строк сохраняется, поэтому id мест идут в порядке каталога.
func (r *AirplaneRepository) CreateSeats(ctx context.Context, seats []model.Seat) (int64, error) {
	rows := make([][]any, 0, len(seats))
	for _, s := range seats {
		rows = append(rows, []any{s.AirplaneID, s.Code, string(s.Class)})
	}

	n, err := r.db.DB(ctx).CopyFrom(
		ctx,
		pgx.Identifier{"seats"},
		[]string{"airplane_id", "code", "class"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy seats: %w", err)
	}

	return n, nil
}

// GetSeats получает каталог мест самолёта в порядке id
func (r *AirplaneRepository) GetSeats(ctx context.Context, airplaneID int64) ([]*model.Seat, error) {
	query := `
		SELECT id, airplane_id, code, class
		FROM seats
		WHERE airplane_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, airplaneID)
	if err != nil {
		return nil, fmt.Errorf("get seats: %w", err)
	}
	defer rows.Close()

	var seats []*model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.AirplaneID, &s.Code, &s.Class); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, &s)
	}

	return seats, rows.Err()
}
