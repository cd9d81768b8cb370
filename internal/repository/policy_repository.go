package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PolicyRepository struct {
	db *base.Repository
}

func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{db: base.NewRepository(pool)}
}

const policyColumns = `id, min_flight_time_minutes, max_intermediate_stops, min_stop_minutes, max_stop_minutes,
		       min_ticket_price, ticket_sell_window_hours, ticket_booking_window_hours, created_at`

// Create добавляет новую версию политики
func (r *PolicyRepository) Create(ctx context.Context, p *model.Policy) error {
	query := `
		INSERT INTO policies (min_flight_time_minutes, max_intermediate_stops, min_stop_minutes, max_stop_minutes,
		                      min_ticket_price, ticket_sell_window_hours, ticket_booking_window_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.MinFlightTimeMinutes,
		p.MaxIntermediateStops,
		p.MinStopMinutes,
		p.MaxStopMinutes,
		p.MinTicketPrice,
		p.TicketSellWindowHours,
		p.TicketBookingWindowHours,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create policy: %w", err)
	}

	return nil
}

// GetLatest получает последнюю созданную политику. nil если политик нет.
func (r *PolicyRepository) GetLatest(ctx context.Context) (*model.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies ORDER BY id DESC LIMIT 1`

	var p model.Policy
	err := scanPolicy(r.db.QueryRow(ctx, query), &p)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest policy: %w", err)
	}

	return &p, nil
}

// List получает все версии политики, новые первыми
func (r *PolicyRepository) List(ctx context.Context) ([]*model.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	defer rows.Close()

	var policies []*model.Policy
	for rows.Next() {
		var p model.Policy
		if err := scanPolicy(rows, &p); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, &p)
	}

	return policies, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner, p *model.Policy) error {
	return row.Scan(
		&p.ID,
		&p.MinFlightTimeMinutes,
		&p.MaxIntermediateStops,
		&p.MinStopMinutes,
		&p.MaxStopMinutes,
		&p.MinTicketPrice,
		&p.TicketSellWindowHours,
		&p.TicketBookingWindowHours,
		&p.CreatedAt,
	)
}
