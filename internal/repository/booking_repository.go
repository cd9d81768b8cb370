package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const constraintTicketAssignment = "tickets_seat_assignment_key"

type BookingRepository struct {
	db *base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: base.NewRepository(pool)}
}

// CreateCustomer создаёт пассажира
func (r *BookingRepository) CreateCustomer(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (name, last_name, gender, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, c.Name, c.LastName, c.Gender, c.Birthday).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	return nil
}

// ReserveSeat атомарно переводит место вылета из available в reserved.
// Если место занято или не существует на вылете - model.ErrSeatUnavailable.
// Из двух конкурентных вызовов для одного места успешен ровно один.
func (r *BookingRepository) ReserveSeat(ctx context.Context, scheduleID int64, class model.SeatClass, code string) (int64, error) {
	query := `
		UPDATE seat_assignments sa
		SET state = 'reserved'
		FROM seats s
		WHERE sa.seat_id = s.id
		  AND sa.schedule_id = $1
		  AND s.code = $2
		  AND s.class = $3
		  AND sa.state = 'available'
		RETURNING sa.id
	`

	var assignmentID int64
	err := r.db.QueryRow(ctx, query, scheduleID, code, class).Scan(&assignmentID)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, fmt.Errorf("%w: %s", model.ErrSeatUnavailable, code)
		}
		return 0, fmt.Errorf("reserve seat: %w", err)
	}

	return assignmentID, nil
}

// CreateTicket создаёт билет на зарезервированное место
func (r *BookingRepository) CreateTicket(ctx context.Context, t *model.Ticket) error {
	query := `
		INSERT INTO tickets (seat_assignment_id, user_id, customer_id, receipt_id, class)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, t.SeatAssignmentID, t.UserID, t.CustomerID, t.ReceiptID, t.Class).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, constraintTicketAssignment) {
			return fmt.Errorf("%w: ticket already issued", model.ErrSeatUnavailable)
		}
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

// CreateReceipt создаёт чек вместе с его строкой
func (r *BookingRepository) CreateReceipt(ctx context.Context, receipt *model.Receipt) error {
	query := `
		INSERT INTO receipts (reference, user_id, total, method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, receipt.Reference, receipt.UserID, receipt.Total, receipt.Method).
		Scan(&receipt.ID, &receipt.CreatedAt)
	if err != nil {
		return fmt.Errorf("create receipt: %w", err)
	}

	if receipt.Detail == nil {
		return nil
	}

	detail := receipt.Detail
	detail.ReceiptID = receipt.ID
	err = r.db.QueryRow(ctx, `
		INSERT INTO receipt_details (receipt_id, route_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, detail.ReceiptID, detail.RouteID, detail.Quantity, detail.UnitPrice).Scan(&detail.ID)
	if err != nil {
		return fmt.Errorf("create receipt detail: %w", err)
	}

	return nil
}

// GetReceipt получает чек со строкой и билетами
func (r *BookingRepository) GetReceipt(ctx context.Context, id int64) (*model.Receipt, error) {
	query := `
		SELECT r.id, r.reference, r.user_id, r.total, r.method, r.created_at,
		       d.id, d.route_id, d.quantity, d.unit_price
		FROM receipts r
		JOIN receipt_details d ON d.receipt_id = r.id
		WHERE r.id = $1
	`

	var (
		receipt model.Receipt
		detail  model.ReceiptDetail
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&receipt.ID,
		&receipt.Reference,
		&receipt.UserID,
		&receipt.Total,
		&receipt.Method,
		&receipt.CreatedAt,
		&detail.ID,
		&detail.RouteID,
		&detail.Quantity,
		&detail.UnitPrice,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	detail.ReceiptID = receipt.ID
	receipt.Detail = &detail

	tickets, err := r.getTickets(ctx, receipt.ID)
	if err != nil {
		return nil, err
	}
	receipt.Tickets = tickets

	return &receipt, nil
}

func (r *BookingRepository) getTickets(ctx context.Context, receiptID int64) ([]*model.Ticket, error) {
	query := `
		SELECT t.id, t.seat_assignment_id, t.user_id, t.customer_id, t.receipt_id, t.class, t.created_at,
		       s.code, c.name || ' ' || c.last_name
		FROM tickets t
		JOIN seat_assignments sa ON sa.id = t.seat_assignment_id
		JOIN seats s ON s.id = sa.seat_id
		JOIN customers c ON c.id = t.customer_id
		WHERE t.receipt_id = $1
		ORDER BY t.id
	`

	rows, err := r.db.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("get tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*model.Ticket
	for rows.Next() {
		var t model.Ticket
		err := rows.Scan(
			&t.ID,
			&t.SeatAssignmentID,
			&t.UserID,
			&t.CustomerID,
			&t.ReceiptID,
			&t.Class,
			&t.CreatedAt,
			&t.SeatCode,
			&t.CustomerName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}

	return tickets, rows.Err()
}
