package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const constraintScheduleDeparture = "flight_schedules_flight_departure_key"

type ScheduleRepository struct {
	db *base.Repository
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: base.NewRepository(pool)}
}

// Create создаёт расписание. Повтор (рейс, время вылета) - model.ErrDuplicateSchedule.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.FlightSchedule) error {
	query := `
		INSERT INTO flight_schedules (flight_id, departure_time, flight_duration_minutes,
		                              business_seats_offered, economy_seats_offered,
		                              business_price, economy_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.FlightID,
		s.DepartureTime,
		s.FlightDurationMinutes,
		s.BusinessSeatsOffered,
		s.EconomySeatsOffered,
		s.BusinessPrice,
		s.EconomyPrice,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, constraintScheduleDeparture) {
			return model.ErrDuplicateSchedule
		}
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// ExistsAt есть ли у рейса вылет ровно в это время
func (r *ScheduleRepository) ExistsAt(ctx context.Context, flightID int64, departure time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM flight_schedules WHERE flight_id = $1 AND departure_time = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, flightID, departure).Scan(&exists); err != nil {
		return false, fmt.Errorf("check schedule exists: %w", err)
	}
	return exists, nil
}

// GetByID получает расписание вместе с маршрутом рейса
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.FlightSchedule, error) {
	query := `
		SELECT s.id, s.flight_id, s.departure_time, s.flight_duration_minutes,
		       s.business_seats_offered, s.economy_seats_offered,
		       s.business_price, s.economy_price, s.created_at, f.route_id
		FROM flight_schedules s
		JOIN flights f ON f.id = s.flight_id
		WHERE s.id = $1
	`

	var s model.FlightSchedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.FlightID,
		&s.DepartureTime,
		&s.FlightDurationMinutes,
		&s.BusinessSeatsOffered,
		&s.EconomySeatsOffered,
		&s.BusinessPrice,
		&s.EconomyPrice,
		&s.CreatedAt,
		&s.RouteID,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}

	return &s, nil
}

// UpcomingIDs ID вылетов, которые ещё не состоялись
func (r *ScheduleRepository) UpcomingIDs(ctx context.Context, from time.Time) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM flight_schedules
		WHERE departure_time > $1
		ORDER BY departure_time
	`, from)
	if err != nil {
		return nil, fmt.Errorf("get upcoming schedules: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan schedule id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MaterializeSeats привязывает к вылету первые business и economy мест самолёта
// каждого класса (по id). Уже существующие привязки не трогаются, поэтому
// повторный вызов ничего не меняет. Возвращает число добавленных строк.
func (r *ScheduleRepository) MaterializeSeats(ctx context.Context, scheduleID, airplaneID int64, business, economy int) (int64, error) {
	query := `
		INSERT INTO seat_assignments (seat_id, schedule_id, state)
		SELECT seat_id, $1::bigint, 'available'
		FROM (
			(SELECT id AS seat_id FROM seats
			 WHERE airplane_id = $2 AND class = 'business'
			 ORDER BY id LIMIT $3)
			UNION ALL
			(SELECT id AS seat_id FROM seats
			 WHERE airplane_id = $2 AND class = 'economy'
			 ORDER BY id LIMIT $4)
		) picked
		ON CONFLICT (seat_id, schedule_id) DO NOTHING
	`

	n, err := r.db.ExecAffected(ctx, query, scheduleID, airplaneID, business, economy)
	if err != nil {
		return 0, fmt.Errorf("materialize seats: %w", err)
	}

	return n, nil
}

// CountAssignments количество мест вылета по классам
func (r *ScheduleRepository) CountAssignments(ctx context.Context, scheduleID int64) (business, economy int, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE s.class = 'business'),
		       COUNT(*) FILTER (WHERE s.class = 'economy')
		FROM seat_assignments sa
		JOIN seats s ON s.id = sa.seat_id
		WHERE sa.schedule_id = $1
	`

	if err = r.db.QueryRow(ctx, query, scheduleID).Scan(&business, &economy); err != nil {
		return 0, 0, fmt.Errorf("count assignments: %w", err)
	}
	return business, economy, nil
}

// GetAssignments получает все места вылета в порядке каталога
func (r *ScheduleRepository) GetAssignments(ctx context.Context, scheduleID int64) ([]*model.SeatAssignment, error) {
	query := `
		SELECT sa.id, sa.seat_id, sa.schedule_id, sa.state, s.code, s.class
		FROM seat_assignments sa
		JOIN seats s ON s.id = sa.seat_id
		WHERE sa.schedule_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*model.SeatAssignment
	for rows.Next() {
		var a model.SeatAssignment
		if err := rows.Scan(&a.ID, &a.SeatID, &a.ScheduleID, &a.State, &a.SeatCode, &a.SeatClass); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}

	return assignments, rows.Err()
}

// AvailableSeatCodes коды свободных мест класса на вылете
func (r *ScheduleRepository) AvailableSeatCodes(ctx context.Context, scheduleID int64, class model.SeatClass) ([]string, error) {
	query := `
		SELECT s.code
		FROM seat_assignments sa
		JOIN seats s ON s.id = sa.seat_id
		WHERE sa.schedule_id = $1 AND s.class = $2 AND sa.state = 'available'
		ORDER BY s.id
	`

	rows, err := r.db.Query(ctx, query, scheduleID, class)
	if err != nil {
		return nil, fmt.Errorf("get available seats: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan seat code: %w", err)
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// Search находит вылеты направления с временем вылета в [from, to).
// Остаток мест считается по свободным привязкам каждого класса, посадки
// собираются в JSON-массив одним запросом.
func (r *ScheduleRepository) Search(ctx context.Context, departureID, destinationID int64, from, to time.Time) ([]*model.FlightSearchResult, error) {
	query := `
		SELECT s.id, f.id, f.code, da.name, aa.name,
		       s.departure_time, s.flight_duration_minutes,
		       s.business_price, s.economy_price,
		       p.name, p.airline,
		       COUNT(sa.id) FILTER (WHERE sa.state = 'available' AND se.class = 'business'),
		       COUNT(sa.id) FILTER (WHERE sa.state = 'available' AND se.class = 'economy'),
		       COALESCE((
		           SELECT json_agg(json_build_object(
		                      'airport_id', st.airport_id,
		                      'airport_name', sta.name,
		                      'stop_minutes', st.stop_minutes,
		                      'note', st.note
		                  ) ORDER BY st.airport_id)
		           FROM intermediate_stops st
		           JOIN airports sta ON sta.id = st.airport_id
		           WHERE st.flight_id = f.id
		       ), '[]'::json)
		FROM flight_schedules s
		JOIN flights f ON f.id = s.flight_id
		JOIN routes r ON r.id = f.route_id
		JOIN airports da ON da.id = r.departure_airport_id
		JOIN airports aa ON aa.id = r.destination_airport_id
		JOIN airplanes p ON p.id = f.airplane_id
		LEFT JOIN seat_assignments sa ON sa.schedule_id = s.id
		LEFT JOIN seats se ON se.id = sa.seat_id
		WHERE r.departure_airport_id = $1
		  AND r.destination_airport_id = $2
		  AND s.departure_time >= $3
		  AND s.departure_time < $4
		GROUP BY s.id, f.id, da.id, aa.id, p.id
		ORDER BY s.departure_time, s.id
	`

	rows, err := r.db.Query(ctx, query, departureID, destinationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("search schedules: %w", err)
	}
	defer rows.Close()

	results := []*model.FlightSearchResult{}
	for rows.Next() {
		var res model.FlightSearchResult
		err := rows.Scan(
			&res.ScheduleID,
			&res.FlightID,
			&res.FlightCode,
			&res.DepartureAirport,
			&res.DestinationAirport,
			&res.DepartureTime,
			&res.FlightDurationMinutes,
			&res.BusinessPrice,
			&res.EconomyPrice,
			&res.AirplaneName,
			&res.Airline,
			&res.RemainingBusinessSeats,
			&res.RemainingEconomySeats,
			&res.Stops,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		res.ArrivalTime = res.DepartureTime.Add(time.Duration(res.FlightDurationMinutes) * time.Minute)
		results = append(results, &res)
	}

	return results, rows.Err()
}
