package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Имена ограничений из миграций, по которым распознаются конфликты
const (
	constraintFlightCodeRoute = "flights_code_route_key"
	constraintRouteAirports   = "routes_airports_key"
)

type FlightRepository struct {
	db *base.Repository
}

func NewFlightRepository(pool *pgxpool.Pool) *FlightRepository {
	return &FlightRepository{db: base.NewRepository(pool)}
}

// CreateAirport создаёт аэропорт
func (r *FlightRepository) CreateAirport(ctx context.Context, airport *model.Airport) error {
	query := `
		INSERT INTO airports (name, city)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := r.db.QueryRow(ctx, query, airport.Name, airport.City).Scan(&airport.ID); err != nil {
		return fmt.Errorf("create airport: %w", err)
	}

	return nil
}

// GetAirport получает аэропорт по ID
func (r *FlightRepository) GetAirport(ctx context.Context, id int64) (*model.Airport, error) {
	query := `SELECT id, name, city FROM airports WHERE id = $1`

	var a model.Airport
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.City)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get airport: %w", err)
	}

	return &a, nil
}

// GetOrCreateRoute возвращает маршрут между аэропортами, создавая его при отсутствии.
// Параллельные вызовы для одной пары получают один и тот же маршрут.
func (r *FlightRepository) GetOrCreateRoute(ctx context.Context, departureID, destinationID int64) (*model.Route, error) {
	query := `
		INSERT INTO routes (departure_airport_id, destination_airport_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT ` + constraintRouteAirports + ` DO NOTHING
		RETURNING id
	`

	route := model.Route{DepartureAirportID: departureID, DestinationAirportID: destinationID}
	err := r.db.QueryRow(ctx, query, departureID, destinationID).Scan(&route.ID)
	if err == nil {
		return &route, nil
	}
	if base.IsForeignKeyViolation(err) {
		return nil, fmt.Errorf("airport: %w", model.ErrNotFound)
	}
	if !base.IsNotFound(err) {
		return nil, fmt.Errorf("create route: %w", err)
	}

	// Маршрут уже существует
	existing, err := r.FindRoute(ctx, departureID, destinationID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("route %d->%d vanished after conflict", departureID, destinationID)
	}
	return existing, nil
}

// FindRoute ищет маршрут по паре аэропортов
func (r *FlightRepository) FindRoute(ctx context.Context, departureID, destinationID int64) (*model.Route, error) {
	query := `
		SELECT id, departure_airport_id, destination_airport_id
		FROM routes
		WHERE departure_airport_id = $1 AND destination_airport_id = $2
	`

	var route model.Route
	err := r.db.QueryRow(ctx, query, departureID, destinationID).
		Scan(&route.ID, &route.DepartureAirportID, &route.DestinationAirportID)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find route: %w", err)
	}

	return &route, nil
}

// GetRoute получает маршрут по ID
func (r *FlightRepository) GetRoute(ctx context.Context, id int64) (*model.Route, error) {
	query := `
		SELECT id, departure_airport_id, destination_airport_id
		FROM routes
		WHERE id = $1
	`

	var route model.Route
	err := r.db.QueryRow(ctx, query, id).
		Scan(&route.ID, &route.DepartureAirportID, &route.DestinationAirportID)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route: %w", err)
	}

	return &route, nil
}

// Create создаёт рейс. Повтор кода на том же маршруте - model.ErrDuplicateFlight.
func (r *FlightRepository) Create(ctx context.Context, flight *model.Flight) error {
	query := `
		INSERT INTO flights (code, route_id, airplane_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, flight.Code, flight.RouteID, flight.AirplaneID).
		Scan(&flight.ID, &flight.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err, constraintFlightCodeRoute) {
			return model.ErrDuplicateFlight
		}
		if base.IsForeignKeyViolation(err) {
			return fmt.Errorf("route or airplane: %w", model.ErrNotFound)
		}
		return fmt.Errorf("create flight: %w", err)
	}

	return nil
}

const flightSelect = `
		SELECT f.id, f.code, f.route_id, f.airplane_id, f.created_at,
		       r.departure_airport_id, r.destination_airport_id,
		       a.name, a.airline, a.business_seat_capacity, a.economy_seat_capacity, a.created_at
		FROM flights f
		JOIN routes r ON r.id = f.route_id
		JOIN airplanes a ON a.id = f.airplane_id
`

func scanFlight(row rowScanner) (*model.Flight, error) {
	var (
		f     model.Flight
		route model.Route
		plane model.Airplane
	)
	err := row.Scan(
		&f.ID,
		&f.Code,
		&f.RouteID,
		&f.AirplaneID,
		&f.CreatedAt,
		&route.DepartureAirportID,
		&route.DestinationAirportID,
		&plane.Name,
		&plane.Airline,
		&plane.BusinessSeatCapacity,
		&plane.EconomySeatCapacity,
		&plane.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	route.ID = f.RouteID
	plane.ID = f.AirplaneID
	f.Route = &route
	f.Airplane = &plane
	return &f, nil
}

// GetByID получает рейс вместе с маршрутом и самолётом
func (r *FlightRepository) GetByID(ctx context.Context, id int64) (*model.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, flightSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get flight by id: %w", err)
	}
	return f, nil
}

// FindByCodeAndAirports ищет рейс по коду и паре аэропортов
func (r *FlightRepository) FindByCodeAndAirports(ctx context.Context, code string, departureID, destinationID int64) (*model.Flight, error) {
	query := flightSelect + `
		WHERE f.code = $1 AND r.departure_airport_id = $2 AND r.destination_airport_id = $3
	`

	f, err := scanFlight(r.db.QueryRow(ctx, query, code, departureID, destinationID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find flight: %w", err)
	}
	return f, nil
}

// GetByCode получает все рейсы с кодом (по одному на маршрут)
func (r *FlightRepository) GetByCode(ctx context.Context, code string) ([]*model.Flight, error) {
	rows, err := r.db.Query(ctx, flightSelect+` WHERE f.code = $1 ORDER BY f.id`, code)
	if err != nil {
		return nil, fmt.Errorf("get flights by code: %w", err)
	}
	defer rows.Close()

	var flights []*model.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, f)
	}

	return flights, rows.Err()
}

// LockByID блокирует строку рейса до конца транзакции.
// Должен вызываться внутри Transactor.WithinTx. false если рейса нет.
func (r *FlightRepository) LockByID(ctx context.Context, id int64) (bool, error) {
	var locked int64
	err := r.db.QueryRow(ctx, `SELECT id FROM flights WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if base.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("lock flight: %w", err)
	}
	return true, nil
}

// Capacity возвращает вместимость самолёта рейса
func (r *FlightRepository) Capacity(ctx context.Context, flightID int64) (*model.FlightCapacity, error) {
	query := `
		SELECT f.id, a.business_seat_capacity, a.economy_seat_capacity
		FROM flights f
		JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.id = $1
	`

	var c model.FlightCapacity
	err := r.db.QueryRow(ctx, query, flightID).
		Scan(&c.FlightID, &c.BusinessSeatCapacity, &c.EconomySeatCapacity)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get flight capacity: %w", err)
	}

	return &c, nil
}
