package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/bookticket/internal/model"
	"go.uber.org/zap"
)

// RegistryService аэропорты, маршруты и рейсы
type RegistryService struct {
	flights   FlightStore
	airplanes AirplaneStore
	logger    *zap.Logger
}

func NewRegistryService(flights FlightStore, airplanes AirplaneStore, logger *zap.Logger) *RegistryService {
	return &RegistryService{
		flights:   flights,
		airplanes: airplanes,
		logger:    logger,
	}
}

// CreateAirport создаёт аэропорт
func (s *RegistryService) CreateAirport(ctx context.Context, name, city string) (*model.Airport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: airport name is required", model.ErrInvalidRequest)
	}

	airport := &model.Airport{Name: name, City: strings.TrimSpace(city)}
	if err := s.flights.CreateAirport(ctx, airport); err != nil {
		s.logger.Error("Failed to create airport", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("create airport: %w", err)
	}

	s.logger.Info("Airport created", zap.Int64("airport_id", airport.ID), zap.String("name", name))
	return airport, nil
}

// CreateRoute возвращает маршрут между аэропортами, создавая его при необходимости
func (s *RegistryService) CreateRoute(ctx context.Context, departureID, destinationID int64) (*model.Route, error) {
	if departureID == destinationID {
		return nil, model.ErrInvalidRoute
	}

	route, err := s.flights.GetOrCreateRoute(ctx, departureID, destinationID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Failed to create route",
				zap.Int64("departure_airport_id", departureID),
				zap.Int64("destination_airport_id", destinationID),
				zap.Error(err))
		}
		return nil, fmt.Errorf("create route: %w", err)
	}

	return route, nil
}

// CreateFlight создаёт рейс. Код рейса уникален в пределах маршрута.
func (s *RegistryService) CreateFlight(ctx context.Context, code string, routeID, airplaneID int64) (*model.Flight, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: flight code is required", model.ErrInvalidRequest)
	}

	route, err := s.flights.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("route %d: %w", routeID, model.ErrNotFound)
	}

	airplane, err := s.airplanes.GetByID(ctx, airplaneID)
	if err != nil {
		return nil, fmt.Errorf("get airplane: %w", err)
	}
	if airplane == nil {
		return nil, fmt.Errorf("airplane %d: %w", airplaneID, model.ErrNotFound)
	}

	flight := &model.Flight{
		Code:       code,
		RouteID:    routeID,
		AirplaneID: airplaneID,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		if errors.Is(err, model.ErrDuplicateFlight) {
			s.logger.Warn("Duplicate flight",
				zap.String("code", code),
				zap.Int64("route_id", routeID))
			return nil, err
		}
		s.logger.Error("Failed to create flight", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("create flight: %w", err)
	}

	flight.Route = route
	flight.Airplane = airplane

	s.logger.Info("Flight created",
		zap.Int64("flight_id", flight.ID),
		zap.String("code", code),
		zap.Int64("route_id", routeID),
		zap.Int64("airplane_id", airplaneID))

	return flight, nil
}

// FindFlight ищет рейс по коду и аэропортам вылета и назначения
func (s *RegistryService) FindFlight(ctx context.Context, code string, departureID, destinationID int64) (*model.Flight, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	flight, err := s.flights.FindByCodeAndAirports(ctx, code, departureID, destinationID)
	if err != nil {
		return nil, fmt.Errorf("find flight: %w", err)
	}
	if flight == nil {
		return nil, fmt.Errorf("flight %s: %w", code, model.ErrNotFound)
	}
	return flight, nil
}

// FlightsByCode все рейсы с кодом на разных маршрутах
func (s *RegistryService) FlightsByCode(ctx context.Context, code string) ([]*model.Flight, error) {
	flights, err := s.flights.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("get flights by code: %w", err)
	}
	return flights, nil
}

// Capacity вместимость самолёта, назначенного на рейс
func (s *RegistryService) Capacity(ctx context.Context, flightID int64) (*model.FlightCapacity, error) {
	capacity, err := s.flights.Capacity(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("get capacity: %w", err)
	}
	if capacity == nil {
		return nil, model.ErrFlightNotFound
	}
	return capacity, nil
}
