package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/policy"
	"go.uber.org/zap"
)

type PolicyService struct {
	repo   PolicyStore
	logger *zap.Logger
}

func NewPolicyService(repo PolicyStore, logger *zap.Logger) *PolicyService {
	return &PolicyService{
		repo:   repo,
		logger: logger,
	}
}

// Current возвращает действующую политику. Читается из базы при каждом вызове.
func (s *PolicyService) Current(ctx context.Context) (*model.Policy, error) {
	p, err := s.repo.GetLatest(ctx)
	if err != nil {
		s.logger.Error("Failed to get policy", zap.Error(err))
		return nil, fmt.Errorf("get policy: %w", err)
	}

	if p == nil {
		return nil, model.ErrNotConfigured
	}

	return p, nil
}

// Set сохраняет новую версию политики, она сразу становится действующей
func (s *PolicyService) Set(ctx context.Context, p *model.Policy) (*model.Policy, error) {
	if err := policy.Validate(p); err != nil {
		s.logger.Warn("Policy rejected", zap.Error(err))
		return nil, err
	}

	created := *p
	if err := s.repo.Create(ctx, &created); err != nil {
		s.logger.Error("Failed to create policy", zap.Error(err))
		return nil, fmt.Errorf("create policy: %w", err)
	}

	s.logger.Info("Policy updated",
		zap.Int64("policy_id", created.ID),
		zap.Int("min_flight_time_minutes", created.MinFlightTimeMinutes),
		zap.Int("max_intermediate_stops", created.MaxIntermediateStops),
		zap.Int64("min_ticket_price", created.MinTicketPrice),
		zap.Int("ticket_sell_window_hours", created.TicketSellWindowHours),
		zap.Int("ticket_booking_window_hours", created.TicketBookingWindowHours))

	return &created, nil
}

// History все версии политики, новые первыми
func (s *PolicyService) History(ctx context.Context) ([]*model.Policy, error) {
	policies, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return policies, nil
}
