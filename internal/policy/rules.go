// Package policy содержит проверки бизнес-правил. Функции не обращаются к хранилищу:
// актуальная политика передаётся явно при каждом вызове.
package policy

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/bookticket/internal/model"
)

// Validate проверяет внутреннюю согласованность новой политики
func Validate(p *model.Policy) error {
	switch {
	case p.MinFlightTimeMinutes < 0:
		return fmt.Errorf("%w: min flight time must not be negative", model.ErrInvalidPolicy)
	case p.MaxIntermediateStops < 0:
		return fmt.Errorf("%w: max intermediate stops must not be negative", model.ErrInvalidPolicy)
	case p.MinStopMinutes < 0 || p.MaxStopMinutes < 0:
		return fmt.Errorf("%w: stop minutes must not be negative", model.ErrInvalidPolicy)
	case p.MinStopMinutes > p.MaxStopMinutes:
		return fmt.Errorf("%w: min stop minutes %d greater than max %d",
			model.ErrInvalidPolicy, p.MinStopMinutes, p.MaxStopMinutes)
	case p.MinTicketPrice < 0:
		return fmt.Errorf("%w: min ticket price must not be negative", model.ErrInvalidPolicy)
	case p.TicketSellWindowHours < 0 || p.TicketBookingWindowHours < 0:
		return fmt.Errorf("%w: sale windows must not be negative", model.ErrInvalidPolicy)
	}
	return nil
}

// ValidateSchedule проверяет расписание против вместимости самолёта и политики
func ValidateSchedule(p *model.Policy, airplane *model.Airplane, req model.ScheduleRequest) error {
	if req.BusinessSeats < 0 || req.EconomySeats < 0 {
		return fmt.Errorf("%w: seat counts must not be negative", model.ErrInvalidRequest)
	}
	if req.BusinessSeats > airplane.BusinessSeatCapacity {
		return fmt.Errorf("%w: business seats %d exceed airplane capacity %d",
			model.ErrPolicyViolation, req.BusinessSeats, airplane.BusinessSeatCapacity)
	}
	if req.EconomySeats > airplane.EconomySeatCapacity {
		return fmt.Errorf("%w: economy seats %d exceed airplane capacity %d",
			model.ErrPolicyViolation, req.EconomySeats, airplane.EconomySeatCapacity)
	}
	if req.FlightDurationMinutes < p.MinFlightTimeMinutes {
		return fmt.Errorf("%w: flight duration must be at least %d minutes",
			model.ErrPolicyViolation, p.MinFlightTimeMinutes)
	}
	if req.BusinessPrice < p.MinTicketPrice {
		return fmt.Errorf("%w: business price must be at least %d",
			model.ErrPolicyViolation, p.MinTicketPrice)
	}
	if req.EconomyPrice < p.MinTicketPrice {
		return fmt.Errorf("%w: economy price must be at least %d",
			model.ErrPolicyViolation, p.MinTicketPrice)
	}
	return nil
}

// ValidateStop проверяет количество и длительность промежуточных посадок.
// currentStops - сколько посадок у рейса уже есть.
func ValidateStop(p *model.Policy, currentStops, stopMinutes int) error {
	if currentStops >= p.MaxIntermediateStops {
		return fmt.Errorf("%w: at most %d allowed", model.ErrTooManyStops, p.MaxIntermediateStops)
	}
	if stopMinutes < p.MinStopMinutes || stopMinutes > p.MaxStopMinutes {
		return fmt.Errorf("%w: must be between %d and %d minutes",
			model.ErrStopDurationOutOfRange, p.MinStopMinutes, p.MaxStopMinutes)
	}
	return nil
}

// WindowHours возвращает окно продаж для пользователя
func WindowHours(p *model.Policy, user *model.User) int {
	if user.IsStaff() {
		return p.TicketSellWindowHours
	}
	return p.TicketBookingWindowHours
}

// CheckBookingWindow продажа разрешена только строго раньше departure - окно пользователя
func CheckBookingWindow(p *model.Policy, user *model.User, departure, now time.Time) error {
	hours := WindowHours(p, user)
	cutoff := departure.Add(-time.Duration(hours) * time.Hour)
	if !now.Before(cutoff) {
		return fmt.Errorf("%w: tickets are sold until %d hours before departure",
			model.ErrBookingWindowClosed, hours)
	}
	return nil
}
