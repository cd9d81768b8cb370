package model

import "errors"

// Ошибки ядра. Сервисы оборачивают их через fmt.Errorf("...: %w"),
// вызывающий код проверяет через errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrNotConfigured          = errors.New("policy not configured")
	ErrInvalidPolicy          = errors.New("invalid policy")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrInvalidRoute           = errors.New("departure and destination airports must differ")
	ErrDuplicateFlight        = errors.New("flight code already exists on this route")
	ErrFlightNotFound         = errors.New("flight not found")
	ErrDuplicateSchedule      = errors.New("flight already scheduled at this departure time")
	ErrPolicyViolation        = errors.New("policy violation")
	ErrTooManyStops           = errors.New("too many intermediate stops")
	ErrStopDurationOutOfRange = errors.New("stop duration out of range")
	ErrDuplicateStop          = errors.New("airport already added as a stop for this flight")
	ErrBookingWindowClosed    = errors.New("booking window closed")
	ErrSeatUnavailable        = errors.New("seat unavailable")
	ErrBookingFailed          = errors.New("booking failed")
)
