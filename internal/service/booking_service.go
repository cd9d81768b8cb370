package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/bookticket/internal/model"
	"github.com/Freeeeeet/bookticket/internal/policy"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingService struct {
	tx        Transactor
	policies  PolicyProvider
	users     UserReader
	schedules ScheduleStore
	bookings  BookingStore
	cache     SeatCache
	notifier  Notifier
	events    SeatEvents
	clock     Clock
	logger    *zap.Logger
}

func NewBookingService(
	tx Transactor,
	policies PolicyProvider,
	users UserReader,
	schedules ScheduleStore,
	bookings BookingStore,
	cache SeatCache,
	notifier Notifier,
	events SeatEvents,
	clock Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:        tx,
		policies:  policies,
		users:     users,
		schedules: schedules,
		bookings:  bookings,
		cache:     cache,
		notifier:  notifier,
		events:    events,
		clock:     clock,
		logger:    logger,
	}
}

// BookSeats покупает места одного класса на вылет для группы пассажиров.
// Либо все места бронируются и выписывается чек, либо ничего не меняется.
func (s *BookingService) BookSeats(ctx context.Context, req model.BookingRequest) (*model.Receipt, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, fmt.Errorf("user %d: %w", req.UserID, model.ErrNotFound)
	}

	schedule, err := s.schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %d: %w", req.ScheduleID, model.ErrNotFound)
	}

	p, err := s.policies.Current(ctx)
	if err != nil {
		return nil, err
	}

	if err := policy.CheckBookingWindow(p, user, schedule.DepartureTime, s.clock.Now()); err != nil {
		s.logger.Warn("Booking window closed",
			zap.Int64("schedule_id", schedule.ID),
			zap.Int64("user_id", user.ID),
			zap.String("role", string(user.Role)),
			zap.Time("departure_time", schedule.DepartureTime))
		return nil, err
	}

	quantity := len(req.Passengers)
	total := schedule.Price(req.Class) * int64(quantity)

	var receipt *model.Receipt
	err = s.tx.WithinTx(ctx, pgx.ReadCommitted, func(ctx context.Context) error {
		receipt = &model.Receipt{
			Reference: uuid.New(),
			UserID:    user.ID,
			Total:     total,
			Method:    req.PaymentMethod,
			Detail: &model.ReceiptDetail{
				RouteID:   schedule.RouteID,
				Quantity:  quantity,
				UnitPrice: total / int64(quantity),
			},
		}
		if err := s.bookings.CreateReceipt(ctx, receipt); err != nil {
			return err
		}

		for _, passenger := range req.Passengers {
			ticket, err := s.issueTicket(ctx, schedule.ID, req.Class, user.ID, receipt.ID, passenger)
			if err != nil {
				return err
			}
			receipt.Tickets = append(receipt.Tickets, ticket)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Booking failed",
			zap.Int64("schedule_id", schedule.ID),
			zap.Int64("user_id", user.ID),
			zap.Int("passengers", quantity),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", model.ErrBookingFailed, err)
	}

	s.logger.Info("Seats booked",
		zap.Int64("receipt_id", receipt.ID),
		zap.String("reference", receipt.Reference.String()),
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("user_id", user.ID),
		zap.Int("passengers", quantity),
		zap.Int64("total", total))

	if err := s.cache.Invalidate(ctx, schedule.ID); err != nil {
		s.logger.Warn("Failed to invalidate seat cache",
			zap.Int64("schedule_id", schedule.ID),
			zap.Error(err))
	}

	codes := make([]string, len(receipt.Tickets))
	for i, t := range receipt.Tickets {
		codes[i] = t.SeatCode
	}
	s.events.SeatsBooked(schedule.ID, req.Class, codes)

	if err := s.notifier.ReceiptIssued(ctx, receipt); err != nil {
		s.logger.Warn("Failed to notify about receipt",
			zap.Int64("receipt_id", receipt.ID),
			zap.Error(err))
	}

	return receipt, nil
}

// issueTicket создаёт пассажира, занимает его место и выписывает билет
func (s *BookingService) issueTicket(ctx context.Context, scheduleID int64, class model.SeatClass, userID, receiptID int64, passenger model.Passenger) (*model.Ticket, error) {
	customer := &model.Customer{
		Name:     passenger.Name,
		LastName: passenger.LastName,
		Gender:   passenger.Gender,
		Birthday: passenger.Birthday,
	}
	if err := s.bookings.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	assignmentID, err := s.bookings.ReserveSeat(ctx, scheduleID, class, passenger.SeatCode)
	if err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		SeatAssignmentID: assignmentID,
		UserID:           userID,
		CustomerID:       customer.ID,
		ReceiptID:        receiptID,
		Class:            class,
		SeatCode:         passenger.SeatCode,
		CustomerName:     customer.Name + " " + customer.LastName,
	}
	if err := s.bookings.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

// Receipt получает чек с билетами
func (s *BookingService) Receipt(ctx context.Context, id int64) (*model.Receipt, error) {
	receipt, err := s.bookings.GetReceipt(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	if receipt == nil {
		return nil, fmt.Errorf("receipt %d: %w", id, model.ErrNotFound)
	}
	return receipt, nil
}

func validateBookingRequest(req model.BookingRequest) error {
	if len(req.Passengers) == 0 {
		return fmt.Errorf("%w: at least one passenger is required", model.ErrInvalidRequest)
	}
	if !req.Class.Valid() {
		return fmt.Errorf("%w: unknown seat class %q", model.ErrInvalidRequest, req.Class)
	}
	if !req.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", model.ErrInvalidRequest, req.PaymentMethod)
	}

	seen := make(map[string]struct{}, len(req.Passengers))
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.LastName) == "" {
			return fmt.Errorf("%w: passenger %d name is required", model.ErrInvalidRequest, i+1)
		}
		if p.Gender != model.GenderMr && p.Gender != model.GenderMs {
			return fmt.Errorf("%w: passenger %d gender must be mr or ms", model.ErrInvalidRequest, i+1)
		}
		if p.SeatCode == "" {
			return fmt.Errorf("%w: passenger %d seat is required", model.ErrInvalidRequest, i+1)
		}
		if _, ok := seen[p.SeatCode]; ok {
			return fmt.Errorf("%w: seat %s selected twice", model.ErrInvalidRequest, p.SeatCode)
		}
		seen[p.SeatCode] = struct{}{}
	}
	return nil
}
