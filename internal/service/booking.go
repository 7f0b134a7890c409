package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"homecare/internal/booking"
	"homecare/internal/model"
	"homecare/internal/repository"
)

// Cancellation reasons stored on the booking row.
const (
	ReasonCustomerRequest = "customer_request"
	ReasonDeadlinePassed  = "confirmation_deadline_passed"
)

var (
	ErrNotFound       = errors.New("booking not found")
	ErrInvalidState   = errors.New("booking cannot change from its current status")
	ErrUnknownService = booking.ErrUnknownService
)

// BookingService defines the booking use cases. Every operation is scoped to
// the signed-in customer.
type BookingService interface {
	// Create validates the request, prices every line from the catalog and
	// stores the booking and its lines atomically.
	Create(ctx context.Context, userID string, req booking.Request) (*model.Booking, error)

	// ListForUser returns the user's bookings, newest first, with lines and payments.
	ListForUser(ctx context.Context, userID string) ([]model.Booking, error)

	// Get returns one of the user's bookings.
	Get(ctx context.Context, userID, id string) (*model.Booking, error)

	// Cancel cancels a pending or confirmed booking.
	Cancel(ctx context.Context, userID, id, reason string) (*model.Booking, error)

	// ExpireOverdue cancels pending bookings whose confirmation deadline is before now.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type bookingService struct {
	repo    repository.BookingRepository
	catalog CatalogService
	window  time.Duration
	created prometheus.Counter
	log     *zap.Logger
	now     func() time.Time
}

// NewBookingService constructs a BookingService. window is the time a new
// booking has to be confirmed. created may be nil.
func NewBookingService(repo repository.BookingRepository, catalog CatalogService, window time.Duration, created prometheus.Counter, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		catalog: catalog,
		window:  window,
		created: created,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Create(ctx context.Context, userID string, req booking.Request) (*model.Booking, error) {
	now := s.now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}
	draft, err := req.Draft()
	if err != nil {
		return nil, err
	}

	prices, err := s.catalog.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if err := draft.ApplyPrices(prices); err != nil {
		return nil, err
	}

	deadline := now.Add(s.window)
	b := &model.Booking{
		ID:                   uuid.New().String(),
		CustomerID:           userID,
		Status:               model.BookingPending,
		CustomerEmail:        strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:        strings.TrimSpace(req.CustomerPhone),
		CustomerAddress:      req.CustomerAddress.Address(),
		PreferredDate:        req.PreferredDate,
		PreferredTime:        req.PreferredTime,
		GeneralNotes:         strings.TrimSpace(req.GeneralNotes),
		TotalAmount:          draft.Total(),
		PaymentStatus:        model.PaymentPending,
		ConfirmationDeadline: &deadline,
	}
	for _, l := range draft.Lines() {
		b.Services = append(b.Services, lineFromDraft(l))
	}

	stored, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}
	if s.created != nil {
		s.created.Inc()
	}
	s.log.Info("booking_created",
		zap.String("booking_id", stored.ID),
		zap.String("reference", stored.Reference),
		zap.Int("services", len(stored.Services)),
		zap.String("total", stored.TotalAmount.String()),
	)
	return stored, nil
}

func lineFromDraft(l booking.Line) model.BookingService {
	ls := model.BookingService{
		ServiceID:    l.ServiceID,
		ServiceNotes: strings.TrimSpace(l.Notes),
		Price:        l.Price,
		Status:       model.LinePending,
	}
	if l.ScheduledDate != "" {
		ls.ScheduledDate = &l.ScheduledDate
	}
	if l.ScheduledTime != "" {
		ls.ScheduledTime = &l.ScheduledTime
	}
	if l.RecurringInterval != "" {
		ls.RecurringInterval = &l.RecurringInterval
		if l.RecurringIntervalDays > 0 {
			ls.RecurringIntervalDays = &l.RecurringIntervalDays
		}
	}
	return ls
}

func (s *bookingService) ListForUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.repo.ListByCustomer(ctx, userID)
}

func (s *bookingService) Get(ctx context.Context, userID, id string) (*model.Booking, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	b, err := s.repo.FindForCustomer(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, id, reason string) (*model.Booking, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Cancellable() {
		return nil, ErrInvalidState
	}
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = ReasonCustomerRequest
	}

	ok, err := s.repo.Cancel(ctx, userID, id, reason, s.now())
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	// Status changed between the read and the update.
	if !ok {
		return nil, ErrInvalidState
	}
	s.log.Info("booking_cancelled", zap.String("booking_id", id), zap.String("reason", reason))
	return s.Get(ctx, userID, id)
}

func (s *bookingService) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.ExpirePending(ctx, now, ReasonDeadlinePassed)
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}
	return n, nil
}
