package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"homecare/internal/booking"
	"homecare/internal/model"
	repoMocks "homecare/internal/repository/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	cleaningID = "6f1c2a4e-0b1d-4c3e-8f5a-1a2b3c4d5e01"
	movingID   = "6f1c2a4e-0b1d-4c3e-8f5a-1a2b3c4d5e02"
)

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func validRequest() booking.Request {
	return booking.Request{
		CustomerEmail: "anna@example.ch",
		CustomerPhone: "+41 79 123 45 67",
		CustomerAddress: booking.AddressInput{
			Street:     "Bahnhofstrasse 1",
			PostalCode: "8001",
			City:       "Zürich",
			Canton:     "zh",
		},
		PreferredDate: "2026-10-20",
		PreferredTime: "morning",
		Services: []booking.LineInput{
			{ServiceID: movingID, ScheduledDate: "2026-10-21", ScheduledTime: "afternoon"},
			{ServiceID: cleaningID, RecurringInterval: "custom", RecurringIntervalDays: 10},
		},
	}
}

func catalogServices() []model.Service {
	return []model.Service{
		{ID: cleaningID, Name: "Essential Home Cleaning", BasePrice: model.CHF(129, 0)},
		{ID: movingID, Name: "Small Moves & Transport", BasePrice: model.CHF(249, 0)},
	}
}

func newTestBookingService(repo *repoMocks.MockBookingRepository, catalog *repoMocks.MockCatalogRepository, created prometheus.Counter) *bookingService {
	s := NewBookingService(repo, NewCatalogService(catalog, nil, 0, zap.NewNop()), 48*time.Hour, created, zap.NewNop()).(*bookingService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("prices lines from catalog and stores in order", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		catalog := new(repoMocks.MockCatalogRepository)
		created := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookings_created_total"})
		svc := newTestBookingService(repo, catalog, created)

		catalog.On("ListServices", ctx).Return(catalogServices(), nil)
		repo.On("Create", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.CustomerID == "u-1" &&
				b.Status == model.BookingPending &&
				b.PaymentStatus == model.PaymentPending &&
				b.TotalAmount == model.CHF(378, 0) &&
				b.ConfirmationDeadline != nil && b.ConfirmationDeadline.Equal(fixedNow.Add(48*time.Hour)) &&
				b.CustomerAddress.Canton == "ZH" &&
				len(b.Services) == 2 &&
				b.Services[0].ServiceID == movingID && b.Services[0].Price == model.CHF(249, 0) &&
				*b.Services[0].ScheduledTime == "afternoon" &&
				b.Services[1].ServiceID == cleaningID && *b.Services[1].RecurringIntervalDays == 10
		})).Return(&model.Booking{ID: "b-1", Reference: "HC-261017-00001", TotalAmount: model.CHF(378, 0)}, nil)

		got, err := svc.Create(ctx, "u-1", validRequest())

		require.NoError(t, err)
		assert.Equal(t, "HC-261017-00001", got.Reference)
		assert.Equal(t, float64(1), testutil.ToFloat64(created))
		repo.AssertExpectations(t)
		catalog.AssertExpectations(t)
	})

	t.Run("total is the sum of catalog prices", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		catalog := new(repoMocks.MockCatalogRepository)
		svc := newTestBookingService(repo, catalog, nil)

		req := validRequest()
		req.Services = req.Services[:1]
		catalog.On("ListServices", ctx).Return(catalogServices(), nil)
		repo.On("Create", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.TotalAmount == model.CHF(249, 0)
		})).Return(&model.Booking{ID: "b-1"}, nil)

		_, err := svc.Create(ctx, "u-1", req)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name     string
		mutate   func(r *booking.Request)
		catalog  []model.Service
		catalogE error
		check    func(t *testing.T, err error)
	}{
		{
			name:   "missing required fields",
			mutate: func(r *booking.Request) {
				r.CustomerEmail = ""
				r.CustomerAddress.City = ""
			},
			check: func(t *testing.T, err error) {
				var ve *booking.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, "customer_email")
				assert.Contains(t, ve.Fields, "customer_address.city")
			},
		},
		{
			name:   "no services",
			mutate: func(r *booking.Request) { r.Services = nil },
			check: func(t *testing.T, err error) {
				var ve *booking.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, "services")
			},
		},
		{
			name:   "duplicate service",
			mutate: func(r *booking.Request) { r.Services[1].ServiceID = movingID },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, booking.ErrDuplicateService)
			},
		},
		{
			name:    "unknown service",
			mutate:  func(r *booking.Request) {},
			catalog: catalogServices()[1:],
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnknownService)
			},
		},
		{
			name:     "catalog unavailable",
			mutate:   func(r *booking.Request) {},
			catalogE: errors.New("db down"),
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "load prices")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockBookingRepository)
			catalog := new(repoMocks.MockCatalogRepository)
			svc := newTestBookingService(repo, catalog, nil)

			switch {
			case tt.catalogE != nil:
				catalog.On("ListServices", ctx).Return(nil, tt.catalogE)
			case tt.catalog != nil:
				catalog.On("ListServices", ctx).Return(tt.catalog, nil)
			}

			req := validRequest()
			tt.mutate(&req)
			got, err := svc.Create(ctx, "u-1", req)

			assert.Nil(t, got)
			tt.check(t, err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		catalog := new(repoMocks.MockCatalogRepository)
		created := prometheus.NewCounter(prometheus.CounterOpts{Name: "bookings_created_total"})
		svc := newTestBookingService(repo, catalog, created)

		catalog.On("ListServices", ctx).Return(catalogServices(), nil)
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("tx aborted"))

		_, err := svc.Create(ctx, "u-1", validRequest())
		assert.ErrorContains(t, err, "store booking")
		assert.Equal(t, float64(0), testutil.ToFloat64(created))
	})
}

func TestBookingService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockBookingRepository)
	svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

	repo.On("FindForCustomer", ctx, "u-1", "b-1").Return(&model.Booking{ID: "b-1"}, nil)
	repo.On("FindForCustomer", ctx, "u-1", "b-other").Return(nil, sql.ErrNoRows)

	b, err := svc.Get(ctx, "u-1", "b-1")
	require.NoError(t, err)
	assert.Equal(t, "b-1", b.ID)

	_, err = svc.Get(ctx, "u-1", "b-other")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, "u-1", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_ListForUser(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockBookingRepository)
	svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

	repo.On("ListByCustomer", ctx, "u-1").Return([]model.Booking{{ID: "b-2"}, {ID: "b-1"}}, nil)

	items, err := svc.ListForUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("pending booking", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

		repo.On("FindForCustomer", ctx, "u-1", "b-1").Return(&model.Booking{ID: "b-1", Status: model.BookingPending}, nil).Once()
		repo.On("Cancel", ctx, "u-1", "b-1", ReasonCustomerRequest, fixedNow).Return(true, nil)
		repo.On("FindForCustomer", ctx, "u-1", "b-1").Return(&model.Booking{ID: "b-1", Status: model.BookingCancelled}, nil).Once()

		b, err := svc.Cancel(ctx, "u-1", "b-1", "  ")
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, b.Status)
		repo.AssertExpectations(t)
	})

	t.Run("completed booking", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

		repo.On("FindForCustomer", ctx, "u-1", "b-1").Return(&model.Booking{ID: "b-1", Status: model.BookingCompleted}, nil)

		_, err := svc.Cancel(ctx, "u-1", "b-1", "")
		assert.ErrorIs(t, err, ErrInvalidState)
		repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("status changed concurrently", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

		repo.On("FindForCustomer", ctx, "u-1", "b-1").Return(&model.Booking{ID: "b-1", Status: model.BookingConfirmed}, nil)
		repo.On("Cancel", ctx, "u-1", "b-1", "moved abroad", fixedNow).Return(false, nil)

		_, err := svc.Cancel(ctx, "u-1", "b-1", "moved abroad")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("not owned", func(t *testing.T) {
		repo := new(repoMocks.MockBookingRepository)
		svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

		repo.On("FindForCustomer", ctx, "u-2", "b-1").Return(nil, sql.ErrNoRows)

		_, err := svc.Cancel(ctx, "u-2", "b-1", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookingService_ExpireOverdue(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockBookingRepository)
	svc := newTestBookingService(repo, new(repoMocks.MockCatalogRepository), nil)

	repo.On("ExpirePending", ctx, fixedNow, ReasonDeadlinePassed).Return(int64(2), nil).Once()
	n, err := svc.ExpireOverdue(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	repo.On("ExpirePending", ctx, fixedNow, ReasonDeadlinePassed).Return(int64(0), errors.New("lock timeout")).Once()
	_, err = svc.ExpireOverdue(ctx, fixedNow)
	assert.ErrorContains(t, err, "expire pending bookings")
}
