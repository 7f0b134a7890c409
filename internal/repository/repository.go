package repository

import (
	"context"
	"errors"
	"time"

	"homecare/internal/model"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
// Lookups that find nothing return sql.ErrNoRows.
var ErrDuplicate = errors.New("duplicate record")

// CatalogRepository reads the service catalog.
type CatalogRepository interface {
	// ListServices returns active services with their category, popular first.
	ListServices(ctx context.Context) ([]model.Service, error)
	// ListCategories returns active categories by sort order.
	ListCategories(ctx context.Context) ([]model.ServiceCategory, error)
}

// BookingRepository persists bookings together with their line items.
// Every read is scoped to the owning customer.
type BookingRepository interface {
	// Create stores the booking and its lines atomically. The reference is
	// generated by the database and returned on the stored booking.
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)

	// ListByCustomer returns the customer's bookings newest first, with lines
	// (service and provider attached) and payments.
	ListByCustomer(ctx context.Context, customerID string) ([]model.Booking, error)

	// FindForCustomer returns one booking with nesting.
	FindForCustomer(ctx context.Context, customerID, id string) (*model.Booking, error)

	// Cancel cancels a pending or confirmed booking and its lines. It returns
	// false when no cancellable booking matched.
	Cancel(ctx context.Context, customerID, id, reason string, at time.Time) (bool, error)

	// ExpirePending cancels pending bookings whose confirmation deadline is before at.
	ExpirePending(ctx context.Context, at time.Time, reason string) (int64, error)
}

// UserRepository stores customer accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository stores server-side sign-in sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// FindActive returns the session if it exists and has not expired at now.
	FindActive(ctx context.Context, id string, now time.Time) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ReviewRepository stores booking reviews, one per booking.
type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) (*model.Review, error)
}

// AttachmentRepository stores attachment metadata; content lives in object storage.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]model.Attachment, error)
	FindByID(ctx context.Context, bookingID, id string) (*model.Attachment, error)
	Delete(ctx context.Context, id string) error
}
