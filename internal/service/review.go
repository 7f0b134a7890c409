package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"homecare/internal/booking"
	"homecare/internal/model"
	"homecare/internal/repository"
)

var (
	ErrAlreadyReviewed = errors.New("booking already reviewed")
	ErrNotCompleted    = errors.New("only completed bookings can be reviewed")
)

// ReviewInput is a customer's rating of a booking.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ReviewService lets customers rate their completed bookings once.
type ReviewService interface {
	Create(ctx context.Context, userID, bookingID string, in ReviewInput) (*model.Review, error)
}

type reviewService struct {
	bookings BookingService
	repo     repository.ReviewRepository
	now      func() time.Time
}

// NewReviewService constructs a ReviewService.
func NewReviewService(bookings BookingService, repo repository.ReviewRepository) ReviewService {
	return &reviewService{bookings: bookings, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *reviewService) Create(ctx context.Context, userID, bookingID string, in ReviewInput) (*model.Review, error) {
	if err := booking.Struct(in); err != nil {
		return nil, err
	}
	b, err := s.bookings.Get(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingCompleted {
		return nil, ErrNotCompleted
	}

	rv, err := s.repo.Create(ctx, &model.Review{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		CustomerID: userID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("store review: %w", err)
	}
	return rv, nil
}
