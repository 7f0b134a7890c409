package postgres

import (
	"context"
	"database/sql"

	"homecare/internal/model"
	"homecare/internal/repository"
)

// ReviewPostgres is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewPostgres struct {
	db *sql.DB
}

// NewReviewPostgres creates a new ReviewPostgres repository.
func NewReviewPostgres(db *sql.DB) *ReviewPostgres {
	return &ReviewPostgres{db: db}
}

var _ repository.ReviewRepository = (*ReviewPostgres)(nil)

// Create inserts a review. A second review for the same booking yields repository.ErrDuplicate.
func (r *ReviewPostgres) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	const q = `
		INSERT INTO reviews (id, booking_id, customer_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booking_id, customer_id, rating, comment, created_at
	`
	var out model.Review
	if err := r.db.QueryRowContext(ctx, q,
		rv.ID, rv.BookingID, rv.CustomerID, rv.Rating, rv.Comment, rv.CreatedAt,
	).Scan(&out.ID, &out.BookingID, &out.CustomerID, &out.Rating, &out.Comment, &out.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}
