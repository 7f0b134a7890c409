package postgres

import (
	"context"
	"database/sql"

	"homecare/internal/model"
	"homecare/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

// Create inserts a new attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO booking_attachments (id, booking_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, booking_id, filename, storage_path, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.BookingID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	)
	return scanAttachment(row)
}

// ListByBooking returns a booking's attachments, oldest first.
func (r *AttachmentPostgres) ListByBooking(ctx context.Context, bookingID string) ([]model.Attachment, error) {
	const q = `
		SELECT id, booking_id, filename, storage_path, size, content_type, created_at
		FROM booking_attachments
		WHERE booking_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches an attachment belonging to bookingID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, bookingID, id string) (*model.Attachment, error) {
	const q = `
		SELECT id, booking_id, filename, storage_path, size, content_type, created_at
		FROM booking_attachments
		WHERE id = $1 AND booking_id = $2
	`
	return scanAttachment(r.db.QueryRowContext(ctx, q, id, bookingID))
}

// Delete removes an attachment row. It does not return an error if the row does not exist.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM booking_attachments WHERE id = $1`, id)
	return err
}

func scanAttachment(s scanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.Scan(&a.ID, &a.BookingID, &a.Filename, &a.StoragePath, &a.Size, &a.ContentType, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
