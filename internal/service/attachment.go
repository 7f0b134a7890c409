package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homecare/internal/model"
	"homecare/internal/repository"
	"homecare/internal/storage"
)

// MaxAttachmentSize is the largest accepted upload in bytes.
const MaxAttachmentSize = 10 << 20

const presignExpiry = 15 * time.Minute

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrUnsupportedType    = errors.New("unsupported attachment type")
	ErrTooLarge           = errors.New("attachment too large")
)

var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

// AttachmentService stores photos and documents that customers add to their bookings.
type AttachmentService interface {
	// Upload writes the content to object storage, then the metadata row. If the
	// row cannot be stored the object is deleted again.
	Upload(ctx context.Context, userID, bookingID string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error)

	// List returns the booking's attachments with short-lived download URLs.
	List(ctx context.Context, userID, bookingID string) ([]model.Attachment, error)

	// Open streams one attachment's content. The caller closes the reader.
	Open(ctx context.Context, userID, bookingID, id string) (io.ReadCloser, *model.Attachment, error)

	// Delete removes the object, then its row.
	Delete(ctx context.Context, userID, bookingID, id string) error
}

type attachmentService struct {
	bookings BookingService
	store    storage.Storage
	repo     repository.AttachmentRepository
	log      *zap.Logger
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(bookings BookingService, store storage.Storage, repo repository.AttachmentRepository, log *zap.Logger) AttachmentService {
	return &attachmentService{bookings: bookings, store: store, repo: repo, log: log}
}

func (s *attachmentService) Upload(ctx context.Context, userID, bookingID string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !allowedAttachmentTypes[contentType] {
		return nil, ErrUnsupportedType
	}
	if size > MaxAttachmentSize {
		return nil, ErrTooLarge
	}
	if _, err := s.bookings.Get(ctx, userID, bookingID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "attachment"
	}
	key := storage.AttachmentKey(bookingID, id, name)

	obj, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": name,
			"booking-id":        bookingID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.Attachment{
		ID:          id,
		BookingID:   bookingID,
		Filename:    name,
		StoragePath: obj.Key,
		Size:        obj.Size,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("attachment_rollback_failed", zap.String("key", key), zap.Error(delErr))
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) List(ctx context.Context, userID, bookingID string) ([]model.Attachment, error) {
	if _, err := s.bookings.Get(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		u, err := s.store.PresignGet(ctx, items[i].StoragePath, presignExpiry)
		if err != nil {
			s.log.Warn("attachment_presign_failed", zap.String("attachment_id", items[i].ID), zap.Error(err))
			continue
		}
		items[i].URL = u
	}
	return items, nil
}

func (s *attachmentService) find(ctx context.Context, userID, bookingID, id string) (*model.Attachment, error) {
	if _, err := s.bookings.Get(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, bookingID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *attachmentService) Open(ctx context.Context, userID, bookingID, id string) (io.ReadCloser, *model.Attachment, error) {
	a, err := s.find(ctx, userID, bookingID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, a.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read storage: %w", err)
	}
	return rc, a, nil
}

func (s *attachmentService) Delete(ctx context.Context, userID, bookingID, id string) error {
	a, err := s.find(ctx, userID, bookingID, id)
	if err != nil {
		return err
	}
	// Keep the row if the object cannot be removed so the path is not lost.
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
