package mocks

import (
	"context"
	"io"

	"homecare/internal/model"
	"homecare/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, userID, bookingID string, in service.ReviewInput) (*model.Review, error) {
	args := m.Called(ctx, userID, bookingID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, userID, bookingID string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error) {
	args := m.Called(ctx, userID, bookingID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, userID, bookingID string) ([]model.Attachment, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Open(ctx context.Context, userID, bookingID, id string) (io.ReadCloser, *model.Attachment, error) {
	args := m.Called(ctx, userID, bookingID, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Attachment), args.Error(2)
}

func (m *MockAttachmentService) Delete(ctx context.Context, userID, bookingID, id string) error {
	args := m.Called(ctx, userID, bookingID, id)
	return args.Error(0)
}
