package mocks

import (
	"context"
	"time"

	"homecare/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindForCustomer(ctx context.Context, customerID, id string) (*model.Booking, error) {
	args := m.Called(ctx, customerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, customerID, id, reason string, at time.Time) (bool, error) {
	args := m.Called(ctx, customerID, id, reason, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) ExpirePending(ctx context.Context, at time.Time, reason string) (int64, error) {
	args := m.Called(ctx, at, reason)
	return args.Get(0).(int64), args.Error(1)
}
