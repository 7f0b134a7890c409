package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"homecare/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAdd_InvalidSpec(t *testing.T) {
	s := New(zap.NewNop())
	err := s.Add("broken", "every now and then", func(context.Context) (int64, error) { return 0, nil })
	assert.ErrorContains(t, err, "schedule broken")
}

func TestRun_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(zap.New(core))

	s.run("ok", func(context.Context) (int64, error) { return 4, nil })
	s.run("bad", func(context.Context) (int64, error) { return 0, errors.New("db down") })

	done := logs.FilterMessage("job_done").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(4), done[0].ContextMap()["affected"])

	failed := logs.FilterMessage("job_failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].ContextMap()["job"])
}

func TestExpireBookings(t *testing.T) {
	bookings := new(mocks.MockBookingService)
	bookings.On("ExpireOverdue", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(2), nil)

	n, err := ExpireBookings(bookings)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	bookings.AssertExpectations(t)
}

func TestPurgeSessions(t *testing.T) {
	auth := new(mocks.MockAuthService)
	auth.On("PurgeExpiredSessions", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(7), nil)

	n, err := PurgeSessions(auth)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestStartStop(t *testing.T) {
	s := New(zap.NewNop())
	calls := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 1s", func(context.Context) (int64, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return 0, nil
	}))

	s.Start()
	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
