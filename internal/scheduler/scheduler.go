// Package scheduler runs periodic maintenance jobs: expiring bookings that were
// not confirmed in time and purging expired sign-in sessions.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"homecare/internal/service"
)

const jobTimeout = time.Minute

// Job is one scheduled unit of work. It returns the number of affected records.
type Job func(ctx context.Context) (int64, error)

// Scheduler wraps a cron runner with zap logging.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New creates a stopped scheduler.
func New(log *zap.Logger) *Scheduler {
	cl := cronLogger{log: log.Sugar()}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:  log,
	}
}

// Add registers job under name on a cron spec such as "@every 5m".
func (s *Scheduler) Add(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Info("job_scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		s.log.Error("job_failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Info("job_done",
		zap.String("job", name),
		zap.Int64("affected", n),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler_stop_timeout")
	}
}

// ExpireBookings cancels pending bookings whose confirmation deadline passed.
func ExpireBookings(bookings service.BookingService) Job {
	return func(ctx context.Context) (int64, error) {
		return bookings.ExpireOverdue(ctx, time.Now().UTC())
	}
}

// PurgeSessions deletes expired sign-in sessions.
func PurgeSessions(auth service.AuthService) Job {
	return func(ctx context.Context) (int64, error) {
		return auth.PurgeExpiredSessions(ctx, time.Now().UTC())
	}
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
