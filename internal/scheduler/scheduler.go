// Package scheduler runs the periodic refresh cycle.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher is the refresh entry point the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler triggers one refresh cycle per interval. Cycles never overlap:
// the job runs in singleton mode and the coordinator additionally coalesces
// concurrent refreshes.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	refresher    Refresher
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *slog.Logger
}

// New creates a scheduler driving the refresher every interval. cycleTimeout
// bounds one whole cycle, covering every station's request pair.
func New(interval, cycleTimeout time.Duration, refresher Refresher, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		refresher:    refresher,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
	}
}

// Start registers the refresh job and starts the scheduler in the
// background.
func (s *Scheduler) Start() error {
	job, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout)
		defer cancel()

		if err := s.refresher.Refresh(ctx); err != nil {
			s.logger.Error("scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	job.SingletonMode()

	s.scheduler.StartAsync()
	s.logger.Info("refresh scheduler started", "interval", s.interval)
	return nil
}

// Stop stops the scheduler and cancels future jobs. A cycle already running
// finishes on its own.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
