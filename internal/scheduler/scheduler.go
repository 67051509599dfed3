package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/omprakashthakur/contenthub/internal/domain"
	"github.com/omprakashthakur/contenthub/internal/service"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Sync(ctx context.Context, opts service.SyncOptions) (*domain.SyncReport, error)
}

// Runner is one named sync job.
type Runner struct {
	Name   string
	Syncer Syncer
}

// Scheduler runs every registered sync job once immediately and then on a
// fixed interval. Jobs run sequentially; a failure in one never stops the
// others.
type Scheduler struct {
	runners  []Runner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(runners []Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runners:  runners,
		interval: interval,
		timeout:  5 * time.Minute,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "jobs", len(s.runners))

	s.RunAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RunAll(ctx)
		}
	}
}

// RunAll executes every job once, each under its own timeout.
func (s *Scheduler) RunAll(ctx context.Context) {
	for _, r := range s.runners {
		syncCtx, cancel := context.WithTimeout(ctx, s.timeout)
		if _, err := r.Syncer.Sync(syncCtx, service.SyncOptions{}); err != nil {
			s.logger.Error("sync failed", "job", r.Name, "error", err)
		}
		cancel()
	}
}
