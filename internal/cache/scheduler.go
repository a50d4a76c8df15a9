package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher reloads a snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Scheduler refreshes the snapshot cache on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	logger    *slog.Logger
	ctx       context.Context
}

// NewScheduler registers a refresh job on the standard five-field cron spec.
func NewScheduler(spec string, refresher Refresher, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		logger:    logger,
		ctx:       context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return nil, fmt.Errorf("register refresh job %q: %w", spec, err)
	}
	return s, nil
}

// SnapshotRefresher adapts Snapshots to Refresher.
func SnapshotRefresher(s *Snapshots) Refresher {
	return RefresherFunc(func(ctx context.Context) error {
		_, err := s.Refresh(ctx)
		return err
	})
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("refresh scheduler started", "jobs", len(s.cron.Entries()))

	<-ctx.Done()

	done := s.cron.Stop()
	<-done.Done()
	s.logger.Info("refresh scheduler stopped")
	return nil
}

func (s *Scheduler) refresh() {
	s.logger.Info("running scheduled snapshot refresh")
	if err := s.refresher.Refresh(s.ctx); err != nil {
		s.logger.Error("scheduled snapshot refresh failed", "error", err)
	}
}
