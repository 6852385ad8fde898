package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/store"
)

// DefaultActivityRetention is how long activity entries are kept.
const DefaultActivityRetention = 90 * 24 * time.Hour

// HousekeepingService periodically prunes activity entries older than the
// retention window so the log does not grow without bound.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Non-positive
// interval and retention fall back to one hour and DefaultActivityRetention.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultActivityRetention
	}

	return &HousekeepingService{
		Store:     s,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		Now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention),
	)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes activity entries older than the retention window.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := s.Now().Add(-s.Retention)

	deleted, err := s.Store.Activity().DeleteBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to prune activity log", slog.Any("error", err))
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed",
		slog.Int64("activity_deleted", deleted),
		slog.Time("cutoff", cutoff),
	)
	return deleted
}
