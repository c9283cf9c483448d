package live

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// MinRefreshInterval is the shortest accepted refresh period
const MinRefreshInterval = time.Second

// Source reports the status of the open session, or nil when none is open.
type Source interface {
	LiveStatus(ctx context.Context) (*Status, error)
}

// Refresher republishes the running session's snapshot on a fixed period.
// Displays stay correct without it; it only bounds how stale a published
// snapshot can get.
type Refresher struct {
	source    Source
	projector Projector
	interval  time.Duration
	logger    *slog.Logger
}

// NewRefresher builds a refresher. Intervals below MinRefreshInterval are raised.
func NewRefresher(source Source, projector Projector, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval < MinRefreshInterval {
		interval = MinRefreshInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Refresher{
		source:    source,
		projector: projector,
		interval:  interval,
		logger:    logger,
	}
}

// Interval returns the refresh period.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Run refreshes until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.Warn("live status refresh failed", "error", err)
			}
		}
	}
}

// RefreshOnce publishes the running session, or clears the display when no
// session is open. A paused session is left as published.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	status, err := r.source.LiveStatus(ctx)
	if err != nil {
		return err
	}
	if status == nil {
		return r.projector.Clear()
	}
	if !status.IsRunning {
		return nil
	}
	return r.projector.Publish(*status)
}
