// Package cache memoizes dashboard snapshots for a TTL and refreshes them on a schedule.
package cache

//go:generate mockgen -package=cache_test -destination=mock_loader_test.go -source=cache.go Loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"sealevel/internal/coordinator"
	"sealevel/internal/observability"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultStale = "stale"
	resultError = "error"

	flightKey = "snapshot"

	// DefaultLoadTimeout bounds a shared load once it is detached from its caller.
	DefaultLoadTimeout = 5 * time.Minute
)

// Loader produces a fresh snapshot.
type Loader interface {
	Load(ctx context.Context) (*coordinator.Snapshot, error)
}

// Option configures Snapshots.
type Option func(*Snapshots)

// WithClock overrides the clock used for expiry.
func WithClock(c clockwork.Clock) Option {
	return func(s *Snapshots) { s.clock = c }
}

// WithLoadTimeout overrides DefaultLoadTimeout. Zero or less removes the bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Snapshots) { s.loadTimeout = d }
}

// Snapshots caches the latest snapshot for a TTL.
// A TTL of zero or less disables caching: every Get loads.
// Concurrent loads collapse into one, and a failed load keeps serving the
// previous snapshot when there is one. A load runs detached from the caller
// that started it: a caller that gives up gets its context error back while
// the load completes for everyone else.
type Snapshots struct {
	loader      Loader
	ttl         time.Duration
	loadTimeout time.Duration
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics

	group singleflight.Group

	mu       sync.RWMutex
	current  *coordinator.Snapshot
	loadedAt time.Time
}

// NewSnapshots wraps loader with a TTL cache.
func NewSnapshots(loader Loader, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Snapshots {
	s := &Snapshots{
		loader:      loader,
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
		clock:       clockwork.NewRealClock(),
		logger:      logger,
		metrics:     metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached snapshot while it is fresh, loading a new one otherwise.
func (s *Snapshots) Get(ctx context.Context) (*coordinator.Snapshot, error) {
	if snap, ok := s.fresh(); ok {
		s.metrics.SnapshotCache.WithLabelValues(resultHit).Inc()
		return snap, nil
	}
	s.metrics.SnapshotCache.WithLabelValues(resultMiss).Inc()
	return s.load(ctx)
}

// Refresh loads a new snapshot regardless of the cached one's age.
func (s *Snapshots) Refresh(ctx context.Context) (*coordinator.Snapshot, error) {
	return s.load(ctx)
}

// Invalidate drops the cached snapshot.
func (s *Snapshots) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}

// Age returns how long ago the cached snapshot was loaded and whether there is one.
func (s *Snapshots) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return 0, false
	}
	return s.clock.Since(s.loadedAt), true
}

func (s *Snapshots) fresh() (*coordinator.Snapshot, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.clock.Since(s.loadedAt) >= s.ttl {
		return nil, false
	}
	return s.current, true
}

func (s *Snapshots) load(ctx context.Context) (*coordinator.Snapshot, error) {
	ch := s.group.DoChan(flightKey, func() (any, error) {
		return s.loadDetached(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("snapshot load shared with concurrent caller")
		}
		return res.Val.(*coordinator.Snapshot), nil
	}
}

func (s *Snapshots) loadDetached(ctx context.Context) (*coordinator.Snapshot, error) {
	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		s.mu.RLock()
		stale := s.current
		s.mu.RUnlock()
		if stale != nil {
			s.metrics.SnapshotCache.WithLabelValues(resultStale).Inc()
			s.logger.Warn("snapshot load failed, serving previous snapshot",
				"snapshot", stale.ID,
				"error", err)
			return stale, nil
		}
		s.metrics.SnapshotCache.WithLabelValues(resultError).Inc()
		return nil, err
	}

	s.mu.Lock()
	s.current = snap
	s.loadedAt = s.clock.Now()
	s.mu.Unlock()
	return snap, nil
}
