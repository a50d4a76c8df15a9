package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sealevel/internal/fetcher"
	"sealevel/internal/observability"
	"sealevel/internal/series"
)

// Dataset names of the resolved series.
const (
	DatasetGlobal   = "global"
	DatasetRegional = "regional"
)

// Resolver resolves one named dataset. It never fails; total failure is
// reported through the result's provenance.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context) fetcher.FetchResult
}

// Snapshot is the set of dataset results produced by one dashboard load.
// It is immutable once returned from Load.
type Snapshot struct {
	ID       string                         `json:"id"`
	LoadedAt time.Time                      `json:"loaded_at"`
	Results  map[string]fetcher.FetchResult `json:"results"`
	Order    []string                       `json:"order"`
}

// Result returns the result for a dataset and whether it was loaded.
func (s *Snapshot) Result(name string) (fetcher.FetchResult, bool) {
	if s == nil {
		return fetcher.FetchResult{}, false
	}
	r, ok := s.Results[name]
	return r, ok
}

// Fallbacks returns the names of datasets served from synthetic data, in load order.
func (s *Snapshot) Fallbacks() []string {
	var names []string
	for _, name := range s.Order {
		if s.Results[name].Synthetic() {
			names = append(names, name)
		}
	}
	return names
}

// Coordinator resolves every configured dataset into a Snapshot
type Coordinator struct {
	resolvers []Resolver
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a new Coordinator with the given resolvers
func New(resolvers []Resolver, logger *slog.Logger, metrics *observability.Metrics) *Coordinator {
	return &Coordinator{
		resolvers: resolvers,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load resolves the datasets one after another, in configuration order.
// Individual source failures never fail the load; only a missing
// configuration or a cancelled context does.
func (c *Coordinator) Load(ctx context.Context) (*Snapshot, error) {
	if len(c.resolvers) == 0 {
		return nil, fmt.Errorf("no datasets configured")
	}

	start := time.Now()
	snap := &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: series.Now(),
		Results:  make(map[string]fetcher.FetchResult, len(c.resolvers)),
		Order:    make([]string, 0, len(c.resolvers)),
	}

	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled before %s: %w", r.Name(), err)
		}
		result := r.Resolve(ctx)
		if _, dup := snap.Results[r.Name()]; !dup {
			snap.Order = append(snap.Order, r.Name())
		}
		snap.Results[r.Name()] = result
	}
	// Resolvers degrade to synthetic data when ctx ends mid-fetch; such a
	// snapshot does not describe the sources and must not be kept.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}

	elapsed := time.Since(start)
	c.metrics.SnapshotLoadDur.Observe(elapsed.Seconds())
	c.logger.Info("snapshot loaded",
		"snapshot", snap.ID,
		"datasets", len(snap.Order),
		"fallbacks", snap.Fallbacks(),
		"duration", elapsed)

	return snap, nil
}
