// Package resolver tries a dataset's candidate sources in priority order and
// falls back to deterministic synthetic data when all of them fail.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sealevel/internal/fetcher"
	"sealevel/internal/normalize"
	"sealevel/internal/observability"
	"sealevel/internal/series"
	"sealevel/internal/synthetic"
)

// ErrNoSources is the provenance error of a dataset with no candidates.
var ErrNoSources = errors.New("no candidate sources configured")

const outcomeSuccess = "success"

// Dataset describes one series the dashboard shows.
type Dataset struct {
	Name      string
	Sources   []fetcher.Source
	Rules     normalize.RuleSet
	Synthetic synthetic.Generator
	Timeout   time.Duration
	Retry     fetcher.RetryPolicy
}

// Resolver resolves a single dataset. It is sequential: one candidate at a time,
// in order, and it never fails; exhaustion degrades to synthetic data.
type Resolver struct {
	dataset Dataset
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a resolver for ds.
func New(ds Dataset, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	if ds.Timeout <= 0 {
		ds.Timeout = fetcher.DefaultTimeout
	}
	return &Resolver{dataset: ds, logger: logger.With("dataset", ds.Name), metrics: metrics}
}

// Name returns the dataset name.
func (r *Resolver) Name() string {
	return r.dataset.Name
}

// Resolve returns the first candidate that yields a usable series, or the
// synthetic series carrying the last error when none does.
func (r *Resolver) Resolve(ctx context.Context) fetcher.FetchResult {
	cutoff := series.Today()
	attempts := make([]fetcher.SourceAttempt, 0, len(r.dataset.Sources))
	var lastErr error

	for _, src := range r.dataset.Sources {
		start := time.Now()
		points, err := r.try(ctx, src, cutoff)
		elapsed := time.Since(start)
		r.metrics.SourceDuration.WithLabelValues(r.dataset.Name).Observe(elapsed.Seconds())

		attempt := fetcher.SourceAttempt{URL: src.ID(), Succeeded: err == nil, Duration: elapsed}
		if err != nil {
			attempt.Err = err.Error()
			attempts = append(attempts, attempt)
			lastErr = err
			r.metrics.SourceAttempts.WithLabelValues(r.dataset.Name, outcomeOf(err)).Inc()
			r.logger.Warn("source failed", "source", src.ID(), "error", err, "duration", elapsed)
			continue
		}

		attempts = append(attempts, attempt)
		r.metrics.SourceAttempts.WithLabelValues(r.dataset.Name, outcomeSuccess).Inc()
		r.metrics.SeriesPoints.WithLabelValues(r.dataset.Name).Set(float64(len(points)))
		r.logger.Info("source resolved", "source", src.ID(), "points", len(points), "duration", elapsed)

		return fetcher.FetchResult{
			Dataset:    r.dataset.Name,
			Series:     points,
			Provenance: fetcher.Provenance{Source: src.ID(), Fetched: true},
			Attempts:   attempts,
		}
	}

	if lastErr == nil {
		lastErr = ErrNoSources
	}
	return r.fallback(cutoff, attempts, lastErr)
}

// try fetches and normalizes one candidate under the per-request timeout,
// retrying retryable failures per the dataset's policy.
func (r *Resolver) try(ctx context.Context, src fetcher.Source, cutoff time.Time) ([]series.Point, error) {
	var points []series.Point
	err := r.dataset.Retry.Do(ctx, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, r.dataset.Timeout)
		defer cancel()

		table, err := src.Fetch(reqCtx)
		if err != nil {
			return err
		}
		if table == nil {
			return fetcher.NewParseError("source returned no table", nil)
		}

		pts, err := normalize.Normalize(table, r.dataset.Rules, cutoff)
		if err != nil {
			return fetcher.NewParseError("missing expected columns", err)
		}
		if len(pts) == 0 {
			return fetcher.NewParseError("normalized table is empty", normalize.ErrNoRows)
		}
		points = pts
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.ID(), err)
	}
	return points, nil
}

func (r *Resolver) fallback(cutoff time.Time, attempts []fetcher.SourceAttempt, lastErr error) fetcher.FetchResult {
	gen := r.dataset.Synthetic
	if gen == nil {
		gen = synthetic.DefaultGlobal
	}
	points := series.Truncate(gen.Generate(cutoff.Year()), cutoff)

	r.metrics.Fallbacks.WithLabelValues(r.dataset.Name).Inc()
	r.metrics.SeriesPoints.WithLabelValues(r.dataset.Name).Set(float64(len(points)))
	r.logger.Warn("all sources failed, using synthetic series",
		"label", gen.Label(),
		"attempts", len(attempts),
		"error", lastErr)

	return fetcher.FetchResult{
		Dataset: r.dataset.Name,
		Series:  points,
		Provenance: fetcher.Provenance{
			Source:  gen.Label(),
			Fetched: false,
			Err:     lastErr.Error(),
		},
		Attempts: attempts,
	}
}

func outcomeOf(err error) string {
	return string(fetcher.ClassOf(err))
}
