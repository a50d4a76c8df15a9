package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for data acquisition.
type Metrics struct {
	SourceAttempts  *prometheus.CounterVec   // labels: dataset, outcome={success,network_error,parse_error}
	SourceDuration  *prometheus.HistogramVec // labels: dataset
	Fallbacks       *prometheus.CounterVec   // labels: dataset
	SeriesPoints    *prometheus.GaugeVec     // labels: dataset
	SnapshotCache   *prometheus.CounterVec   // labels: result={hit,miss,stale}
	SnapshotLoadDur prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SourceAttempts,
		m.SourceDuration,
		m.Fallbacks,
		m.SeriesPoints,
		m.SnapshotCache,
		m.SnapshotLoadDur,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SourceAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "source_attempts_total",
			Help:      "Source fetch attempts by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sealevel",
			Name:      "source_attempt_duration_seconds",
			Help:      "Duration of a single source attempt, retries included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "synthetic_fallbacks_total",
			Help:      "Resolutions that exhausted every source and used synthetic data.",
		}, []string{"dataset"}),
		SeriesPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sealevel",
			Name:      "series_points",
			Help:      "Number of points in the most recently resolved series.",
		}, []string{"dataset"}),
		SnapshotCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealevel",
			Name:      "snapshot_cache_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		SnapshotLoadDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sealevel",
			Name:      "snapshot_load_duration_seconds",
			Help:      "Duration of a full dashboard data load.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}
