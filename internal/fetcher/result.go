package fetcher

import (
	"time"

	"sealevel/internal/series"
)

// SourceAttempt records one candidate tried by a resolver. It is transient:
// carried on the result for logs and metrics, never persisted.
type SourceAttempt struct {
	URL       string        `json:"url"`
	Succeeded bool          `json:"succeeded"`
	Err       string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Provenance describes which source produced a series and whether it was synthetic.
type Provenance struct {
	Source  string `json:"source"`
	Fetched bool   `json:"fetched"`
	Err     string `json:"error,omitempty"`
}

// FetchResult is the outcome of resolving one dataset.
// It is built once and must be treated as read-only afterwards.
type FetchResult struct {
	Dataset    string          `json:"dataset"`
	Series     []series.Point  `json:"points"`
	Provenance Provenance      `json:"provenance"`
	Attempts   []SourceAttempt `json:"-"`
}

// Points returns a copy of the series so callers cannot mutate the result.
func (r FetchResult) Points() []series.Point {
	return series.Clone(r.Series)
}

// Synthetic reports whether the series came from a built-in generator.
func (r FetchResult) Synthetic() bool {
	return !r.Provenance.Fetched
}
