package fetcher

import (
	"context"

	"sealevel/internal/normalize"
)

// Source is the interface every candidate data source implements.
// A source knows how to retrieve one raw table; it does not interpret columns.
type Source interface {
	// Fetch retrieves the raw tabular payload.
	// Errors should be *FetchError so callers can classify them.
	Fetch(ctx context.Context) (*normalize.Table, error)

	// ID identifies the source in provenance and logs, usually its URL.
	ID() string
}
