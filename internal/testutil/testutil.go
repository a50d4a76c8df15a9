package testutil

import (
	"context"

	"sealevel/internal/fetcher"
	"sealevel/internal/normalize"
)

// MockSource is a mock implementation of the fetcher.Source interface for testing
type MockSource struct {
	FetchFunc func(ctx context.Context) (*normalize.Table, error)
	IDFunc    func() string
	Calls     int
}

// Fetch implements the fetcher.Source interface
func (m *MockSource) Fetch(ctx context.Context) (*normalize.Table, error) {
	m.Calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return &normalize.Table{}, nil
}

// ID implements the fetcher.Source interface
func (m *MockSource) ID() string {
	if m.IDFunc != nil {
		return m.IDFunc()
	}
	return "mock://source"
}

// NewMockSource creates a simple mock source returning a fixed table or error
func NewMockSource(id string, table *normalize.Table, err error) *MockSource {
	return &MockSource{
		FetchFunc: func(ctx context.Context) (*normalize.Table, error) {
			return table, err
		},
		IDFunc: func() string {
			return id
		},
	}
}

// FailingSources returns n sources that all fail with a network error
func FailingSources(n int) []fetcher.Source {
	sources := make([]fetcher.Source, 0, n)
	for i := 0; i < n; i++ {
		sources = append(sources, NewMockSource(
			"mock://failing/"+string(rune('a'+i)),
			nil,
			fetcher.NewNetworkError(context.DeadlineExceeded),
		))
	}
	return sources
}

// CSVTable builds a table from a header and rows for test fixtures
func CSVTable(columns []string, rows ...[]string) *normalize.Table {
	return &normalize.Table{Columns: columns, Rows: rows}
}
