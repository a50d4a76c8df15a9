// Package source implements candidate data sources for the resolver.
package source

import (
	"context"
	"errors"
	"fmt"
	"net"

	"resty.dev/v3"

	"sealevel/internal/fetcher"
	"sealevel/internal/normalize"
	"sealevel/internal/ratelimit"
)

// HTTPTable fetches a CSV or JSON table with a plain GET.
type HTTPTable struct {
	url     string
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewHTTPTable creates a tabular source for url. A nil limiter disables rate limiting.
func NewHTTPTable(url string, client *resty.Client, limiter *ratelimit.Limiter) *HTTPTable {
	return &HTTPTable{
		url:     url,
		client:  client,
		limiter: limiter,
	}
}

// NewHTTPTables creates one source per URL, sharing client and limiter.
func NewHTTPTables(urls []string, client *resty.Client, limiter *ratelimit.Limiter) []fetcher.Source {
	sources := make([]fetcher.Source, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, NewHTTPTable(u, client, limiter))
	}
	return sources
}

// Fetch downloads and decodes the table.
func (s *HTTPTable) Fetch(ctx context.Context) (*normalize.Table, error) {
	if err := s.limiter.Wait(ctx, ratelimit.HostOf(s.url)); err != nil {
		return nil, fetcher.NewNetworkError(fmt.Errorf("rate limiter: %w", err))
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	table, err := normalize.Parse(resp.Header().Get("Content-Type"), resp.Bytes())
	if err != nil {
		return nil, fetcher.NewParseError("malformed tabular body", err)
	}
	return table, nil
}

// ID returns the source URL.
func (s *HTTPTable) ID() string {
	return s.url
}

func classifyTransportError(err error) *fetcher.FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return fetcher.NewTimeoutError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fetcher.NewTimeoutError(err)
	}
	return fetcher.NewNetworkError(err)
}
