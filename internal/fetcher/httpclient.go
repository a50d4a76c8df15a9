package fetcher

import (
	"time"

	"resty.dev/v3"
)

const (
	// DefaultTimeout bounds a single source request.
	DefaultTimeout = 10 * time.Second

	userAgent = "sealevel-dashboard/1.0"
)

// NewHTTPClient creates the HTTP client shared by all tabular sources.
// Retries are not delegated to resty: each resolver applies its RetryPolicy
// around whole fetch-and-parse attempts.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv, application/json;q=0.9, */*;q=0.8").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	return client
}
