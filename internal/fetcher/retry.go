package fetcher

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds how often a single source is retried before the
// resolver moves on to the next candidate. Only retryable errors are retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first. Values below 1 mean 1.
	MaxAttempts int
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// Backoff doubles the delay after every failed retry when set; otherwise the delay is fixed.
	Backoff bool
	// MaxDelay caps the backoff delay. Zero means no cap.
	MaxDelay time.Duration
}

// NoRetry is a policy that tries exactly once.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// Attempts returns the effective number of tries.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Wait returns the delay before the given retry (1 = first retry).
func (p RetryPolicy) Wait(retry int) time.Duration {
	if retry < 1 || p.Delay <= 0 {
		return 0
	}
	d := p.Delay
	if p.Backoff {
		for i := 1; i < retry; i++ {
			d *= 2
			if p.MaxDelay > 0 && d >= p.MaxDelay {
				return p.MaxDelay
			}
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// run out, or ctx is done. It returns the last error seen.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= p.Attempts(); attempt++ {
		if attempt > 1 {
			wait := p.Wait(attempt - 1)
			slog.Debug("retrying source request",
				"attempt", attempt,
				"wait", wait,
				"error", err.Error())
			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return err
				case <-timer.C:
				}
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
