package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter spaces out requests per source host.
// Every host gets its own token bucket, created on first use.
type Limiter struct {
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter allowing perSecond requests per host with the given burst.
// A perSecond of zero or less disables limiting.
func New(perSecond float64, burst int) *Limiter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Unlimited returns a limiter that never blocks.
func Unlimited() *Limiter {
	return New(0, 1)
}

// HostOf extracts the host used as limiter key from a source URL.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func (l *Limiter) get(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[host]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists = l.limiters[host]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.limit, l.burst)
	l.limiters[host] = limiter
	return limiter
}

// Wait blocks until the limiter permits a request to host.
// It returns an error if the context is canceled before the request can proceed.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if l == nil {
		return nil
	}
	return l.get(host).Wait(ctx)
}

// Allow reports whether a request to host may happen now.
func (l *Limiter) Allow(host string) bool {
	if l == nil {
		return true
	}
	return l.get(host).Allow()
}
