// Package ratelimit provides the per-adapter token-bucket limiter the
// resilience layer uses to keep each data source's request rate under its
// configured ceiling.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is used when an adapter's config leaves the
// rate unset.
const DefaultRequestsPerSecond = 10.0

// Limiter wraps golang.org/x/time/rate with the refill-equals-capacity
// token bucket described for per-adapter rate limiting: capacity and refill
// rate are the same value, so a burst can exhaust an adapter's allowance
// but it recovers at a steady pace.
type Limiter struct {
	name    string
	limiter *rate.Limiter
}

// New returns a Limiter for the given adapter name with the supplied
// requests-per-second ceiling.
func New(name string, requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Acquire blocks until a token is available or ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Name returns the adapter name this limiter was built for.
func (l *Limiter) Name() string {
	return l.name
}

// Registry keeps one Limiter per adapter name, created lazily on first use.
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	rps      float64
}

// NewRegistry returns a Registry that creates limiters with the given
// default requests-per-second when first asked for by name.
func NewRegistry(defaultRPS float64) *Registry {
	return &Registry{limiters: make(map[string]*Limiter), rps: defaultRPS}
}

// For returns the Limiter for the given adapter name, creating it on first use.
func (r *Registry) For(name string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[name]; ok {
		return l
	}
	l := New(name, r.rps)
	r.limiters[name] = l
	return l
}
