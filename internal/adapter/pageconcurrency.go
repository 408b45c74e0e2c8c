package adapter

import (
	"context"
	"math/rand"
	"time"
)

const (
	staggerMin = 500 * time.Millisecond
	staggerMax = 1500 * time.Millisecond
)

// PageLimiter bounds how many pages of a single multi-page source an
// adapter fetches concurrently, and staggers each acquisition by a random
// delay so a single adapter's page fan-out doesn't read as a burst to the
// origin server. This replaces the per-source page-fetching mixin with a
// small composable helper any adapter can embed.
type PageLimiter struct {
	sem chan struct{}
	rnd *rand.Rand
}

// NewPageLimiter returns a PageLimiter allowing at most maxConcurrent pages
// in flight at once.
func NewPageLimiter(maxConcurrent int) *PageLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &PageLimiter{
		sem: make(chan struct{}, maxConcurrent),
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Acquire blocks until a page slot is free, then sleeps a random stagger
// delay in [0.5s, 1.5s) before returning. Call Release when the page fetch
// completes.
func (p *PageLimiter) Acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	delay := staggerMin + time.Duration(p.rnd.Int63n(int64(staggerMax-staggerMin)))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		<-p.sem
		return ctx.Err()
	}
}

// Release frees a page slot acquired via Acquire.
func (p *PageLimiter) Release() {
	<-p.sem
}
