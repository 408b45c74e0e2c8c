// Package circuit wraps sony/gobreaker with the Closed/Open/Half-Open
// vocabulary and thresholds the resilience layer is specified against:
// five consecutive failures trip the breaker, it stays open for a 60s
// cooldown, and exactly one probe request is allowed through while
// half-open.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// State mirrors gobreaker's internal state names with the vocabulary used
// elsewhere in this codebase.
type State string

const (
	Closed   State = "Closed"
	Open     State = "Open"
	HalfOpen State = "HalfOpen"
)

// FailureThreshold is the number of consecutive failures that trips a breaker.
const FailureThreshold = 5

// Cooldown is how long a breaker stays Open before allowing a probe request.
const Cooldown = 60 * time.Second

// ErrOpen is returned by Call when the breaker is Open and refusing requests.
var ErrOpen = gobreaker.ErrOpenState

// Breaker is a per-adapter circuit breaker.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
	mu   sync.Mutex
}

// New constructs a Breaker for the given adapter name using the standard
// five-failure / 60s-cooldown / single-probe configuration.
func New(name string) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= FailureThreshold
		},
	}
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the breaker's current state in this package's vocabulary.
func (b *Breaker) State() State {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return Open
	case gobreaker.StateHalfOpen:
		return HalfOpen
	default:
		return Closed
	}
}

// Allow reports whether a request may proceed without actually recording
// an outcome; used by adapter.Base to short-circuit before acquiring a
// rate-limiter token when the breaker is Open.
func (b *Breaker) Allow() bool {
	return b.State() != Open
}

// Call executes fn through the breaker, recording success or failure.
func (b *Breaker) Call(_ context.Context, fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		return ErrOpen
	}
	return err
}

// Name returns the adapter name this breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// Registry keeps one Breaker per adapter name, created lazily on first use.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry returns an empty breaker Registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*Breaker)}
}

// For returns the Breaker for the given adapter name, creating it on first use.
func (r *Registry) For(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		return b
	}
	b := New(name)
	r.breakers[name] = b
	return b
}
