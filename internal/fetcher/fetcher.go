// Package fetcher implements the engine-abstracted HTTP layer: a Fetcher
// polymorphic over PlainHTTP, BrowserImpersonatingHTTP, Browser, and
// StealthBrowser engines, each tracked by a runtime health score that
// governs try-order and fallback.
package fetcher

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/raceintel/internal/apperrors"
)

// UnifiedResponse is the engine-agnostic result of a fetch.
type UnifiedResponse struct {
	Text       string
	Status     int
	URL        string
	Headers    map[string][]string
	EngineUsed string
}

// botBlockSignatures are the case-insensitive substrings that mark a
// response as a bot-block page rather than real content.
var botBlockSignatures = []string{
	"pardon our interruption",
	"checking your browser",
	"cloudflare",
	"access denied",
	"captcha",
	"please verify",
}

const botBlockMaxBodyLen = 10 * 1024

// IsBotBlock reports whether a 2xx response looks like a bot-block page:
// short body containing a recognized challenge signature.
func IsBotBlock(status int, body string) bool {
	if status < 200 || status >= 300 {
		return false
	}
	if len(body) >= botBlockMaxBodyLen {
		return false
	}
	lower := strings.ToLower(body)
	for _, sig := range botBlockSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// FetchOptions carries the request shape plus the optional browser-only
// kwargs a StealthBrowser/Browser engine may honor and a plain engine strips.
type FetchOptions struct {
	Method  string
	Body    string
	Headers map[string]string
	Timeout time.Duration
	Kwargs  map[string]any
}

// Engine is one fetch strategy. Health starts at an engine-specific default
// and is nudged up on success, down on failure, by the Fetcher.
type Engine interface {
	Name() string
	Do(ctx context.Context, url string, opts FetchOptions) (UnifiedResponse, error)
}

type engineState struct {
	engine Engine
	health float64
}

// Fetcher tries its engines in descending health order, pinning a
// per-adapter preferred engine to the front when supplied.
type Fetcher struct {
	mu      sync.Mutex
	engines []*engineState
}

// New returns a Fetcher with the given engines registered, each starting at
// its own default health score.
func New(engines ...Engine) *Fetcher {
	f := &Fetcher{}
	for _, e := range engines {
		health := 0.5
		if h, ok := DefaultHealth[e.Name()]; ok {
			health = h
		}
		f.engines = append(f.engines, &engineState{engine: e, health: health})
	}
	return f
}

// Register adds an engine with an explicit starting health score.
func (f *Fetcher) Register(e Engine, startHealth float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engines = append(f.engines, &engineState{engine: e, health: startHealth})
}

// HealthOf returns the current health score for a named engine, if registered.
func (f *Fetcher) HealthOf(name string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.engines {
		if s.engine.Name() == name {
			return s.health, true
		}
	}
	return 0, false
}

func (f *Fetcher) orderedEngines(preferred string) []*engineState {
	f.mu.Lock()
	defer f.mu.Unlock()

	ordered := make([]*engineState, len(f.engines))
	copy(ordered, f.engines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].health > ordered[j].health
	})
	if preferred == "" {
		return ordered
	}
	for i, s := range ordered {
		if s.engine.Name() == preferred {
			ordered = append(ordered[:i], ordered[i+1:]...)
			ordered = append([]*engineState{s}, ordered...)
			break
		}
	}
	return ordered
}

func (f *Fetcher) adjust(name string, delta float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.engines {
		if s.engine.Name() != name {
			continue
		}
		s.health += delta
		if s.health > 1.0 {
			s.health = 1.0
		}
		if s.health < 0.0 {
			s.health = 0.0
		}
		return
	}
}

// Fetch tries engines in descending health order (preferred pinned first),
// returning the first success and raising that engine's health, or lowering
// every failing engine's health and returning a network-kind AdapterError
// carrying the URL if all fail.
func (f *Fetcher) Fetch(ctx context.Context, url, preferredEngine string, opts FetchOptions) (UnifiedResponse, error) {
	ordered := f.orderedEngines(preferredEngine)
	if len(ordered) == 0 {
		return UnifiedResponse{}, apperrors.ErrNoEnginesAvailable
	}

	var lastErr error
	for _, s := range ordered {
		resp, err := s.engine.Do(ctx, url, opts)
		if err != nil {
			f.adjust(s.engine.Name(), -0.2)
			lastErr = err
			continue
		}
		if IsBotBlock(resp.Status, resp.Text) {
			f.adjust(s.engine.Name(), -0.2)
			lastErr = apperrors.ErrBotBlocked
			continue
		}
		f.adjust(s.engine.Name(), 0.1)
		resp.EngineUsed = s.engine.Name()
		return resp, nil
	}

	return UnifiedResponse{}, apperrors.New("fetcher", apperrors.KindNetwork, "all engines failed", lastErr).WithURL(url)
}
