// Package engine implements the tiered fetch orchestrator: fetch_all_odds
// fans out to every eligible adapter (healthy tier first, degraded tier as
// a backstop), merges what comes back through the deduplicator, and falls
// back to a stale cached snapshot when every live adapter fails.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/dedupe"
	"github.com/yourusername/raceintel/internal/models"
	"github.com/yourusername/raceintel/internal/stalecache"
)

const (
	DefaultCacheTTL             = 300 * time.Second
	DefaultMaxConcurrentFetches = 5
	DefaultMinRequiredAdapters  = 2
)

// Engine fans a date out to every registered discovery adapter and merges
// the result.
type Engine struct {
	adapters   map[string]adapter.Adapter
	monitor    *adaptermetrics.Monitor
	cache      *stalecache.Cache // short-TTL, keyed by (date, source_filter)
	staleCache *stalecache.Cache // long-lived, keyed by date only
	logger     *logrus.Entry

	cacheTTL              time.Duration
	maxConcurrentFetches  int
	minRequiredAdapters   int
}

// Option configures an Engine at construction.
type Option func(*Engine)

func WithCacheTTL(d time.Duration) Option           { return func(e *Engine) { e.cacheTTL = d } }
func WithMaxConcurrentFetches(n int) Option         { return func(e *Engine) { e.maxConcurrentFetches = n } }
func WithMinRequiredAdapters(n int) Option          { return func(e *Engine) { e.minRequiredAdapters = n } }

// New builds an Engine over the given adapters.
func New(adapters []adapter.Adapter, monitor *adaptermetrics.Monitor, logger *logrus.Entry, opts ...Option) *Engine {
	byName := make(map[string]adapter.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.SourceName()] = a
	}
	e := &Engine{
		adapters:             byName,
		monitor:              monitor,
		cache:                stalecache.New(DefaultCacheTTL),
		staleCache:           stalecache.New(stalecache.DefaultTTL),
		logger:               logger.WithField("component", "engine"),
		cacheTTL:             DefaultCacheTTL,
		maxConcurrentFetches: DefaultMaxConcurrentFetches,
		minRequiredAdapters:  DefaultMinRequiredAdapters,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Adapters returns every adapter registered with this Engine, for callers
// (the smoke-check, the scheduler's result feed) that need to iterate the
// full adapter set rather than go through FetchAllOdds.
func (e *Engine) Adapters() []adapter.Adapter {
	out := make([]adapter.Adapter, 0, len(e.adapters))
	for _, a := range e.adapters {
		out = append(out, a)
	}
	return out
}

func cacheKey(date string, sourceFilter []string) string {
	key := date
	sorted := append([]string(nil), sourceFilter...)
	sort.Strings(sorted)
	for _, s := range sorted {
		key += "|" + s
	}
	return key
}

// FetchAllOdds runs one tiered fetch cycle for date, optionally restricted
// to sourceFilter, and returns the merged AggregatedResponse.
func (e *Engine) FetchAllOdds(ctx context.Context, date string, sourceFilter []string) *AggregatedResponse {
	key := cacheKey(date, sourceFilter)
	if entry, ok := e.cache.Get(key); ok && entry.Age() < e.cacheTTL {
		if resp, ok := entry.Value.(*AggregatedResponse); ok {
			return resp
		}
	}

	eligible := e.eligibleAdapters(sourceFilter)
	names := make([]string, 0, len(eligible))
	for name := range eligible {
		names = append(names, name)
	}
	sort.Strings(names)

	healthyNames, degradedNames := e.monitor.OrderedByTier(names)

	results := make(map[string]SourceResult, len(eligible))
	var races []models.Race
	succeeded := 0

	tier1 := e.fetchTier(ctx, eligible, healthyNames, date)
	for name, tr := range tier1 {
		results[name] = tr.result
		races = append(races, tr.races...)
		if tr.result.Status == StatusSuccess {
			succeeded++
		}
	}

	if succeeded < e.minRequiredAdapters && len(degradedNames) > 0 {
		tier2 := e.fetchTier(ctx, eligible, degradedNames, date)
		for name, tr := range tier2 {
			results[name] = tr.result
			races = append(races, tr.races...)
			if tr.result.Status == StatusSuccess {
				succeeded++
			}
		}
	}

	if succeeded == 0 {
		if entry, ok := e.staleCache.Get(date); ok {
			if resp, ok := entry.Value.(*AggregatedResponse); ok {
				stale := *resp
				stale.DataFreshness = "stale"
				stale.Errors = append(append([]string(nil), stale.Errors...),
					"all adapters failed; serving cached snapshot from "+entry.WrittenAt.Format(time.RFC3339))
				return &stale
			}
		}
	}

	merged := dedupe.Merge(races)

	resp := &AggregatedResponse{
		Date:          date,
		Races:         merged,
		SourceInfo:    results,
		DataFreshness: "live",
		Metadata: map[string]any{
			"adapters_attempted": len(eligible),
			"adapters_succeeded": succeeded,
		},
	}

	if succeeded > 0 {
		e.cache.Put(key, resp)
		e.staleCache.Put(date, resp)
	}

	return resp
}

func (e *Engine) eligibleAdapters(sourceFilter []string) map[string]adapter.Adapter {
	if len(sourceFilter) == 0 {
		out := make(map[string]adapter.Adapter, len(e.adapters))
		for name, a := range e.adapters {
			if a.AdapterType() == adapter.Discovery {
				out[name] = a
			}
		}
		return out
	}
	allow := make(map[string]bool, len(sourceFilter))
	for _, s := range sourceFilter {
		allow[s] = true
	}
	out := make(map[string]adapter.Adapter)
	for name, a := range e.adapters {
		if allow[name] && a.AdapterType() == adapter.Discovery {
			out[name] = a
		}
	}
	return out
}

type tierResult struct {
	result SourceResult
	races  []models.Race
}

// fetchTier invokes each named adapter concurrently, bounded by
// maxConcurrentFetches, via fetchOneWithSemaphore.
func (e *Engine) fetchTier(ctx context.Context, eligible map[string]adapter.Adapter, names []string, date string) map[string]tierResult {
	sem := make(chan struct{}, e.maxConcurrentFetches)
	var wg sync.WaitGroup
	var mu sync.Mutex
	out := make(map[string]tierResult, len(names))

	for _, name := range names {
		a, ok := eligible[name]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(a adapter.Adapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			races, result := e.fetchOneWithSemaphore(ctx, a, date)
			mu.Lock()
			out[a.SourceName()] = tierResult{result: result, races: races}
			mu.Unlock()
		}(a)
	}
	wg.Wait()
	return out
}

// fetchOneWithSemaphore invokes a single adapter, times it, and classifies
// any failure into a reportable SourceResult. On failure it returns no races
// and reports the failure only through the SourceResult; no
// is_error_placeholder race is built.
func (e *Engine) fetchOneWithSemaphore(ctx context.Context, a adapter.Adapter, date string) ([]models.Race, SourceResult) {
	start := time.Now()
	races, err := a.GetRaces(ctx, date)
	duration := float64(time.Since(start).Milliseconds())

	if err == nil {
		e.logger.WithField("adapter", a.SourceName()).WithField("races", len(races)).Debug("fetch succeeded")
		return races, SourceResult{Status: StatusSuccess, RacesFetched: len(races), FetchDurationMs: duration}
	}

	result := SourceResult{Status: StatusFailed, FetchDurationMs: duration, ErrorMessage: err.Error()}
	var adapterErr *apperrors.AdapterError
	if errors.As(err, &adapterErr) {
		result.AttemptedURL = adapterErr.URL
	}
	e.logger.WithField("adapter", a.SourceName()).WithError(err).Warn("fetch failed")
	return nil, result
}
