// Package adapter defines the uniform per-source scraper contract and the
// resilience orchestration every concrete adapter gets for free by
// embedding Base, replacing the source's mixin-heavy inheritance
// (BrowserHeadersMixin, JSONParsingMixin, DebugMixin, RacePageFetcherMixin)
// with a single interface plus composable helpers.
package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/circuit"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/metrics"
	"github.com/yourusername/raceintel/internal/models"
	"github.com/yourusername/raceintel/internal/ratelimit"
)

// Type is the closed set of adapter roles.
type Type string

const (
	Discovery Type = "discovery"
	Results   Type = "results"
)

// Scraper is the pair of abstract subroutines the framework calls:
// FetchData performs network I/O and may fail; ParseRaces is pure.
type Scraper interface {
	FetchData(ctx context.Context, date string) (raw string, err error)
	ParseRaces(raw string) ([]models.Race, error)
}

// Adapter is the contract every concrete source implements. GetRaces never
// panics and always returns a non-nil slice; err is non-nil only to let the
// engine's fetch_one_with_semaphore classify and report the failure — a
// failed adapter still yields an empty, not absent, race list.
type Adapter interface {
	SourceName() string
	AdapterType() Type
	GetRaces(ctx context.Context, date string) ([]models.Race, error)
}

// ResultScraper is the Results-type counterpart to Scraper: FetchData is
// shared, ParseResults yields finishing positions and exotic payouts
// instead of odds.
type ResultScraper interface {
	FetchData(ctx context.Context, date string) (raw string, err error)
	ParseResults(raw string) ([]models.ResultRace, error)
}

// ResultsSource is implemented by the subset of Results-type adapters that
// expose finish-line data, for the auditor to match predictions against.
// Most Results-type adapters only narrow GetRaces to a confirmation role;
// a ResultsSource additionally yields judged ResultRace data.
type ResultsSource interface {
	GetResultRaces(ctx context.Context, date string) ([]models.ResultRace, error)
}

// Base orchestrates circuit-breaking, rate-limiting, manual-override
// fallback, post-parse validation, and metrics recording around a Scraper.
// Concrete adapters embed Base and call base.Run with themselves as the
// Scraper.
type Base struct {
	Source          string
	Type            Type
	Discipline      models.Discipline
	PreferredEngine string

	Breaker   *circuit.Breaker
	Limiter   *ratelimit.Limiter
	Monitor   *adaptermetrics.Monitor
	Overrides *manualoverride.Manager
	Logger    *logrus.Entry
}

// NewBase constructs a Base with fresh per-adapter resilience primitives.
func NewBase(source string, adapterType Type, discipline models.Discipline, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) Base {
	return Base{
		Source:     source,
		Type:       adapterType,
		Discipline: discipline,
		Breaker:    circuit.New(source),
		Limiter:    ratelimit.New(source, requestsPerSecond),
		Monitor:    monitor,
		Overrides:  overrides,
		Logger:     logger.WithField("adapter", source),
	}
}

func (b *Base) SourceName() string { return b.Source }
func (b *Base) AdapterType() Type  { return b.Type }

// Run executes the full per-source fetch lifecycle against scraper:
// circuit-breaker gate, rate-limit acquire, fetch, parse, post-parse
// validation, metrics update. Always returns a non-nil slice; a non-nil
// error means the cycle produced no races and why.
func (b *Base) Run(ctx context.Context, date string, scraper Scraper) ([]models.Race, error) {
	if b.Breaker != nil && !b.Breaker.Allow() {
		b.Logger.Debug("circuit open, skipping fetch")
		return []models.Race{}, apperrors.ErrCircuitOpen
	}

	if b.Limiter != nil {
		if err := b.Limiter.Acquire(ctx); err != nil {
			b.Logger.WithError(err).Debug("rate limiter wait cancelled")
			return []models.Race{}, err
		}
	}

	// Prefer a manually-supplied page over a live fetch when one is pending.
	if html, ok := b.Overrides.TakeForDate(b.Source, date); ok {
		races, err := scraper.ParseRaces(html)
		if err != nil {
			b.Logger.WithError(err).Warn("failed parsing manually supplied override")
			return []models.Race{}, err
		}
		return b.postParseValidate(races), nil
	}

	start := time.Now()
	var raw string
	err := b.Breaker.Call(ctx, func() error {
		var ferr error
		raw, ferr = scraper.FetchData(ctx, date)
		return ferr
	})
	latencyMs := float64(time.Since(start).Milliseconds())

	if err != nil {
		b.handleFetchFailure(err, latencyMs, date)
		return []models.Race{}, err
	}

	races, perr := scraper.ParseRaces(raw)
	if perr != nil {
		b.Monitor.RecordFailure(b.Source, latencyMs, perr.Error())
		b.Logger.WithError(perr).Warn("parse failed")
		return []models.Race{}, perr
	}

	b.Monitor.RecordSuccess(b.Source, latencyMs)
	return b.postParseValidate(races), nil
}

// RunResults mirrors Run's resilience orchestration for a ResultScraper,
// producing judged ResultRace data instead of pre-race odds.
func (b *Base) RunResults(ctx context.Context, date string, scraper ResultScraper) ([]models.ResultRace, error) {
	if b.Breaker != nil && !b.Breaker.Allow() {
		b.Logger.Debug("circuit open, skipping results fetch")
		return []models.ResultRace{}, apperrors.ErrCircuitOpen
	}

	if b.Limiter != nil {
		if err := b.Limiter.Acquire(ctx); err != nil {
			b.Logger.WithError(err).Debug("rate limiter wait cancelled")
			return []models.ResultRace{}, err
		}
	}

	if html, ok := b.Overrides.TakeForDate(b.Source, date); ok {
		results, err := scraper.ParseResults(html)
		if err != nil {
			b.Logger.WithError(err).Warn("failed parsing manually supplied results override")
			return []models.ResultRace{}, err
		}
		return results, nil
	}

	start := time.Now()
	var raw string
	err := b.Breaker.Call(ctx, func() error {
		var ferr error
		raw, ferr = scraper.FetchData(ctx, date)
		return ferr
	})
	latencyMs := float64(time.Since(start).Milliseconds())

	if err != nil {
		b.handleFetchFailure(err, latencyMs, date)
		return []models.ResultRace{}, err
	}

	results, perr := scraper.ParseResults(raw)
	if perr != nil {
		b.Monitor.RecordFailure(b.Source, latencyMs, perr.Error())
		b.Logger.WithError(perr).Warn("results parse failed")
		return []models.ResultRace{}, perr
	}

	b.Monitor.RecordSuccess(b.Source, latencyMs)
	return results, nil
}

func (b *Base) handleFetchFailure(err error, latencyMs float64, date string) {
	if errors.Is(err, circuit.ErrOpen) {
		metrics.RecordCircuitBreakerTrip(b.Source)
		b.Monitor.RecordFailure(b.Source, latencyMs, "circuit open")
		return
	}

	var adapterErr *apperrors.AdapterError
	reason := err.Error()
	if errors.As(err, &adapterErr) {
		reason = adapterErr.Error()
		if adapterErr.URL != "" {
			b.Overrides.Register(b.Source, adapterErr.URL, date)
		}
	}
	b.Monitor.RecordFailure(b.Source, latencyMs, reason)
	b.Logger.WithError(err).Warn("fetch failed")
}
