package sources

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

// unimplementedTote is the shared shape behind Xpressbet, TAB, and
// NYRABets: each of those originals (xpressbet_adapter.py, tab_adapter.py,
// nyrabets_adapter.py) ships as a non-functional placeholder that logs a
// warning and returns no races rather than a working parser. These
// adapters register, report Unhealthy, and never produce a race, matching
// that upstream behavior exactly rather than inventing a parser for an
// API surface the original never reverse-engineered.
type unimplementedTote struct {
	adapter.Base
}

func newUnimplementedTote(source string, discipline models.Discipline, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) unimplementedTote {
	return unimplementedTote{Base: adapter.NewBase(source, adapter.Discovery, discipline, monitor, overrides, logger, requestsPerSecond)}
}

func (a *unimplementedTote) FetchData(_ context.Context, _ string) (string, error) {
	return "", apperrors.New(a.Source, apperrors.KindConfiguration, "adapter not implemented upstream", nil)
}

func (a *unimplementedTote) ParseRaces(_ string) ([]models.Race, error) {
	return []models.Race{}, nil
}

// Xpressbet is a non-functional stub, grounded on xpressbet_adapter.py.
type Xpressbet struct{ unimplementedTote }

func NewXpressbet(monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *Xpressbet {
	return &Xpressbet{newUnimplementedTote("Xpressbet", models.Thoroughbred, monitor, overrides, logger, requestsPerSecond)}
}

func (a *Xpressbet) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

// TAB is a non-functional stub, grounded on tab_adapter.py.
type TAB struct{ unimplementedTote }

func NewTAB(monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *TAB {
	return &TAB{newUnimplementedTote("TAB", models.Thoroughbred, monitor, overrides, logger, requestsPerSecond)}
}

func (a *TAB) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

// NYRABets is a non-functional stub, grounded on nyrabets_adapter.py.
type NYRABets struct{ unimplementedTote }

func NewNYRABets(monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *NYRABets {
	return &NYRABets{newUnimplementedTote("NYRABets", models.Thoroughbred, monitor, overrides, logger, requestsPerSecond)}
}

func (a *NYRABets) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}
