package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/models"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type stubAdapter struct {
	name  string
	races []models.Race
	err   error
}

func (s *stubAdapter) SourceName() string      { return s.name }
func (s *stubAdapter) AdapterType() adapter.Type { return adapter.Discovery }
func (s *stubAdapter) GetRaces(_ context.Context, _ string) ([]models.Race, error) {
	return s.races, s.err
}

func sampleRace(venue, source string) models.Race {
	return models.Race{
		Venue:      venue,
		RaceNumber: 1,
		StartTime:  time.Date(2026, 7, 30, 19, 0, 0, 0, time.UTC),
		Source:     source,
		Runners:    []models.Runner{models.NewRunner("Alpha", 1), models.NewRunner("Beta", 2)},
	}
}

func TestEngine_MergesSuccessfulAdapters(t *testing.T) {
	a1 := &stubAdapter{name: "attheraces", races: []models.Race{sampleRace("Aqueduct", "attheraces")}}
	a2 := &stubAdapter{name: "timeform", races: []models.Race{sampleRace("Aqueduct", "timeform")}}

	e := New([]adapter.Adapter{a1, a2}, adaptermetrics.New(), testLogger())
	resp := e.FetchAllOdds(context.Background(), "2026-07-30", nil)

	require.Len(t, resp.Races, 1)
	assert.Equal(t, "live", resp.DataFreshness)
	assert.Equal(t, StatusSuccess, resp.SourceInfo["attheraces"].Status)
	assert.Equal(t, StatusSuccess, resp.SourceInfo["timeform"].Status)
}

func TestEngine_FallsBackToStaleCacheWhenAllFail(t *testing.T) {
	live := &stubAdapter{name: "attheraces", races: []models.Race{sampleRace("Aqueduct", "attheraces")}}
	e := New([]adapter.Adapter{live}, adaptermetrics.New(), testLogger(), WithMinRequiredAdapters(1))

	first := e.FetchAllOdds(context.Background(), "2026-07-30", nil)
	require.Len(t, first.Races, 1)

	failing := &stubAdapter{name: "attheraces", err: apperrors.New("attheraces", apperrors.KindNetwork, "down", nil)}
	e2 := New([]adapter.Adapter{failing}, adaptermetrics.New(), testLogger())
	e2.staleCache = e.staleCache // share the populated stale cache

	second := e2.FetchAllOdds(context.Background(), "2026-07-30", nil)
	assert.Equal(t, "stale", second.DataFreshness)
	assert.Len(t, second.Races, 1)
}

func TestEngine_ReportsAttemptedURLOnFailure(t *testing.T) {
	failing := &stubAdapter{name: "tvg", err: apperrors.New("tvg", apperrors.KindNetwork, "boom", nil).WithURL("http://tvg.test/card")}
	e := New([]adapter.Adapter{failing}, adaptermetrics.New(), testLogger())

	resp := e.FetchAllOdds(context.Background(), "2026-07-30", nil)
	assert.Equal(t, StatusFailed, resp.SourceInfo["tvg"].Status)
	assert.Equal(t, "http://tvg.test/card", resp.SourceInfo["tvg"].AttemptedURL)
}

func TestEngine_SourceFilterRestrictsAdapters(t *testing.T) {
	a1 := &stubAdapter{name: "attheraces", races: []models.Race{sampleRace("Aqueduct", "attheraces")}}
	a2 := &stubAdapter{name: "timeform", races: []models.Race{sampleRace("Aqueduct", "timeform")}}
	e := New([]adapter.Adapter{a1, a2}, adaptermetrics.New(), testLogger())

	resp := e.FetchAllOdds(context.Background(), "2026-07-30", []string{"attheraces"})
	_, hasOther := resp.SourceInfo["timeform"]
	assert.False(t, hasOther)
	assert.Contains(t, resp.SourceInfo, "attheraces")
}
