package adapter

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestBase(source string) *Base {
	b := NewBase(source, Discovery, models.Thoroughbred, adaptermetrics.New(), manualoverride.New(time.Hour), testLogger(), 1000)
	return &b
}

type stubScraper struct {
	raw       string
	fetchErr  error
	parseErr  error
	races     []models.Race
	fetchCall int
}

func (s *stubScraper) FetchData(_ context.Context, _ string) (string, error) {
	s.fetchCall++
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	return s.raw, nil
}

func (s *stubScraper) ParseRaces(_ string) ([]models.Race, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	return s.races, nil
}

func sampleRace() models.Race {
	r1 := models.NewRunner("Alpha", 1)
	r1.Odds["x"] = models.OddsDataFromFloat(3.5)
	r2 := models.NewRunner("Beta", 2)
	r2.Odds["x"] = models.OddsDataFromFloat(5.0)
	return models.Race{
		Venue:      "Aqueduct",
		RaceNumber: 1,
		StartTime:  time.Now(),
		Runners:    []models.Runner{r1, r2},
		Discipline: models.Thoroughbred,
	}
}

func TestBase_Run_Success(t *testing.T) {
	b := newTestBase("testsource")
	scraper := &stubScraper{races: []models.Race{sampleRace()}}

	races, err := b.Run(context.Background(), "2026-07-30", scraper)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, 2, races[0].FieldSize)
	assert.NotNil(t, races[0].Runners[0].WinOdds)
}

func TestBase_Run_DropsThinRaces(t *testing.T) {
	b := newTestBase("testsource")
	thin := sampleRace()
	thin.Runners = thin.Runners[:1]
	scraper := &stubScraper{races: []models.Race{thin}}

	races, err := b.Run(context.Background(), "2026-07-30", scraper)
	assert.NoError(t, err)
	assert.Empty(t, races)
}

func TestBase_Run_FetchFailureRegistersOverride(t *testing.T) {
	overrides := manualoverride.New(time.Hour)
	b := NewBase("testsource", Discovery, models.Thoroughbred, adaptermetrics.New(), overrides, testLogger(), 1000)

	scraper := &stubScraper{fetchErr: apperrors.New("testsource", apperrors.KindNetwork, "boom", nil).WithURL("http://example.test/card")}
	races, err := b.Run(context.Background(), "2026-07-30", scraper)
	assert.Error(t, err)
	assert.Empty(t, races)

	pending := overrides.List()
	require.Len(t, pending, 1)
	assert.Equal(t, "http://example.test/card", pending[0].URL)
}

func TestBase_Run_ConsumesManualOverride(t *testing.T) {
	overrides := manualoverride.New(time.Hour)
	overrides.Register("testsource", "http://example.test/card", "2026-07-30")
	overrides.Submit("testsource", "http://example.test/card", "2026-07-30", "<html>override</html>")

	b := NewBase("testsource", Discovery, models.Thoroughbred, adaptermetrics.New(), overrides, testLogger(), 1000)
	scraper := &stubScraper{races: []models.Race{sampleRace()}}

	races, err := b.Run(context.Background(), "2026-07-30", scraper)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, 0, scraper.fetchCall, "override should short-circuit the live fetch")
}

func TestReindexIfBogus(t *testing.T) {
	race := sampleRace()
	race.Runners[0].Number = 501
	race.Runners[1].Number = 502
	reindexIfBogus(&race)
	assert.Equal(t, 1, race.Runners[0].Number)
	assert.Equal(t, 2, race.Runners[1].Number)
}

func TestRaceID(t *testing.T) {
	start, err := time.Parse(time.RFC3339, "2026-07-30T19:05:00-04:00")
	require.NoError(t, err)
	id := RaceID("attheraces", "Aqueduct", start, 4, models.Thoroughbred)
	assert.Equal(t, "attheraces_aqueduct_20260730_1905_R4_t", id)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "great_yarmouth", Slug("Great Yarmouth"))
	assert.Equal(t, "aqueduct", Slug("  Aqueduct  "))
}
