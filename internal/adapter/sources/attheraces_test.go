package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

func newTestAtTheRaces() *AtTheRaces {
	return NewAtTheRaces(nil, nil, manualoverride.New(time.Hour), testLogger(), 1)
}

const atTheRacesFixture = `<html><body>
<div class="racecard">
  <h1><a href="/racecourses/ascot/">Ascot</a> <span>14:30</span></h1>
  <a href="/racecard/Ascot/2026-07-30/1430">card</a>
  <div class="horse-in-racecard">
    <span class="runner-number">1</span>
    <span class="runner-name">Swift Arrow</span>
    <span class="runner-price">5/2</span>
  </div>
  <div class="horse-in-racecard">
    <span class="runner-number">2</span>
    <span class="runner-name">Lucky Stride</span>
    <span class="runner-price">Evens</span>
  </div>
</div>
</body></html>`

func TestAtTheRaces_ParseRaces(t *testing.T) {
	a := newTestAtTheRaces()
	races, err := a.ParseRaces(packDate("2026-07-30", atTheRacesFixture))
	require.NoError(t, err)
	require.Len(t, races, 1)

	race := races[0]
	assert.Equal(t, "Ascot", race.Venue)
	require.Len(t, race.Runners, 2)
	assert.Equal(t, "Swift Arrow", race.Runners[0].Name)

	win, ok := race.Runners[0].Odds["AtTheRaces"]
	require.True(t, ok)
	got, _ := win.Win.Float64()
	assert.InDelta(t, 3.5, got, 0.001)
}

func TestAtTheRaces_ParseRaces_MissingDatePrefix(t *testing.T) {
	a := newTestAtTheRaces()
	_, err := a.ParseRaces("no newline at all")
	assert.Error(t, err)
}
