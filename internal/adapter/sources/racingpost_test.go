package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

func newTestRacingPost() *RacingPost {
	return NewRacingPost(nil, "test-key", nil, manualoverride.New(time.Hour), testLogger(), 1)
}

const racingPostFixture = `[
  {
    "id": "rp-1",
    "venueName": "Ascot",
    "scheduledTime": "2026-07-30T14:30:00+01:00",
    "raceNumber": 3,
    "runners": [
      {"id": "r1", "saddleClothNumber": 1, "name": "Swift Arrow", "winOdds": "5/2", "nonRunner": false},
      {"id": "r2", "saddleClothNumber": 2, "name": "Lucky Stride", "winOdds": "Evens", "nonRunner": false},
      {"id": "r3", "saddleClothNumber": 3, "name": "Withdrawn Star", "winOdds": null, "nonRunner": true}
    ]
  }
]`

func TestRacingPost_ParseRaces(t *testing.T) {
	a := newTestRacingPost()
	races, err := a.ParseRaces(racingPostFixture)
	require.NoError(t, err)
	require.Len(t, races, 1)

	race := races[0]
	assert.Equal(t, "Ascot", race.Venue)
	assert.Equal(t, 3, race.RaceNumber)
	require.Len(t, race.Runners, 3)

	win, ok := race.Runners[0].Odds["RacingPost"]
	require.True(t, ok)
	got, _ := win.Win.Float64()
	assert.InDelta(t, 3.5, got, 0.001)

	assert.True(t, race.Runners[2].Scratched)
	assert.Contains(t, race.ID, "rp_ascot_")
}

func TestRacingPost_ParseRaces_InvalidJSON(t *testing.T) {
	a := newTestRacingPost()
	_, err := a.ParseRaces("not json")
	assert.Error(t, err)
}
