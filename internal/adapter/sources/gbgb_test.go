package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

const gbgbFixture = `[
  {
    "trackName": "Romford",
    "races": [
      {
        "raceId": "gbgb-1",
        "raceNumber": 2,
        "raceTime": "2026-07-30T19:12:00Z",
        "traps": [
          {"trapNumber": 1, "dogName": "Fast Eddie", "sp": "7/4"},
          {"trapNumber": 2, "dogName": "Quiet Storm", "sp": "EVS"}
        ]
      }
    ]
  }
]`

func TestGBGB_ParseRaces(t *testing.T) {
	a := NewGBGB(nil, nil, manualoverride.New(time.Hour), testLogger(), 1)
	races, err := a.ParseRaces(gbgbFixture)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "Romford", races[0].Venue)
	require.Len(t, races[0].Runners, 2)

	win, ok := races[0].Runners[0].Odds["GBGB"]
	require.True(t, ok)
	got, _ := win.Win.Float64()
	assert.InDelta(t, 2.75, got, 0.001)
}
