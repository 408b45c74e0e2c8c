package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

const rasFeedFixture = `{
  "meetings": [
    {
      "venueName": "Randwick",
      "races": [
        {
          "raceId": "ras-1",
          "raceNumber": 5,
          "startTime": "2026-07-30T04:10:00Z",
          "runners": [
            {"runnerNumber": 1, "horseName": "Harbour Light", "isScratched": false},
            {"runnerNumber": 2, "horseName": "Bay Runner", "isScratched": true}
          ]
        }
      ]
    }
  ]
}`

func TestRacingAndSports_ParseRaces(t *testing.T) {
	a := NewRacingAndSports(nil, "token", nil, manualoverride.New(time.Hour), testLogger(), 1)
	races, err := a.ParseRaces(rasFeedFixture)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "Randwick", races[0].Venue)
	assert.Equal(t, models.Thoroughbred, races[0].Discipline)
	assert.Contains(t, races[0].ID, "ras_randwick_")
}

func TestRacingAndSportsGreyhound_ParseRaces(t *testing.T) {
	a := NewRacingAndSportsGreyhound(nil, "token", nil, manualoverride.New(time.Hour), testLogger(), 1)
	races, err := a.ParseRaces(rasFeedFixture)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, models.Greyhound, races[0].Discipline)
	assert.Contains(t, races[0].ID, "rasg_randwick_")
}
