package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

const tvgDetailFixture = `[
  {
    "track": {"name": "Gulfstream Park"},
    "race": {"number": 4, "postTime": "2026-07-30T18:45:00Z"},
    "runners": [
      {"programNumber": "1A", "name": "Coupled Entry", "scratched": false, "odds": {"currentPrice": {"fractional": "5/2"}}},
      {"programNumber": "2", "name": "Sidelined Colt", "scratched": true, "odds": {"currentPrice": {"fractional": "9/2"}}}
    ]
  }
]`

func TestTVG_ParseRaces(t *testing.T) {
	a := NewTVG(nil, "api-key", nil, manualoverride.New(time.Hour), testLogger(), 1)
	races, err := a.ParseRaces(tvgDetailFixture)
	require.NoError(t, err)
	require.Len(t, races, 1)

	race := races[0]
	assert.Equal(t, "Gulfstream Park", race.Venue)
	assert.Equal(t, 4, race.RaceNumber)
	require.Len(t, race.Runners, 1)
	assert.Equal(t, 1, race.Runners[0].Number)
	assert.Equal(t, "Coupled Entry", race.Runners[0].Name)
}
