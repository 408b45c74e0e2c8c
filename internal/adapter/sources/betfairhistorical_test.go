package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

func newTestBetfairHistorical() *BetfairHistorical {
	return NewBetfairHistorical(nil, nil, manualoverride.New(time.Hour), testLogger(), 1, "app-key", "user", "pass")
}

const betfairCatalogueFixture = `[
  {
    "marketId": "1.234",
    "marketName": "R3 1m Mdn Stks",
    "marketStartTime": "2026-07-30T18:30:00Z",
    "event": {"venue": "Newmarket"},
    "runners": [
      {"selectionId": 111, "runnerName": "Open Runner", "sortPriority": 1, "status": "ACTIVE"},
      {"selectionId": 222, "runnerName": "Late Withdrawal", "sortPriority": 2, "status": "REMOVED"}
    ]
  }
]`

func TestBetfairHistorical_ParseRaces(t *testing.T) {
	a := newTestBetfairHistorical()
	races, err := a.ParseRaces(packDate("2026-07-30", betfairCatalogueFixture))
	require.NoError(t, err)
	require.Len(t, races, 1)

	race := races[0]
	assert.Equal(t, "Newmarket", race.Venue)
	assert.Equal(t, 3, race.RaceNumber)
	require.Len(t, race.Runners, 2)
	assert.False(t, race.Runners[0].Scratched)
	assert.True(t, race.Runners[1].Scratched)
	assert.Contains(t, race.ID, "bf_newmarket_")
}

func TestExtractBetfairRaceNumber(t *testing.T) {
	assert.Equal(t, 1, extractBetfairRaceNumber("R1 1m Mdn Stks"))
	assert.Equal(t, 12, extractBetfairRaceNumber("r12 2m Hcap"))
	assert.Equal(t, 0, extractBetfairRaceNumber("no race token"))
}
