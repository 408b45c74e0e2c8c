package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

func newTestHarness() *Harness {
	return NewHarness(nil, nil, manualoverride.New(time.Hour), testLogger(), 1)
}

const harnessFixture = `<html><body>
<div class="racing-results-ex-wrap">
<div>
<h4 class="track-name">Woodbine Mohawk*</h4>
<pre>
1 -- Post Time: 7:05 PM
1 Swift Pacer 5/2
2 Night Runner EVEN
</pre>
</div>
</div>
</body></html>`

func TestHarness_ParseRaces(t *testing.T) {
	a := newTestHarness()
	races, err := a.ParseRaces(packDate("2026-07-30", harnessFixture))
	require.NoError(t, err)
	require.Len(t, races, 1)

	race := races[0]
	assert.Equal(t, "Woodbine Mohawk", race.Venue)
	assert.Equal(t, 1, race.RaceNumber)
	assert.Equal(t, 19, race.StartTime.Hour())
	require.Len(t, race.Runners, 2)
	assert.Equal(t, "Swift Pacer", race.Runners[0].Name)

	win, ok := race.Runners[1].Odds["StandardbredCanada"]
	require.True(t, ok)
	got, _ := win.Win.Float64()
	assert.InDelta(t, 2.0, got, 0.001)
}
