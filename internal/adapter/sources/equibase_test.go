package sources

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/manualoverride"
)

func newTestEquibase() *Equibase {
	return NewEquibase(nil, nil, manualoverride.New(time.Hour), testLogger(), 1)
}

func equibaseRacePage(raceNumber, horseRow string) string {
	return `<html><body>
<div class="track-information"><strong>Saratoga</strong></div>
<div class="race-information"><strong>Race ` + raceNumber + `</strong></div>
<p class="post-time"><span>Post Time: 1:05 PM ET</span></p>
<table class="entries-table"><tbody>
` + horseRow + `
</tbody></table>
</body></html>`
}

func TestEquibase_ParseRaces_MultiPage(t *testing.T) {
	rowWin := `<tr><td>1</td><td></td><td>Derby Flash</td><td></td><td></td><td></td><td></td><td></td><td></td><td>3/1</td></tr>`
	rowScratch := `<tr class="scratched"><td>2</td><td></td><td>Benched Colt</td><td></td><td></td><td></td><td></td><td></td><td></td><td>-</td></tr>`
	page1 := equibaseRacePage("1", rowWin+rowScratch)
	page2 := equibaseRacePage("2", rowWin)

	raw := packDate("2026-07-30", strings.Join([]string{page1, page2}, pageDelimiter))

	a := newTestEquibase()
	races, err := a.ParseRaces(raw)
	require.NoError(t, err)
	require.Len(t, races, 2)

	assert.Equal(t, 1, races[0].RaceNumber)
	assert.Equal(t, "Saratoga", races[0].Venue)
	require.Len(t, races[0].Runners, 2)
	assert.False(t, races[0].Runners[0].Scratched)
	assert.True(t, races[0].Runners[1].Scratched)

	win, ok := races[0].Runners[0].Odds["Equibase"]
	require.True(t, ok)
	got, _ := win.Win.Float64()
	assert.InDelta(t, 4.0, got, 0.001)

	assert.Equal(t, 2, races[1].RaceNumber)
}

func TestParseEquibasePostTime(t *testing.T) {
	start, err := parseEquibasePostTime("2026-07-30", "Post Time: 1:05 PM ET")
	require.NoError(t, err)
	assert.Equal(t, 13, start.Hour())
	assert.Equal(t, 5, start.Minute())
}
