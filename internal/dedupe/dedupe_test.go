package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/models"
)

func raceAt(venue string, number int, start time.Time, source string, runners ...models.Runner) models.Race {
	return models.Race{
		Venue:      venue,
		RaceNumber: number,
		StartTime:  start,
		Source:     source,
		Runners:    runners,
	}
}

func TestMerge_UnionsOddsForMatchingRunner(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)

	r1 := models.NewRunner("Alpha", 1)
	r1.Odds["attheraces"] = models.OddsDataFromFloat(3.5)
	race1 := raceAt("Aqueduct", 4, start, "attheraces", r1)

	r2 := models.NewRunner("Alpha", 1)
	r2.Odds["timeform"] = models.OddsDataFromFloat(4.0)
	race2 := raceAt("AQUEDUCT", 4, start, "timeform", r2)

	merged := Merge([]models.Race{race1, race2})
	require.Len(t, merged, 1)
	require.Len(t, merged[0].Runners, 1)
	assert.Len(t, merged[0].Runners[0].Odds, 2)
	assert.Equal(t, "attheraces,timeform", merged[0].Source)
}

func TestMerge_AppendsUnmatchedRunner(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)

	race1 := raceAt("Aqueduct", 4, start, "attheraces", models.NewRunner("Alpha", 1))
	race2 := raceAt("Aqueduct", 4, start, "timeform", models.NewRunner("Beta", 2))

	merged := Merge([]models.Race{race1, race2})
	require.Len(t, merged, 1)
	assert.Len(t, merged[0].Runners, 2)
}

func TestMerge_DistinctDedupKeysStaySeparate(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	other := time.Date(2026, 7, 30, 20, 10, 0, 0, time.UTC)

	race1 := raceAt("Aqueduct", 4, start, "attheraces", models.NewRunner("Alpha", 1))
	race2 := raceAt("Belmont", 4, other, "timeform", models.NewRunner("Beta", 2))

	merged := Merge([]models.Race{race1, race2})
	assert.Len(t, merged, 2)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	r1 := models.NewRunner("Alpha", 1)
	r1.Odds["attheraces"] = models.OddsDataFromFloat(3.5)
	race1 := raceAt("Aqueduct", 4, start, "attheraces", r1)

	input := []models.Race{race1}
	_ = Merge(input)
	assert.Len(t, input[0].Runners[0].Odds, 1, "merge must not mutate the caller's race")
}
