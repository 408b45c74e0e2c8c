// Package tipper converts an analyzer's qualified races into pending
// predictions, the handoff between AnalyzerEngine and the Prediction store
// the Auditor later reads from.
package tipper

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/raceintel/internal/analyzer"
	"github.com/yourusername/raceintel/internal/models"
)

// Build reads the favorite/second-favorite selection and goldmine flag every
// canonical analyzer stamps into Race.Metadata (trifecta.go's score,
// simply_success.go's flag) and turns each qualified race into one pending
// Prediction. Races missing a resolvable second-favorite selection are
// skipped rather than persisted with a zero-value selection.
func Build(analyzerName string, result analyzer.Result, now time.Time) []models.Prediction {
	out := make([]models.Prediction, 0, len(result.Races))
	for _, race := range result.Races {
		name, _ := race.Metadata["second_favorite"].(string)
		odds, hasOdds := race.Metadata["second_favorite_odds"].(float64)
		if name == "" || !hasOdds {
			continue
		}
		number := selectionNumberFor(race, name)
		if number == 0 {
			continue
		}
		goldmine, _ := race.Metadata["is_goldmine"].(bool)

		out = append(out, models.Prediction{
			ID:                  uuid.New(),
			RaceID:              race.ID,
			Venue:               race.Venue,
			RaceNumber:          race.RaceNumber,
			StartTime:           race.StartTime,
			Discipline:          race.Discipline,
			SelectionNumber:     number,
			SelectionName:       name,
			Predicted2ndFavOdds: &odds,
			IsGoldmine:          goldmine,
			Analyzer:            analyzerName,
			CreatedAt:           now,
		})
	}
	return out
}

func selectionNumberFor(race models.Race, name string) int {
	for _, r := range race.Runners {
		if r.Name == name {
			return r.Number
		}
	}
	return 0
}
