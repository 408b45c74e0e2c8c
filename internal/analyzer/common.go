package analyzer

import (
	"sort"
	"time"

	"github.com/yourusername/raceintel/internal/models"
)

const (
	DefaultTrustworthyRatioMin = 0.7
	StandardBet                = 2.00
)

// withinPostWindow reports whether a race's start time falls within the
// canonical pre-post window every race-scoring analyzer filters on:
// (now - 45min, now + 120min).
func withinPostWindow(start, now time.Time) bool {
	lower := now.Add(-45 * time.Minute)
	upper := now.Add(120 * time.Minute)
	return start.After(lower) && start.Before(upper)
}

// trustRatio returns trustworthy/active runners for a race, using the
// odds_source_trustworthy flag post-parse validation set on each runner.
func trustRatio(race models.Race) float64 {
	active := 0
	trustworthy := 0
	for _, r := range race.Runners {
		if r.Scratched {
			continue
		}
		active++
		if r.MetaBool("odds_source_trustworthy") {
			trustworthy++
		}
	}
	if active == 0 {
		return 0
	}
	return float64(trustworthy) / float64(active)
}

// rankedFavorites returns the non-scratched runners that have a resolved
// best-odds value, sorted ascending by that price — the favorite is index 0.
func rankedFavorites(race models.Race) []models.Runner {
	candidates := make([]models.Runner, 0, len(race.Runners))
	for _, r := range race.Runners {
		if r.Scratched {
			continue
		}
		if _, ok := r.BestOdds(); ok {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		oi, _ := candidates[i].BestOdds()
		oj, _ := candidates[j].BestOdds()
		return oi < oj
	})
	return candidates
}

func activeCount(race models.Race) int {
	n := 0
	for _, r := range race.Runners {
		if !r.Scratched {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
