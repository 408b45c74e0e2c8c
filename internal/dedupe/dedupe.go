// Package dedupe merges races reported by multiple adapters for the same
// event into single records, preserving every source's odds rather than
// reconciling them — reconciliation is the analyzer's job.
package dedupe

import (
	"sort"
	"strings"

	"github.com/yourusername/raceintel/internal/models"
)

// Merge groups races by their dedup key and folds each group into one
// accumulator race whose runners carry the union of every source's odds.
// Input races are not mutated; the caller's slice is safe to reuse.
func Merge(races []models.Race) []models.Race {
	groups := make(map[string][]models.Race)
	order := make([]string, 0)
	for _, r := range races {
		k := r.DedupKey()
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], deepCopy(r))
	}

	out := make([]models.Race, 0, len(order))
	for _, k := range order {
		out = append(out, mergeGroup(groups[k]))
	}
	return out
}

func mergeGroup(group []models.Race) models.Race {
	acc := group[0]
	sources := map[string]bool{acc.Source: true}

	for _, next := range group[1:] {
		byNumber := make(map[int]int, len(acc.Runners)) // runner number -> index in acc.Runners
		for i, r := range acc.Runners {
			if r.Number > 0 {
				byNumber[r.Number] = i
			}
		}

		for _, runner := range next.Runners {
			if idx, ok := byNumber[runner.Number]; ok && runner.Number > 0 {
				mergeOdds(&acc.Runners[idx], runner.Odds)
				continue
			}
			acc.Runners = append(acc.Runners, runner)
		}

		if next.Source != "" {
			sources[next.Source] = true
		}
	}

	acc.Source = joinedSources(sources)
	acc.RecomputeFieldSize()
	return acc
}

// mergeOdds unions src into dst's odds map. A collision on the same source
// key is resolved by letting the incoming value win (newest wins); in
// practice each source key appears at most once per dedup group.
func mergeOdds(dst *models.Runner, src map[string]models.OddsData) {
	if dst.Odds == nil {
		dst.Odds = make(map[string]models.OddsData, len(src))
	}
	for source, odds := range src {
		dst.Odds[source] = odds
	}
}

func joinedSources(sources map[string]bool) string {
	names := make([]string, 0, len(sources))
	for s := range sources {
		if s == "" {
			continue
		}
		names = append(names, s)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// deepCopy returns a race whose Runners slice and each Runner's Odds/Metadata
// maps are independent of the original, so later mutation during merge never
// observes or corrupts the caller's copy.
func deepCopy(r models.Race) models.Race {
	cp := r
	cp.Runners = make([]models.Runner, len(r.Runners))
	for i, runner := range r.Runners {
		rc := runner
		rc.Odds = make(map[string]models.OddsData, len(runner.Odds))
		for k, v := range runner.Odds {
			rc.Odds[k] = v
		}
		if runner.Metadata != nil {
			rc.Metadata = make(map[string]any, len(runner.Metadata))
			for k, v := range runner.Metadata {
				rc.Metadata[k] = v
			}
		}
		cp.Runners[i] = rc
	}
	if r.Metadata != nil {
		cp.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
