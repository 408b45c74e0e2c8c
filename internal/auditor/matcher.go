package auditor

import (
	"sort"
	"strings"

	"github.com/yourusername/raceintel/internal/models"
)

// looseKey drops a strict key's trailing discipline-initial segment,
// leaving venue|race|yyyymmdd|HHMM — the discipline-relaxed fallback key.
func looseKey(strict string) string {
	parts := strings.Split(strict, "|")
	if len(parts) != 5 {
		return strict
	}
	return strings.Join(parts[:4], "|")
}

// matchIndex is the three-tier lookup structure the Auditor builds once per
// run from the set of freshly fetched ResultRace records.
type matchIndex struct {
	strict  map[string]*models.ResultRace
	relaxed map[string]*models.ResultRace
	loose   map[string]*models.ResultRace
}

// buildMatchIndex populates the strict, time-relaxed, and
// discipline-relaxed lookup maps from a result set, in the priority order
// lookups will try them.
func buildMatchIndex(results []models.ResultRace) *matchIndex {
	idx := &matchIndex{
		strict:  make(map[string]*models.ResultRace),
		relaxed: make(map[string]*models.ResultRace),
		loose:   make(map[string]*models.ResultRace),
	}

	sorted := make([]models.ResultRace, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StrictKey() < sorted[j].StrictKey()
	})

	for i := range sorted {
		rr := &sorted[i]
		sk := rr.StrictKey()
		if _, exists := idx.strict[sk]; !exists {
			idx.strict[sk] = rr
		}
	}
	for i := range sorted {
		rr := &sorted[i]
		rk := rr.RelaxedKey()
		if _, isStrict := idx.strict[rk]; isStrict {
			continue
		}
		if _, exists := idx.relaxed[rk]; !exists {
			idx.relaxed[rk] = rr
		}
	}
	for i := range sorted {
		rr := &sorted[i]
		lk := looseKey(rr.StrictKey())
		if _, exists := idx.loose[lk]; !exists {
			idx.loose[lk] = rr
		}
	}

	return idx
}

// Lookup resolves a Prediction's canonical key against the index, trying
// exact, then time-relaxed, then discipline-relaxed, in that order.
func (idx *matchIndex) Lookup(p *models.Prediction) (*models.ResultRace, models.MatchTier, bool) {
	if rr, ok := idx.strict[p.CanonicalKey()]; ok {
		return rr, models.MatchTierExact, true
	}
	if rr, ok := idx.relaxed[p.RelaxedKey()]; ok {
		return rr, models.MatchTierTimeRelaxed, true
	}
	if rr, ok := idx.loose[looseKey(p.CanonicalKey())]; ok {
		return rr, models.MatchTierDisciplineRelaxed, true
	}
	return nil, "", false
}
