package adapter

import (
	"github.com/yourusername/raceintel/internal/models"
)

// postParseValidate applies the mandatory post-parse pass to every race an
// adapter produced: drop thin fields, repair bogus runner numbering, resolve
// each runner's best odds, and record the race's odds trust ratio.
func (b *Base) postParseValidate(races []models.Race) []models.Race {
	out := make([]models.Race, 0, len(races))
	for _, race := range races {
		if len(race.Runners) < 2 {
			continue
		}
		reindexIfBogus(&race)
		trustworthy, active := resolveOdds(&race)
		race.RecomputeFieldSize()
		if active > 0 {
			b.recordTrustRatio(race.Venue, float64(trustworthy)/float64(active))
		}
		out = append(out, race)
	}
	return out
}

// reindexIfBogus re-numbers runners 1..n in place when the parsed numbers
// look like horse IDs rather than program numbers: every number is 0/nil,
// any number exceeds 100, or any number exceeds both 20 and active field
// size + 10.
func reindexIfBogus(race *models.Race) {
	active := race.ActiveRunners()
	bogus := true
	for _, r := range race.Runners {
		if r.Number != 0 {
			bogus = false
			break
		}
	}
	if !bogus {
		for _, r := range race.Runners {
			if r.Number > 100 {
				bogus = true
				break
			}
			if r.Number > 20 && r.Number > len(active)+10 {
				bogus = true
				break
			}
		}
	}
	if !bogus {
		return
	}
	for i := range race.Runners {
		race.Runners[i].Number = i + 1
	}
}

// resolveOdds sets each non-scratched runner's best odds and odds-trust
// metadata flag, returning (trustworthy, active) runner counts for the
// race-level trust ratio.
func resolveOdds(race *models.Race) (trustworthy, active int) {
	for i := range race.Runners {
		r := &race.Runners[i]
		if r.Scratched {
			continue
		}
		active++
		best, found := r.BestOdds()
		r.SetMeta("odds_source_trustworthy", found)
		if found {
			v := best
			r.WinOdds = &v
			trustworthy++
		} else {
			r.WinOdds = nil
		}
	}
	return trustworthy, active
}

func (b *Base) recordTrustRatio(venue string, ratio float64) {
	if b.Monitor == nil {
		return
	}
	b.Monitor.RecordTrustRatio(b.Source, venue, ratio)
}
