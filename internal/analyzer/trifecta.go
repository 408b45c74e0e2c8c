package analyzer

import (
	"time"

	"github.com/yourusername/raceintel/internal/models"
)

// TrifectaAnalyzer is the canonical scoring analyzer: favors small fields
// with a clear but not overwhelming favorite and a live second favorite.
type TrifectaAnalyzer struct {
	TrustworthyRatioMin float64
	MaxFieldSize        int
	MinFavoriteOdds     float64
	MinSecondFavOdds    float64
}

// NewTrifectaAnalyzer builds a TrifectaAnalyzer from named parameters,
// falling back to the canonical defaults for anything unset.
func NewTrifectaAnalyzer(params map[string]any) *TrifectaAnalyzer {
	return &TrifectaAnalyzer{
		TrustworthyRatioMin: floatParam(params, "trustworthy_ratio_min", DefaultTrustworthyRatioMin),
		MaxFieldSize:        intParam(params, "max_field_size", 10),
		MinFavoriteOdds:     floatParam(params, "min_favorite_odds", 0),
		MinSecondFavOdds:    floatParam(params, "min_second_favorite_odds", 0),
	}
}

func (a *TrifectaAnalyzer) Name() string { return "trifecta" }

func (a *TrifectaAnalyzer) QualifyRaces(races []models.Race, now time.Time) Result {
	qualified := make([]models.Race, 0, len(races))
	for _, race := range races {
		if activeCount(race) < 3 {
			continue
		}
		if !withinPostWindow(race.StartTime, now) {
			continue
		}
		if trustRatio(race) < a.TrustworthyRatioMin {
			continue
		}
		if a.score(&race) {
			qualified = append(qualified, race)
		}
	}
	sortByScoreDescending(qualified)

	return Result{
		Criteria: map[string]any{
			"trustworthy_ratio_min": a.TrustworthyRatioMin,
			"max_field_size":        a.MaxFieldSize,
			"min_favorite_odds":     a.MinFavoriteOdds,
			"min_second_fav_odds":   a.MinSecondFavOdds,
		},
		Races: qualified,
	}
}

// score applies the per-race rejection rules and, if the race survives,
// sets QualificationScore and returns true.
func (a *TrifectaAnalyzer) score(race *models.Race) bool {
	favorites := rankedFavorites(*race)
	if len(favorites) < 2 {
		return false
	}
	fav, secFav := favorites[0], favorites[1]
	favOdds, _ := fav.BestOdds()
	secFavOdds, _ := secFav.BestOdds()

	active := activeCount(*race)
	if active > a.MaxFieldSize {
		return false
	}
	if favOdds < 2.0 {
		return false
	}
	if favOdds < a.MinFavoriteOdds {
		return false
	}
	if secFavOdds < a.MinSecondFavOdds {
		return false
	}

	fieldScore := float64(a.MaxFieldSize-active) / float64(a.MaxFieldSize)
	favOddsScore := min1(favOdds / 10.0)
	secFavOddsScore := min1(secFavOdds / 15.0)
	oddsScore := 0.6*favOddsScore + 0.4*secFavOddsScore
	final := round2((0.3*fieldScore + 0.7*oddsScore) * 100)

	race.QualificationScore = &final
	if race.Metadata == nil {
		race.Metadata = make(map[string]any)
	}
	race.Metadata["favorite"] = fav.Name
	race.Metadata["favorite_odds"] = favOdds
	race.Metadata["second_favorite"] = secFav.Name
	race.Metadata["second_favorite_odds"] = secFavOdds
	return true
}

func min1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

// TinyFieldTrifectaAnalyzer is TrifectaAnalyzer tuned for very small fields:
// a tighter max field size and favorite/second-favorite odds floors of 0.01
// (score still rejects a favorite priced below 2.0).
type TinyFieldTrifectaAnalyzer struct {
	*TrifectaAnalyzer
}

// NewTinyFieldTrifectaAnalyzer builds the tiny-field variant. Its max field
// size comes from tiny_field_max when that is set, else from max_field_size,
// else 6; the odds floors default to 0.01 unless overridden.
func NewTinyFieldTrifectaAnalyzer(params map[string]any) *TinyFieldTrifectaAnalyzer {
	base := NewTrifectaAnalyzer(params)
	if v := intParam(params, "tiny_field_max", 0); v > 0 {
		base.MaxFieldSize = v
	} else if _, ok := params["max_field_size"]; !ok {
		base.MaxFieldSize = 6
	}
	if _, ok := params["min_favorite_odds"]; !ok {
		base.MinFavoriteOdds = 0.01
	}
	if _, ok := params["min_second_favorite_odds"]; !ok {
		base.MinSecondFavOdds = 0.01
	}
	return &TinyFieldTrifectaAnalyzer{TrifectaAnalyzer: base}
}

func (a *TinyFieldTrifectaAnalyzer) Name() string { return "tiny_field_trifecta" }
