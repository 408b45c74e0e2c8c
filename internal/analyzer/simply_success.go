package analyzer

import (
	"time"

	"github.com/yourusername/raceintel/internal/models"
)

// SimplySuccessAnalyzer qualifies any race that clears the trust-ratio and
// timing-window bars with at least two live runners, flagging standout
// fields as goldmines or best bets rather than rejecting the rest.
type SimplySuccessAnalyzer struct {
	TrustworthyRatioMin float64
}

func NewSimplySuccessAnalyzer(params map[string]any) *SimplySuccessAnalyzer {
	return &SimplySuccessAnalyzer{
		TrustworthyRatioMin: floatParam(params, "trustworthy_ratio_min", DefaultTrustworthyRatioMin),
	}
}

func (a *SimplySuccessAnalyzer) Name() string { return "simply_success" }

func (a *SimplySuccessAnalyzer) QualifyRaces(races []models.Race, now time.Time) Result {
	qualified := make([]models.Race, 0, len(races))
	for _, race := range races {
		if activeCount(race) < 2 {
			continue
		}
		if !withinPostWindow(race.StartTime, now) {
			continue
		}
		if trustRatio(race) < a.TrustworthyRatioMin {
			continue
		}

		score := 100.0
		race.QualificationScore = &score
		a.flag(&race)
		qualified = append(qualified, race)
	}
	sortByScoreDescending(qualified)

	return Result{
		Criteria: map[string]any{"trustworthy_ratio_min": a.TrustworthyRatioMin},
		Races:    qualified,
	}
}

func (a *SimplySuccessAnalyzer) flag(race *models.Race) {
	favorites := rankedFavorites(*race)
	if race.Metadata == nil {
		race.Metadata = make(map[string]any)
	}
	if len(favorites) < 2 {
		return
	}
	favOdds, _ := favorites[0].BestOdds()
	secFavOdds, _ := favorites[1].BestOdds()
	active := activeCount(*race)
	gap := secFavOdds - favOdds

	isGoldmine := active <= 11 && secFavOdds >= 4.5 && gap > 0.25
	isBestBet := active <= 11 && secFavOdds >= 3.5 && gap > 0.25

	race.Metadata["is_goldmine"] = isGoldmine
	race.Metadata["is_best_bet"] = isBestBet
	race.Metadata["favorite"] = favorites[0].Name
	race.Metadata["favorite_odds"] = favOdds
	race.Metadata["second_favorite"] = favorites[1].Name
	race.Metadata["second_favorite_odds"] = secFavOdds
}
