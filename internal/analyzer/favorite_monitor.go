package analyzer

import (
	"sort"
	"time"

	"github.com/yourusername/raceintel/internal/models"
)

// RaceSummary is the compact live-scanner projection FavoriteToPlaceMonitor
// produces for each merged race.
type RaceSummary struct {
	DisciplineTag      string    `json:"discipline_tag"`
	Venue              string    `json:"venue"`
	RaceNumber         int       `json:"race_number"`
	FieldSize          int       `json:"field_size"`
	SuperfectaOffered  bool      `json:"superfecta_offered"`
	Adapters           string    `json:"adapters"`
	StartTime          time.Time `json:"start_time"`
	MinutesToPost      float64   `json:"mtp"`
	FavoriteName       string    `json:"favorite_name"`
	FavoriteOdds       float64   `json:"favorite_odds"`
	SecondFavName      string    `json:"second_favorite_name"`
	SecondFavOdds      float64   `json:"second_favorite_odds"`
	TopFiveNumbers     []int     `json:"top_five_numbers"`
}

// FavoriteToPlaceMonitor is the live scanner that surfaces BET_NOW and
// YOU_MIGHT_LIKE shortlists rather than scoring every race.
type FavoriteToPlaceMonitor struct{}

func NewFavoriteToPlaceMonitor(_ map[string]any) *FavoriteToPlaceMonitor {
	return &FavoriteToPlaceMonitor{}
}

func (a *FavoriteToPlaceMonitor) Name() string { return "favorite_to_place_monitor" }

func (a *FavoriteToPlaceMonitor) QualifyRaces(races []models.Race, now time.Time) Result {
	type scored struct {
		race    models.Race
		summary RaceSummary
	}

	var betNow, youMightLike []scored
	betNowKeys := make(map[string]bool)

	summaries := make([]RaceSummary, 0, len(races))
	for _, race := range races {
		favorites := rankedFavorites(race)
		if len(favorites) < 2 {
			continue
		}
		favOdds, _ := favorites[0].BestOdds()
		secFavOdds, _ := favorites[1].BestOdds()

		mtp := race.StartTime.Sub(now).Minutes()
		fieldSize := activeCount(race)
		superfecta := containsBet(race.AvailableBets, "Superfecta")

		summary := RaceSummary{
			DisciplineTag:     race.Discipline.Initial(),
			Venue:             race.Venue,
			RaceNumber:        race.RaceNumber,
			FieldSize:         fieldSize,
			SuperfectaOffered: superfecta,
			Adapters:          race.Source,
			StartTime:         race.StartTime,
			MinutesToPost:     mtp,
			FavoriteName:      favorites[0].Name,
			FavoriteOdds:      favOdds,
			SecondFavName:     favorites[1].Name,
			SecondFavOdds:     secFavOdds,
			TopFiveNumbers:    topFiveNumbers(favorites),
		}
		summaries = append(summaries, summary)

		if mtp > 0 && mtp <= 20 && secFavOdds >= 5.0 && fieldSize <= 8 {
			betNow = append(betNow, scored{race: race, summary: summary})
			betNowKeys[race.DedupKey()] = true
			continue
		}
		if mtp <= 30 && secFavOdds >= 4.0 {
			youMightLike = append(youMightLike, scored{race: race, summary: summary})
		}
	}

	sort.SliceStable(betNow, func(i, j int) bool {
		si, sj := betNow[i].summary, betNow[j].summary
		if si.SuperfectaOffered != sj.SuperfectaOffered {
			return si.SuperfectaOffered // superfecta-offered sorts first (¬superfecta_offered ascending)
		}
		return si.MinutesToPost < sj.MinutesToPost
	})

	filtered := youMightLike[:0:0]
	for _, s := range youMightLike {
		if betNowKeys[s.race.DedupKey()] {
			continue
		}
		filtered = append(filtered, s)
	}
	if len(filtered) > 5 {
		filtered = filtered[:5]
	}

	races2 := make([]models.Race, 0, len(betNow)+len(filtered))
	for _, s := range betNow {
		races2 = append(races2, s.race)
	}
	for _, s := range filtered {
		races2 = append(races2, s.race)
	}

	return Result{
		Criteria: map[string]any{
			"bet_now_count":        len(betNow),
			"you_might_like_count": len(filtered),
			"summaries":            summaries,
		},
		Races: races2,
	}
}

func containsBet(bets []string, want string) bool {
	for _, b := range bets {
		if b == want {
			return true
		}
	}
	return false
}

func topFiveNumbers(favorites []models.Runner) []int {
	n := len(favorites)
	if n > 5 {
		n = 5
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, favorites[i].Number)
	}
	return out
}
