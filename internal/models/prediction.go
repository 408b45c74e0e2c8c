package models

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the outcome the Auditor assigns to an audited Prediction.
type Verdict string

const (
	VerdictPending        Verdict = ""
	VerdictCashed         Verdict = "CASHED"
	VerdictCashedEstimated Verdict = "CASHED_ESTIMATED"
	VerdictBurned         Verdict = "BURNED"
	VerdictVoid           Verdict = "VOID"
)

// MatchTier records which fallback level the Auditor used to locate the
// result race for a Prediction. Never promoted silently to "exact".
type MatchTier string

const (
	MatchTierExact             MatchTier = "exact"
	MatchTierTimeRelaxed       MatchTier = "time_relaxed"
	MatchTierDisciplineRelaxed MatchTier = "discipline_relaxed"
)

// Prediction is a persisted tip produced by an analyzer, later audited
// against a fetched result race. Mutated exactly once, by the Auditor.
type Prediction struct {
	ID                  uuid.UUID  `json:"id"`
	RaceID              string     `json:"race_id"`
	Venue               string     `json:"venue"`
	RaceNumber          int        `json:"race_number"`
	StartTime           time.Time  `json:"start_time"`
	Discipline          Discipline `json:"discipline"`
	SelectionNumber     int        `json:"selection_number"`
	SelectionName       string     `json:"selection_name"`
	Predicted2ndFavOdds *float64   `json:"predicted_2nd_fav_odds,omitempty"`
	IsGoldmine          bool       `json:"is_goldmine"`
	Analyzer            string     `json:"analyzer"`
	CreatedAt           time.Time  `json:"created_at"`

	AuditCompleted bool      `json:"audit_completed"`
	Verdict        Verdict   `json:"verdict,omitempty"`
	MatchTier      MatchTier `json:"match_tier,omitempty"`
	NetProfit      *float64  `json:"net_profit,omitempty"`

	ActualTop5             string   `json:"actual_top_5,omitempty"`
	Actual2ndFavOdds       *float64 `json:"actual_2nd_fav_odds,omitempty"`
	SelectionPosition      *int     `json:"selection_position,omitempty"`
	TrifectaPayout         *float64 `json:"trifecta_payout,omitempty"`
	TrifectaCombination    string   `json:"trifecta_combination,omitempty"`
	SuperfectaPayout       *float64 `json:"superfecta_payout,omitempty"`
	SuperfectaCombination  string   `json:"superfecta_combination,omitempty"`
	Top1PlacePayout        *float64 `json:"top1_place_payout,omitempty"`
	Top2PlacePayout        *float64 `json:"top2_place_payout,omitempty"`
	AuditTimestamp         *time.Time `json:"audit_timestamp,omitempty"`
}

// CanonicalKey returns this prediction's strict matching key.
func (p *Prediction) CanonicalKey() string {
	return strictKey(canonicalVenue(p.Venue), p.RaceNumber, p.StartTime, p.Discipline)
}

// RelaxedKey drops the HHMM component of the matching key.
func (p *Prediction) RelaxedKey() string {
	return relaxedKey(canonicalVenue(p.Venue), p.RaceNumber, p.StartTime, p.Discipline)
}
