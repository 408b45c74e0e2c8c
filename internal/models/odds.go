package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceholderOdds is the value adapters commonly emit when they have no real
// price for a runner. Parsed odds equal to this are accepted but flagged
// untrustworthy rather than rejected outright.
var PlaceholderOdds = decimal.NewFromFloat(2.75)

// MinValidOdds and MaxValidOdds bound any win/place/show price accepted into
// the system; values outside this range are rejected during parsing.
var (
	MinValidOdds = decimal.NewFromFloat(1.01)
	MaxValidOdds = decimal.NewFromFloat(1000.0)
)

// OddsData is a single source's opinion of a runner's price at a point in time.
type OddsData struct {
	Win         *decimal.Decimal `json:"win,omitempty"`
	Place       *decimal.Decimal `json:"place,omitempty"`
	Show        *decimal.Decimal `json:"show,omitempty"`
	Source      string           `json:"source"`
	LastUpdated time.Time        `json:"last_updated"`
}

// OddsDataFromFloat builds an OddsData with a win price set from a plain
// float64, for callers (tests, adapters parsing decimal odds directly)
// that don't already hold a decimal.Decimal.
func OddsDataFromFloat(win float64) OddsData {
	d := decimal.NewFromFloat(win)
	return OddsData{Win: &d, LastUpdated: time.Now()}
}

// IsPlaceholder reports whether the win price equals the known placeholder
// default, a signal that the source never actually resolved a real line.
func (o OddsData) IsPlaceholder() bool {
	return o.Win != nil && o.Win.Equal(PlaceholderOdds)
}

// Valid reports whether the win price lies within the accepted odds range.
func (o OddsData) Valid() bool {
	if o.Win == nil {
		return false
	}
	return o.Win.GreaterThanOrEqual(MinValidOdds) && o.Win.LessThan(MaxValidOdds)
}
