package models

import (
	"strings"
	"time"
	"unicode"
)

// Discipline is the closed set of racing codes a Race can belong to.
type Discipline string

const (
	Thoroughbred Discipline = "Thoroughbred"
	Harness      Discipline = "Harness"
	Greyhound    Discipline = "Greyhound"
	QuarterHorse Discipline = "Quarter Horse"
)

// Suffix returns the race-ID suffix for a discipline, e.g. "_t" for
// Thoroughbred. Unknown disciplines get no suffix.
func (d Discipline) Suffix() string {
	switch d {
	case Thoroughbred:
		return "_t"
	case Harness:
		return "_h"
	case Greyhound:
		return "_g"
	case QuarterHorse:
		return "_q"
	default:
		return ""
	}
}

// Initial returns the single-letter discipline tag used by RaceSummary and
// by the auditor's canonical matching keys.
func (d Discipline) Initial() string {
	switch d {
	case Thoroughbred:
		return "T"
	case Harness:
		return "H"
	case Greyhound:
		return "G"
	case QuarterHorse:
		return "Q"
	default:
		return "?"
	}
}

// AvailableBets is the closed vocabulary of exotic wager types a Race may offer.
var AvailableBets = []string{
	"Superfecta", "Trifecta", "Exacta", "Quinella",
	"Daily Double", "Pick 3", "Pick 4", "Pick 5", "Pick 6",
}

// Race is one racing event, merged across every adapter that reported it.
type Race struct {
	ID                 string         `json:"id"`
	Venue              string         `json:"venue"`
	RaceNumber         int            `json:"race_number"`
	StartTime          time.Time      `json:"start_time"`
	Runners            []Runner       `json:"runners"`
	Source             string         `json:"source"`
	Discipline         Discipline     `json:"discipline"`
	Distance           string         `json:"distance,omitempty"`
	FieldSize          int            `json:"field_size"`
	QualificationScore *float64       `json:"qualification_score,omitempty"`
	AvailableBets      []string       `json:"available_bets,omitempty"`
	IsErrorPlaceholder bool           `json:"is_error_placeholder"`
	ErrorMessage       string         `json:"error_message,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// ActiveRunners returns the runners that have not scratched.
func (r *Race) ActiveRunners() []Runner {
	active := make([]Runner, 0, len(r.Runners))
	for _, ru := range r.Runners {
		if !ru.Scratched {
			active = append(active, ru)
		}
	}
	return active
}

// RecomputeFieldSize sets FieldSize to the current count of non-scratched runners.
func (r *Race) RecomputeFieldSize() {
	r.FieldSize = len(r.ActiveRunners())
}

// EasternStartKey returns the HH:MM component of StartTime in US Eastern,
// the time component of the dedup key.
func (r *Race) EasternStartKey() string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return r.StartTime.In(loc).Format("15:04")
}

// DedupKey returns the triple (lowercased venue, race number, HH:MM Eastern
// start) that two races observed from different sources must share to be
// considered the same event.
func (r *Race) DedupKey() string {
	return canonicalVenue(r.Venue) + "|" + itoa(r.RaceNumber) + "|" + r.EasternStartKey()
}

// canonicalVenue lowercases a venue name and strips everything but letters
// and digits, giving the stable half of a Race's dedup key.
func canonicalVenue(venue string) string {
	var b strings.Builder
	for _, r := range venue {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
