package models

import "strings"

// Runner is a horse or greyhound entered in a Race.
type Runner struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name"`
	Number     int                 `json:"number"`
	Scratched  bool                `json:"scratched"`
	Odds       map[string]OddsData `json:"odds"`
	WinOdds    *float64            `json:"win_odds,omitempty"`
	Metadata   map[string]any      `json:"metadata,omitempty"`
}

// NewRunner returns a Runner with its odds map and metadata bag initialized,
// matching the shape every adapter and the deduplicator expect to mutate.
func NewRunner(name string, number int) Runner {
	return Runner{
		Name:     name,
		Number:   number,
		Odds:     make(map[string]OddsData),
		Metadata: make(map[string]any),
	}
}

// IdentityKey returns the value a Runner is uniquely identified by within its
// parent Race: the saddle/trap number when known, otherwise the normalized name.
func (r Runner) IdentityKey() string {
	if r.Number > 0 {
		return numberKey(r.Number)
	}
	return strings.ToLower(strings.TrimSpace(r.Name))
}

func numberKey(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}

// BestOdds returns the lowest valid win price across all sources covering
// this runner, and whether any valid price was found at all.
func (r Runner) BestOdds() (float64, bool) {
	best := 0.0
	found := false
	for _, od := range r.Odds {
		if !od.Valid() {
			continue
		}
		v, _ := od.Win.Float64()
		if !found || v < best {
			best = v
			found = true
		}
	}
	return best, found
}

// MetaBool reads a boolean flag out of Metadata, defaulting to false.
func (r Runner) MetaBool(key string) bool {
	if r.Metadata == nil {
		return false
	}
	v, ok := r.Metadata[key].(bool)
	return ok && v
}

// SetMeta sets a metadata flag, initializing the bag if necessary.
func (r *Runner) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}
