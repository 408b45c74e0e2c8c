// Package analyzer implements the pluggable race-scoring layer: a
// name→constructor registry and a set of analyzers that each filter and
// score the deduplicated race set independently.
package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/raceintel/internal/models"
)

// Result is what qualify_races returns: the criteria applied and the
// surviving, scored races.
type Result struct {
	Criteria map[string]any `json:"criteria"`
	Races    []models.Race  `json:"races"`
}

// Analyzer scores and filters a deduplicated race set. Implementations must
// not mutate a race beyond setting QualificationScore and Metadata.
type Analyzer interface {
	Name() string
	QualifyRaces(races []models.Race, now time.Time) Result
}

// Constructor builds a fresh Analyzer instance from named parameters.
type Constructor func(params map[string]any) (Analyzer, error)

// Registry is a name→constructor lookup, mirroring AnalyzerEngine.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a Registry pre-populated with the canonical analyzers.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.Register("trifecta", func(params map[string]any) (Analyzer, error) {
		return NewTrifectaAnalyzer(params), nil
	})
	r.Register("tiny_field_trifecta", func(params map[string]any) (Analyzer, error) {
		return NewTinyFieldTrifectaAnalyzer(params), nil
	})
	r.Register("simply_success", func(params map[string]any) (Analyzer, error) {
		return NewSimplySuccessAnalyzer(params), nil
	})
	r.Register("favorite_to_place_monitor", func(params map[string]any) (Analyzer, error) {
		return NewFavoriteToPlaceMonitor(params), nil
	})
	return r
}

// Register adds or replaces a named constructor.
func (r *Registry) Register(name string, ctor Constructor) {
	r.constructors[name] = ctor
}

// Get returns a fresh analyzer instance for name, erroring if unknown.
func (r *Registry) Get(name string, params map[string]any) (Analyzer, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("analyzer: unknown analyzer %q", name)
	}
	return ctor(params)
}

// sortByScoreDescending sorts races by QualificationScore, highest first;
// races with no score sink to the end.
func sortByScoreDescending(races []models.Race) {
	sort.SliceStable(races, func(i, j int) bool {
		si, sj := races[i].QualificationScore, races[j].QualificationScore
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return *si > *sj
	})
}

func floatParam(params map[string]any, key string, def float64) float64 {
	if params == nil {
		return def
	}
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func intParam(params map[string]any, key string, def int) int {
	if params == nil {
		return def
	}
	if v, ok := params[key]; ok {
		if i, ok := v.(int); ok {
			return i
		}
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return def
}
