package engine

import "github.com/yourusername/raceintel/internal/models"

// SourceStatus is the per-adapter outcome of one fetch cycle.
type SourceStatus string

const (
	StatusSuccess SourceStatus = "SUCCESS"
	StatusFailed  SourceStatus = "FAILED"
)

// SourceResult reports one adapter's contribution to an AggregatedResponse.
type SourceResult struct {
	Status          SourceStatus `json:"status"`
	RacesFetched    int          `json:"races_fetched"`
	FetchDurationMs float64      `json:"fetch_duration_ms"`
	ErrorMessage    string       `json:"error_message,omitempty"`
	AttemptedURL    string       `json:"attempted_url,omitempty"`
}

// AggregatedResponse is the result of one fetch_all_odds cycle: the merged
// race set plus per-adapter diagnostics.
type AggregatedResponse struct {
	Date          string                  `json:"date"`
	Races         []models.Race           `json:"races"`
	Errors        []string                `json:"errors,omitempty"`
	SourceInfo    map[string]SourceResult `json:"source_info"`
	Metadata      map[string]any          `json:"metadata,omitempty"`
	DataFreshness string                  `json:"data_freshness"`
}
