package sources

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

// NewRacingAndSportsGreyhound builds the greyhound sibling of
// RacingAndSports against the same API's greyhound meetings endpoint,
// grounded on racing_and_sports_greyhound_adapter.py.
func NewRacingAndSportsGreyhound(f *fetcher.Fetcher, apiToken string, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *RacingAndSports {
	return newRacingAndSports("RacingAndSportsGreyhound", "v1/greyhound/meetings", "rasg", models.Greyhound, f, apiToken, monitor, overrides, logger, requestsPerSecond)
}
