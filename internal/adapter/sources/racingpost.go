package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

// racingPostRace mirrors the JSON shape the Racing Post racecards API
// returns, kept close to the teacher's own RacingPostRace/RacingPostRunnerEntry.
type racingPostRace struct {
	ID              string               `json:"id"`
	Track           string               `json:"venueName"`
	ScheduledTime   string               `json:"scheduledTime"`
	RaceType        string               `json:"raceType"`
	RaceNumber      int                  `json:"raceNumber"`
	NumberOfRunners int                  `json:"numberOfRunners"`
	Runners         []racingPostRunner   `json:"runners"`
}

type racingPostRunner struct {
	ID         string  `json:"id"`
	Number     int     `json:"saddleClothNumber"`
	Name       string  `json:"name"`
	Win        *string `json:"winOdds"`
	NonRunner  bool    `json:"nonRunner"`
}

// RacingPost fetches UK & Ireland thoroughbred racecards from the Racing
// Post API, grounded on the teacher's own internal/datasource/racing_post.go.
type RacingPost struct {
	adapter.Base
	fetcher *fetcher.Fetcher
	apiKey  string
}

// NewRacingPost wires a RacingPost adapter against the shared Fetcher.
func NewRacingPost(f *fetcher.Fetcher, apiKey string, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *RacingPost {
	return &RacingPost{
		Base:    adapter.NewBase("RacingPost", adapter.Discovery, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
		apiKey:  apiKey,
	}
}

func (a *RacingPost) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *RacingPost) FetchData(ctx context.Context, date string) (string, error) {
	url := fmt.Sprintf("https://api.racingpost.com/v1/races?from=%s&to=%s", date, date)
	headers := map[string]string{"Authorization": "Bearer " + a.apiKey, "Accept": "application/json"}
	return fetchText(ctx, a.fetcher, a.PreferredEngine, url, headers)
}

func (a *RacingPost) ParseRaces(raw string) ([]models.Race, error) {
	var rpRaces []racingPostRace
	if err := json.Unmarshal([]byte(raw), &rpRaces); err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "decoding racecards response", err)
	}

	races := make([]models.Race, 0, len(rpRaces))
	for _, rp := range rpRaces {
		start, err := time.Parse(time.RFC3339, rp.ScheduledTime)
		if err != nil {
			continue
		}
		venue := normalizeVenue(rp.Track)
		race := models.Race{
			Venue:      venue,
			RaceNumber: rp.RaceNumber,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Thoroughbred,
			Runners:    make([]models.Runner, 0, len(rp.Runners)),
		}
		for _, rr := range rp.Runners {
			runner := models.NewRunner(rr.Name, rr.Number)
			runner.Scratched = rr.NonRunner
			if rr.Win != nil {
				if win, ok := parsePriceToken(*rr.Win); ok {
					setOdds(&runner, a.Source, win)
				}
			}
			race.Runners = append(race.Runners, runner)
		}
		race.ID = adapter.RaceID("rp", venue, start, rp.RaceNumber, models.Thoroughbred)
		race.RecomputeFieldSize()
		races = append(races, race)
	}
	return races, nil
}
