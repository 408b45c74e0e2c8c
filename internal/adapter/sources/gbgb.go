package sources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

type gbgbMeeting struct {
	TrackName string    `json:"trackName"`
	Races     []gbgbRace `json:"races"`
}

type gbgbRace struct {
	RaceID     string     `json:"raceId"`
	RaceNumber int        `json:"raceNumber"`
	RaceTime   string     `json:"raceTime"`
	Traps      []gbgbTrap `json:"traps"`
}

type gbgbTrap struct {
	TrapNumber int    `json:"trapNumber"`
	DogName    string `json:"dogName"`
	SP         string `json:"sp"`
}

// GBGB fetches the Greyhound Board of Great Britain's public meeting feed,
// grounded on gbgb_api_adapter.py.
type GBGB struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewGBGB(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *GBGB {
	return &GBGB{
		Base:    adapter.NewBase("GBGB", adapter.Discovery, models.Greyhound, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

func (a *GBGB) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *GBGB) FetchData(ctx context.Context, date string) (string, error) {
	url := "https://api.gbgb.org.uk/api/results/meeting/" + date
	return fetchText(ctx, a.fetcher, a.PreferredEngine, url, map[string]string{"Accept": "application/json"})
}

func (a *GBGB) ParseRaces(raw string) ([]models.Race, error) {
	var meetings []gbgbMeeting
	if err := json.Unmarshal([]byte(raw), &meetings); err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "decoding meeting feed", err)
	}

	var races []models.Race
	for _, meeting := range meetings {
		venue := normalizeVenue(meeting.TrackName)
		for _, gr := range meeting.Races {
			if gr.RaceID == "" || gr.RaceNumber == 0 || gr.RaceTime == "" {
				continue
			}
			start, err := time.Parse(time.RFC3339, gr.RaceTime)
			if err != nil {
				continue
			}
			race := models.Race{
				Venue:      venue,
				RaceNumber: gr.RaceNumber,
				StartTime:  start,
				Source:     a.Source,
				Discipline: models.Greyhound,
			}
			for _, trap := range gr.Traps {
				if trap.TrapNumber == 0 || trap.DogName == "" {
					continue
				}
				runner := models.NewRunner(trap.DogName, trap.TrapNumber)
				if win, ok := parsePriceToken(trap.SP); ok {
					setOdds(&runner, a.Source, win)
				}
				race.Runners = append(race.Runners, runner)
			}
			race.ID = adapter.RaceID("gbgb", venue, start, gr.RaceNumber, models.Greyhound)
			race.RecomputeFieldSize()
			races = append(races, race)
		}
	}
	return races, nil
}
