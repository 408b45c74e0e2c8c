package sources

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

type pointsBetFeed struct {
	Events []pointsBetEvent `json:"events"`
}

type pointsBetEvent struct {
	ID         string  `json:"id"`
	StartTime  string  `json:"startTime"`
	RaceNumber int     `json:"raceNumber"`
	Venue      struct {
		Name string `json:"name"`
	} `json:"venue"`
	Competitors []struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Number string  `json:"number"`
		Price  float64 `json:"price"`
	} `json:"competitors"`
}

// PointsBetGreyhound fetches greyhound events from the PointsBet API,
// grounded on pointsbet_greyhound_adapter.py (itself annotated upstream as
// a hypothetical shape pending confirmation against the live API).
type PointsBetGreyhound struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewPointsBetGreyhound(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *PointsBetGreyhound {
	return &PointsBetGreyhound{
		Base:    adapter.NewBase("PointsBetGreyhound", adapter.Discovery, models.Greyhound, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

func (a *PointsBetGreyhound) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *PointsBetGreyhound) FetchData(ctx context.Context, date string) (string, error) {
	url := "https://api.pointsbet.com/api/v2/sports/greyhound-racing/events/by-date/" + date
	return fetchText(ctx, a.fetcher, a.PreferredEngine, url, map[string]string{"Accept": "application/json"})
}

func (a *PointsBetGreyhound) ParseRaces(raw string) ([]models.Race, error) {
	var feed pointsBetFeed
	if err := json.Unmarshal([]byte(raw), &feed); err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "decoding events feed", err)
	}

	var races []models.Race
	for _, event := range feed.Events {
		if len(event.Competitors) == 0 || event.StartTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, event.StartTime)
		if err != nil {
			continue
		}
		venue := normalizeVenue(event.Venue.Name)
		race := models.Race{
			Venue:      venue,
			RaceNumber: event.RaceNumber,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Greyhound,
		}
		for _, c := range event.Competitors {
			if c.Price <= 0 {
				continue
			}
			num, _ := strconv.Atoi(c.Number)
			runner := models.NewRunner(c.Name, num)
			setOdds(&runner, a.Source, c.Price)
			race.Runners = append(race.Runners, runner)
		}
		if len(race.Runners) == 0 {
			continue
		}
		race.ID = adapter.RaceID("pbg", venue, start, event.RaceNumber, models.Greyhound)
		race.RecomputeFieldSize()
		races = append(races, race)
	}
	return races, nil
}
