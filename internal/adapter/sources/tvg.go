package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

type tvgSummary struct {
	Tracks []struct {
		ID    string `json:"id"`
		Races []struct {
			ID string `json:"id"`
		} `json:"races"`
	} `json:"tracks"`
}

type tvgRaceDetail struct {
	Track struct {
		Name string `json:"name"`
	} `json:"track"`
	Race struct {
		Number   int    `json:"number"`
		PostTime string `json:"postTime"`
	} `json:"race"`
	Runners []struct {
		ProgramNumber string `json:"programNumber"`
		Name          string `json:"name"`
		Scratched     bool   `json:"scratched"`
		Odds          struct {
			CurrentPrice struct {
				Fractional string `json:"fractional"`
			} `json:"currentPrice"`
		} `json:"odds"`
	} `json:"runners"`
}

// TVG fetches US thoroughbred and harness post times from the TVG API,
// grounded on tvg_adapter.py's two-step summary-then-detail fan-out.
type TVG struct {
	adapter.Base
	fetcher *fetcher.Fetcher
	apiKey  string
}

func NewTVG(f *fetcher.Fetcher, apiKey string, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *TVG {
	return &TVG{
		Base:    adapter.NewBase("TVG", adapter.Discovery, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
		apiKey:  apiKey,
	}
}

func (a *TVG) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *TVG) FetchData(ctx context.Context, date string) (string, error) {
	headers := map[string]string{"X-Api-Key": a.apiKey, "Accept": "application/json"}
	summaryURL := fmt.Sprintf("https://api.tvg.com/v2/races/summary?date=%s&country=USA", date)
	raw, err := fetchText(ctx, a.fetcher, a.PreferredEngine, summaryURL, headers)
	if err != nil {
		return "", err
	}

	var summary tvgSummary
	if jerr := json.Unmarshal([]byte(raw), &summary); jerr != nil {
		return "", apperrors.New(a.Source, apperrors.KindParsing, "decoding summary response", jerr)
	}

	var details []string
	for _, track := range summary.Tracks {
		for _, race := range track.Races {
			detailURL := fmt.Sprintf("https://api.tvg.com/v2/races/%s/%s", track.ID, race.ID)
			detail, derr := fetchText(ctx, a.fetcher, a.PreferredEngine, detailURL, headers)
			if derr != nil {
				continue
			}
			details = append(details, detail)
		}
	}
	return "[" + strings.Join(details, ",") + "]", nil
}

func (a *TVG) ParseRaces(raw string) ([]models.Race, error) {
	var rawDetails []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawDetails); err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "decoding race details", err)
	}

	var races []models.Race
	for _, rd := range rawDetails {
		var detail tvgRaceDetail
		if err := json.Unmarshal(rd, &detail); err != nil {
			continue
		}
		if detail.Track.Name == "" || detail.Race.PostTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, detail.Race.PostTime)
		if err != nil {
			continue
		}
		venue := normalizeVenue(detail.Track.Name)
		race := models.Race{
			Venue:      venue,
			RaceNumber: detail.Race.Number,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Thoroughbred,
		}
		for _, rr := range detail.Runners {
			if rr.Scratched {
				continue
			}
			num, _ := strconv.Atoi(strings.TrimSuffix(rr.ProgramNumber, "A"))
			runner := models.NewRunner(rr.Name, num)
			if win, ok := parsePriceToken(rr.Odds.CurrentPrice.Fractional); ok {
				setOdds(&runner, a.Source, win)
			}
			race.Runners = append(race.Runners, runner)
		}
		if len(race.Runners) == 0 {
			continue
		}
		race.ID = adapter.RaceID("tvg", venue, start, detail.Race.Number, models.Thoroughbred)
		race.RecomputeFieldSize()
		races = append(races, race)
	}
	return races, nil
}
