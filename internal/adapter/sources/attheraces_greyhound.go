package sources

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

// AtTheRacesGreyhound scrapes greyhounds.attheraces.com, grounded on
// at_the_races_greyhound_adapter.py. The original reaches for a
// Playwright-driven SPA engine because the data lives behind client-side
// rendering; here that maps to requesting the browser_impersonate engine
// as preferred, with plain as fallback.
type AtTheRacesGreyhound struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewAtTheRacesGreyhound(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *AtTheRacesGreyhound {
	b := adapter.NewBase("AtTheRacesGreyhound", adapter.Discovery, models.Greyhound, monitor, overrides, logger, requestsPerSecond)
	b.PreferredEngine = "browser_impersonate"
	return &AtTheRacesGreyhound{Base: b, fetcher: f}
}

func (a *AtTheRacesGreyhound) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *AtTheRacesGreyhound) FetchData(ctx context.Context, date string) (string, error) {
	url := fmt.Sprintf("https://greyhounds.attheraces.com/racecards/%s", date)
	html, err := fetchText(ctx, a.fetcher, a.PreferredEngine, url, chromeHeaders())
	if err != nil {
		return "", err
	}
	return packDate(date, html), nil
}

func (a *AtTheRacesGreyhound) ParseRaces(raw string) ([]models.Race, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}
	doc, err := parseDocument(body)
	if err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "parsing racecard index", err)
	}

	var races []models.Race
	doc.Find(".meeting-race").Each(func(i int, card *goquery.Selection) {
		venueRaw := selText(card, ".meeting-name")
		timeStr := selText(card, ".race-time")
		if venueRaw == "" || timeStr == "" {
			return
		}
		start, err := parseClockTime(date, timeStr, londonLocation())
		if err != nil {
			return
		}
		venue := normalizeVenue(venueRaw)
		race := models.Race{
			Venue:      venue,
			RaceNumber: i + 1,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Greyhound,
		}
		card.Find(".trap").Each(func(j int, trap *goquery.Selection) {
			name := selText(trap, ".dog-name")
			if name == "" {
				return
			}
			num, _ := strconv.Atoi(selText(trap, ".trap-number"))
			runner := models.NewRunner(name, num)
			if win, ok := parsePriceToken(selText(trap, ".dog-price")); ok {
				setOdds(&runner, a.Source, win)
			}
			race.Runners = append(race.Runners, runner)
		})
		race.ID = adapter.RaceID("atrg", venue, start, race.RaceNumber, models.Greyhound)
		race.RecomputeFieldSize()
		races = append(races, race)
	})
	return races, nil
}
