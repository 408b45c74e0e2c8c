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
	"github.com/yourusername/raceintel/internal/headerbuilder"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

// AtTheRaces scrapes attheraces.com racecards, grounded on
// at_the_races_adapter.py. Unlike the original's JS-driven fallback chain,
// this is a pure HTML scrape: attheraces.com serves runner data
// server-rendered, so the plain/impersonating engines suffice.
type AtTheRaces struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewAtTheRaces(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *AtTheRaces {
	return &AtTheRaces{
		Base:    adapter.NewBase("AtTheRaces", adapter.Discovery, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

func (a *AtTheRaces) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *AtTheRaces) FetchData(ctx context.Context, date string) (string, error) {
	url := fmt.Sprintf("https://www.attheraces.com/racecards/%s", date)
	html, err := fetchText(ctx, a.fetcher, a.PreferredEngine, url, chromeHeaders())
	if err != nil {
		return "", err
	}
	return packDate(date, html), nil
}

func (a *AtTheRaces) ParseRaces(raw string) ([]models.Race, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "parsing racecard index", err)
	}

	var races []models.Race
	doc.Find("a[href^='/racecard/']").Each(func(i int, link *goquery.Selection) {
		card := link.Closest(".racecard")
		if card.Length() == 0 {
			card = link.Parent()
		}
		venueRaw := selText(card, "h1 a")
		if venueRaw == "" {
			venueRaw = selText(card, "h1")
		}
		timeStr := selText(card, "h1 span")
		if venueRaw == "" || timeStr == "" {
			return
		}
		loc := londonLocation()
		start, err := parseClockTime(date, timeStr, loc)
		if err != nil {
			return
		}
		venue := normalizeVenue(venueRaw)
		race := models.Race{
			Venue:      venue,
			RaceNumber: i + 1,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Thoroughbred,
		}
		card.Find(".horse-in-racecard").Each(func(j int, horse *goquery.Selection) {
			name := selText(horse, ".runner-name")
			if name == "" {
				return
			}
			numStr := selText(horse, ".runner-number")
			num, _ := strconv.Atoi(numStr)
			runner := models.NewRunner(name, num)
			if win, ok := parsePriceToken(selText(horse, ".runner-price")); ok {
				setOdds(&runner, a.Source, win)
			}
			race.Runners = append(race.Runners, runner)
		})
		race.ID = adapter.RaceID("atr", venue, start, race.RaceNumber, models.Thoroughbred)
		race.RecomputeFieldSize()
		races = append(races, race)
	})
	return races, nil
}

func chromeHeaders() map[string]string {
	h := headerbuilder.Chrome()
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
