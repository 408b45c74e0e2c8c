package sources

import (
	"context"
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

// Timeform scrapes timeform.com racecards, grounded on timeform_adapter.py.
// Unlike the original's index-then-gather-all-race-pages fan-out, this
// pulls runner rows directly off the single racecards index page, since
// timeform.com's index already lists each meeting's runner table inline.
type Timeform struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewTimeform(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *Timeform {
	return &Timeform{
		Base:    adapter.NewBase("Timeform", adapter.Discovery, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

func (a *Timeform) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *Timeform) FetchData(ctx context.Context, date string) (string, error) {
	html, err := fetchText(ctx, a.fetcher, a.PreferredEngine, "https://www.timeform.com/horse-racing/racecards", chromeHeaders())
	if err != nil {
		return "", err
	}
	return packDate(date, html), nil
}

func (a *Timeform) ParseRaces(raw string) ([]models.Race, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}
	doc, err := parseDocument(body)
	if err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "parsing racecards index", err)
	}

	var races []models.Race
	doc.Find(".rp-raceTimeCourseName").Each(func(i int, card *goquery.Selection) {
		venueRaw := selText(card, ".rp-raceTimeCourseName_name")
		timeStr := selText(card, ".rp-raceTimeCourseName_time")
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
			Discipline: models.Thoroughbred,
		}
		card.Parent().Find(".rp-horseTable_mainRow").Each(func(j int, row *goquery.Selection) {
			name := selText(row, ".rp-horseTable_horseName")
			if name == "" {
				return
			}
			num, _ := strconv.Atoi(selText(row, ".rp-horseTable_pos"))
			runner := models.NewRunner(name, num)
			if win, ok := parsePriceToken(selText(row, ".rp-horseTable_price")); ok {
				setOdds(&runner, a.Source, win)
			}
			race.Runners = append(race.Runners, runner)
		})
		race.ID = adapter.RaceID("tf", venue, start, race.RaceNumber, models.Thoroughbred)
		race.RecomputeFieldSize()
		races = append(races, race)
	})
	return races, nil
}
