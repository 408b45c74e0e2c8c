package sources

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

// DRF scrapes drf.com's entries page, grounded on drf_adapter.py.
type DRF struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewDRF(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *DRF {
	return &DRF{
		Base:    adapter.NewBase("DRF", adapter.Discovery, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

func (a *DRF) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *DRF) FetchData(ctx context.Context, date string) (string, error) {
	url := "https://www.drf.com/entries/" + date + "/USA"
	html, err := fetchText(ctx, a.fetcher, a.PreferredEngine, url, chromeHeaders())
	if err != nil {
		return "", err
	}
	return packDate(date, html), nil
}

func (a *DRF) ParseRaces(raw string) ([]models.Race, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}
	doc, err := parseDocument(body)
	if err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "parsing entries page", err)
	}

	venueRaw := selText(doc.Selection, "div.track-info h1")
	if venueRaw == "" {
		return nil, nil
	}
	venueRaw = strings.TrimPrefix(venueRaw, "Entries for ")
	venueRaw = strings.SplitN(venueRaw, " - ", 2)[0]
	venue := normalizeVenue(venueRaw)

	var races []models.Race
	doc.Find("div.race-entries").Each(func(_ int, entry *goquery.Selection) {
		raceNumStr, _ := entry.Attr("data-race-number")
		raceNumber, nerr := strconv.Atoi(raceNumStr)
		if nerr != nil {
			return
		}
		postTime := strings.TrimPrefix(selText(entry, ".post-time"), "Post Time: ")
		if postTime == "" {
			return
		}
		start, terr := parseClockTime(date, postTime, easternLocation())
		if terr != nil {
			return
		}

		race := models.Race{
			Venue:      venue,
			RaceNumber: raceNumber,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Thoroughbred,
		}
		entry.Find("li.entry").Each(func(_ int, li *goquery.Selection) {
			class, _ := li.Attr("class")
			if strings.Contains(class, "scratched") {
				return
			}
			numText := selText(li, ".program-number")
			num, nerr := strconv.Atoi(numText)
			if nerr != nil {
				return
			}
			name := selText(li, ".horse-name")
			if name == "" {
				return
			}
			runner := models.NewRunner(name, num)
			oddsText := strings.ReplaceAll(selText(li, ".odds"), "-", "/")
			if win, ok := parsePriceToken(oddsText); ok {
				setOdds(&runner, a.Source, win)
			}
			race.Runners = append(race.Runners, runner)
		})
		if len(race.Runners) == 0 {
			return
		}
		race.ID = adapter.RaceID("drf", venue, start, raceNumber, models.Thoroughbred)
		race.RecomputeFieldSize()
		races = append(races, race)
	})
	return races, nil
}
