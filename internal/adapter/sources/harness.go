package sources

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

var (
	harnessRaceSplit = regexp.MustCompile(`(\d+)\s+--\s+`)
	harnessPostTime  = regexp.MustCompile(`(?i)Post\s+Time:\s*(\d{1,2}:\d{2}\s*[APM]{2})`)
	harnessEntryLine = regexp.MustCompile(`(?m)^\s*(\d+)\s+([A-Za-z' .-]+?)\s+([0-9]+(?:/[0-9]+)?|EVEN|EVS)\s*$`)
)

// Harness scrapes a plain-text race-card listing for Standardbred harness
// meetings, grounded on standardbred_canada_adapter.py's <pre>-block
// regex parser (the original drives this page with a browser because the
// entries form is JS-submitted; this adapter fetches the resulting
// entries listing page directly).
type Harness struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewHarness(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *Harness {
	b := adapter.NewBase("StandardbredCanada", adapter.Discovery, models.Harness, monitor, overrides, logger, requestsPerSecond)
	b.PreferredEngine = "browser_impersonate"
	return &Harness{Base: b, fetcher: f}
}

func (a *Harness) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *Harness) FetchData(ctx context.Context, date string) (string, error) {
	html, err := fetchText(ctx, a.fetcher, a.PreferredEngine, "https://standardbredcanada.ca/entries", chromeHeaders())
	if err != nil {
		return "", err
	}
	return packDate(date, html), nil
}

func (a *Harness) ParseRaces(raw string) ([]models.Race, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}
	raceDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindConfiguration, "invalid date", err)
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "parsing entries index", err)
	}

	var races []models.Race
	doc.Find(".racing-results-ex-wrap > div").Each(func(_ int, container *goquery.Selection) {
		venueRaw := selText(container, "h4.track-name")
		if venueRaw == "" {
			return
		}
		venue := normalizeVenue(strings.ReplaceAll(venueRaw, "*", ""))

		container.Find("pre").Each(func(_ int, pre *goquery.Selection) {
			text := pre.Text()
			chunks := harnessRaceSplit.Split(text, -1)
			nums := harnessRaceSplit.FindAllStringSubmatch(text, -1)
			for i, m := range nums {
				if i+1 >= len(chunks) {
					break
				}
				raceNumber, nerr := strconv.Atoi(m[1])
				if nerr != nil {
					continue
				}
				race, ok := parseHarnessRaceChunk(chunks[i+1], raceNumber, raceDate, venue, a.Source)
				if ok {
					races = append(races, race)
				}
			}
		})
	})
	return races, nil
}

func parseHarnessRaceChunk(content string, raceNumber int, raceDate time.Time, venue, source string) (models.Race, bool) {
	start := time.Date(raceDate.Year(), raceDate.Month(), raceDate.Day(), 0, 0, 0, 0, time.UTC)
	if m := harnessPostTime.FindStringSubmatch(content); m != nil {
		if t, err := time.Parse("3:04 PM", strings.ToUpper(strings.Join(strings.Fields(m[1]), " "))); err == nil {
			start = time.Date(raceDate.Year(), raceDate.Month(), raceDate.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		}
	}

	race := models.Race{
		Venue:      venue,
		RaceNumber: raceNumber,
		StartTime:  start,
		Source:     source,
		Discipline: models.Harness,
	}
	for _, m := range harnessEntryLine.FindAllStringSubmatch(content, -1) {
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		runner := models.NewRunner(strings.TrimSpace(m[2]), num)
		if win, ok := parsePriceToken(m[3]); ok {
			setOdds(&runner, source, win)
		}
		race.Runners = append(race.Runners, runner)
	}
	if len(race.Runners) == 0 {
		return models.Race{}, false
	}
	race.ID = adapter.RaceID("sc", venue, start, raceNumber, models.Harness)
	race.RecomputeFieldSize()
	return race, true
}
