package sources

import (
	"context"
	"fmt"
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

// Equibase scrapes equibase.com race entries, grounded on
// equibase_adapter.py's three-step crawl (entries index -> per-track page
// -> per-race page). This is pre-race entries/odds data; finish-line
// results come from the separate EquibaseResults adapter.
type Equibase struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewEquibase(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *Equibase {
	return &Equibase{
		Base:    adapter.NewBase("Equibase", adapter.Discovery, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

func (a *Equibase) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *Equibase) FetchData(ctx context.Context, date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", apperrors.New(a.Source, apperrors.KindConfiguration, "invalid date", err)
	}
	indexURL := fmt.Sprintf("https://www.equibase.com/entries/Entries.cfm?ELEC_DATE=%d/%d/%d&STYLE=EQB", d.Month(), d.Day(), d.Year())
	indexHTML, err := fetchText(ctx, a.fetcher, a.PreferredEngine, indexURL, chromeHeaders())
	if err != nil {
		return "", err
	}

	indexDoc, err := parseDocument(indexHTML)
	if err != nil {
		return "", apperrors.New(a.Source, apperrors.KindParsing, "parsing entries index", err)
	}

	var trackURLs []string
	indexDoc.Find("div.track-information a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.Contains(href, "race=") {
			return
		}
		trackURLs = append(trackURLs, "https://www.equibase.com"+href)
	})

	var raceURLs []string
	for _, trackURL := range trackURLs {
		trackHTML, terr := fetchText(ctx, a.fetcher, a.PreferredEngine, trackURL, chromeHeaders())
		if terr != nil {
			continue
		}
		trackDoc, derr := parseDocument(trackHTML)
		if derr != nil {
			continue
		}
		trackDoc.Find("a.program-race-link").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				raceURLs = append(raceURLs, "https://www.equibase.com"+href)
			}
		})
	}

	var pages []string
	for _, raceURL := range raceURLs {
		html, rerr := fetchText(ctx, a.fetcher, a.PreferredEngine, raceURL, chromeHeaders())
		if rerr != nil {
			continue
		}
		pages = append(pages, html)
	}
	return packDate(date, strings.Join(pages, pageDelimiter)), nil
}

func (a *Equibase) ParseRaces(raw string) ([]models.Race, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}

	var races []models.Race
	for _, page := range strings.Split(body, pageDelimiter) {
		if strings.TrimSpace(page) == "" {
			continue
		}
		doc, err := parseDocument(page)
		if err != nil {
			continue
		}
		venueRaw := selText(doc.Selection, "div.track-information strong")
		raceNumStr := strings.TrimPrefix(strings.TrimSpace(selText(doc.Selection, "div.race-information strong")), "Race")
		raceNumber, nerr := strconv.Atoi(strings.TrimSpace(raceNumStr))
		postTime := selText(doc.Selection, "p.post-time span")
		if venueRaw == "" || nerr != nil || postTime == "" {
			continue
		}
		start, terr := parseEquibasePostTime(date, postTime)
		if terr != nil {
			continue
		}

		venue := normalizeVenue(venueRaw)
		race := models.Race{
			Venue:      venue,
			RaceNumber: raceNumber,
			StartTime:  start,
			Source:     a.Source,
			Discipline: models.Thoroughbred,
		}
		doc.Find("table.entries-table tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 10 {
				return
			}
			num, nerr := strconv.Atoi(strings.TrimSpace(cells.Eq(0).Text()))
			if nerr != nil {
				return
			}
			name := strings.TrimSpace(cells.Eq(2).Text())
			if name == "" {
				return
			}
			class, _ := row.Attr("class")
			runner := models.NewRunner(name, num)
			runner.Scratched = strings.Contains(strings.ToLower(class), "scratched")
			if !runner.Scratched {
				if win, ok := parsePriceToken(strings.TrimSpace(cells.Eq(9).Text())); ok && win < 999 {
					setOdds(&runner, a.Source, win)
				}
			}
			race.Runners = append(race.Runners, runner)
		})
		race.ID = adapter.RaceID("eqb", venue, start, raceNumber, models.Thoroughbred)
		race.RecomputeFieldSize()
		races = append(races, race)
	}
	return races, nil
}

// parseEquibasePostTime reads a "Post Time: 12:30 PM ET" label into a full
// Eastern timestamp on date.
func parseEquibasePostTime(date, label string) (time.Time, error) {
	fields := strings.Fields(label)
	if n := len(fields); n > 0 && strings.EqualFold(fields[n-1], "ET") {
		fields = fields[:n-1]
	}
	if len(fields) < 2 {
		return time.Time{}, apperrors.New("Equibase", apperrors.KindParsing, "malformed post time label", nil)
	}
	clock := fields[len(fields)-2] + " " + fields[len(fields)-1]
	return time.ParseInLocation("2006-01-02 3:04 PM", date+" "+clock, easternLocation())
}
