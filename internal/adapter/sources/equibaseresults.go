package sources

import (
	"context"
	"fmt"
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

// EquibaseResults scrapes equibase.com's chart-summary pages, grounded on
// EquibaseResultsAdapter's index -> track-summary crawl. A summary page
// holds several race tables back to back, each followed by its dividend
// tables, so ParseResults walks table boundaries rather than per-race pages.
type EquibaseResults struct {
	adapter.Base
	fetcher *fetcher.Fetcher
}

func NewEquibaseResults(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64) *EquibaseResults {
	return &EquibaseResults{
		Base:    adapter.NewBase("EquibaseResults", adapter.Results, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher: f,
	}
}

// GetRaces satisfies adapter.Adapter so EquibaseResults can sit in the same
// registry as every discovery source; Engine's tiered fetch never selects it
// since its AdapterType is Results, not Discovery.
func (a *EquibaseResults) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

// GetResultRaces is the audit-facing entry point: same resilience
// orchestration as GetRaces, but returns judged ResultRace data.
func (a *EquibaseResults) GetResultRaces(ctx context.Context, date string) ([]models.ResultRace, error) {
	return a.RunResults(ctx, date, a)
}

var sumLinkPattern = regexp.MustCompile(`href="([^"]*\d{6}sum\.html)"`)

func (a *EquibaseResults) FetchData(ctx context.Context, date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", apperrors.New(a.Source, apperrors.KindConfiguration, "invalid date", err)
	}
	indexURL := fmt.Sprintf("https://www.equibase.com/static/chart/summary/%ssum.html", d.Format("060102"))
	indexHTML, err := fetchText(ctx, a.fetcher, a.PreferredEngine, indexURL, chromeHeaders())
	if err != nil {
		return "", err
	}

	trackURLs := map[string]bool{}
	for _, m := range sumLinkPattern.FindAllStringSubmatch(indexHTML, -1) {
		trackURLs[normalizeEquibaseLink(m[1])] = true
	}

	var pages []string
	for url := range trackURLs {
		html, terr := fetchText(ctx, a.fetcher, a.PreferredEngine, url, chromeHeaders())
		if terr != nil {
			continue
		}
		pages = append(pages, html)
	}
	if len(pages) == 0 {
		// The index page itself may already be a single track's summary chart.
		pages = append(pages, indexHTML)
	}
	return packDate(date, strings.Join(pages, pageDelimiter)), nil
}

func normalizeEquibaseLink(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	path := strings.TrimPrefix(href, "/")
	if !strings.Contains(path, "static/chart/summary/") {
		path = "static/chart/summary/" + path
	}
	return "https://www.equibase.com/" + path
}

func (a *EquibaseResults) ParseRaces(raw string) ([]models.Race, error) {
	results, err := a.ParseResults(raw)
	if err != nil {
		return nil, err
	}
	races := make([]models.Race, 0, len(results))
	for _, rr := range results {
		races = append(races, rr.Race)
	}
	return races, nil
}

func (a *EquibaseResults) ParseResults(raw string) ([]models.ResultRace, error) {
	date, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}

	var out []models.ResultRace
	for _, page := range strings.Split(body, pageDelimiter) {
		if strings.TrimSpace(page) == "" {
			continue
		}
		doc, err := parseDocument(page)
		if err != nil {
			continue
		}
		venueRaw := selText(doc.Selection, "h3")
		if venueRaw == "" {
			venueRaw = selText(doc.Selection, "h2")
		}
		venue := normalizeVenue(venueRaw)
		if venue == "" {
			continue
		}

		tables := doc.Find("table")
		type tableSpan struct {
			table *goquery.Selection
			idx   int
		}
		var raceTables []tableSpan
		tables.Each(func(i int, s *goquery.Selection) {
			header := selText(s, "thead tr th")
			if strings.Contains(header, "Race") {
				raceTables = append(raceTables, tableSpan{table: s, idx: i})
			}
		})

		allTables := tables
		for j, rt := range raceTables {
			nextIdx := allTables.Length()
			if j+1 < len(raceTables) {
				nextIdx = raceTables[j+1].idx
			}
			var dividendTables []*goquery.Selection
			allTables.Each(func(i int, s *goquery.Selection) {
				if i > rt.idx && i < nextIdx {
					dividendTables = append(dividendTables, s)
				}
			})
			exotics := extractExoticPayouts(dividendTables)

			rr, perr := parseEquibaseRaceTable(rt.table, venue, date, exotics)
			if perr != nil || rr == nil {
				continue
			}
			out = append(out, *rr)
		}
	}
	return out, nil
}

var raceNumberPattern = regexp.MustCompile(`Race\s+(\d+)`)
var clockPattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*([APap][Mm])`)

func parseEquibaseRaceTable(table *goquery.Selection, venue, date string, exotics map[string]models.ExoticPayout) (*models.ResultRace, error) {
	header := selText(table, "thead tr th")
	m := raceNumberPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, apperrors.New("EquibaseResults", apperrors.KindParsing, "no race number in header", nil)
	}
	raceNumber, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}

	start := parseEquibaseHeaderTime(header, date)

	race := models.Race{
		Venue:      venue,
		RaceNumber: raceNumber,
		StartTime:  start,
		Source:     "EquibaseResults",
		Discipline: models.Thoroughbred,
	}

	var positions []models.FinishPosition
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		name := strings.TrimSpace(cells.Eq(2).Text())
		upper := strings.ToUpper(name)
		if name == "" || upper == "HORSE" || upper == "NAME" || upper == "RUNNER" {
			return
		}
		posText := strings.TrimSpace(cells.Eq(0).Text())
		numText := strings.TrimSpace(cells.Eq(1).Text())
		number, nerr := strconv.Atoi(numText)
		if nerr != nil {
			return
		}

		var finalOdds *float64
		if cells.Length() > 3 {
			if v, ok := parsePriceToken(strings.TrimSpace(cells.Eq(3).Text())); ok {
				finalOdds = &v
			}
		}
		var placePayout *float64
		if cells.Length() >= 7 {
			if v, ok := parseCurrencyValue(cells.Eq(5).Text()); ok && v > 0 {
				placePayout = &v
			}
		}

		fp := models.FinishPosition{
			Number:      number,
			Name:        name,
			FinalOdds:   finalOdds,
			PlacePayout: placePayout,
		}
		if pos, perr := strconv.Atoi(posText); perr == nil {
			fp.Position = &pos
		}
		positions = append(positions, fp)
		race.Runners = append(race.Runners, models.Runner{Name: name, Number: number})
	})
	if len(positions) == 0 {
		return nil, apperrors.New("EquibaseResults", apperrors.KindParsing, "no runners parsed", nil)
	}

	race.ID = adapter.RaceID("eqb_res", venue, start, raceNumber, models.Thoroughbred)
	race.RecomputeFieldSize()

	return &models.ResultRace{Race: race, Positions: positions, Exotics: exotics}, nil
}

func parseEquibaseHeaderTime(header, date string) time.Time {
	m := clockPattern.FindStringSubmatch(header)
	if m != nil {
		if t, err := time.ParseInLocation("2006-01-02 3:04 PM", date+" "+m[1]+" "+strings.ToUpper(m[2]), easternLocation()); err == nil {
			return t
		}
	}
	if d, err := time.ParseInLocation("2006-01-02", date, easternLocation()); err == nil {
		return d
	}
	return time.Time{}
}

var betAliases = map[string][]string{
	"superfecta": {"superfecta", "first 4", "first four"},
	"trifecta":   {"trifecta", "tricast"},
	"exacta":     {"exacta", "forecast"},
}

// extractExoticPayouts scans dividend tables sitting between two race
// tables for trifecta/exacta/superfecta rows, grounded on
// extract_exotic_payouts's alias matching and column layout.
func extractExoticPayouts(tables []*goquery.Selection) map[string]models.ExoticPayout {
	out := map[string]models.ExoticPayout{}
	for _, table := range tables {
		text := strings.ToLower(table.Text())
		for betType, aliases := range betAliases {
			if _, done := out[betType]; done {
				continue
			}
			if !containsAny(text, aliases) {
				continue
			}
			table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
				rowText := strings.ToLower(row.Text())
				if !containsAny(rowText, aliases) {
					return true
				}
				cells := row.Find("td")
				var combo string
				var payout float64
				var ok bool
				switch {
				case cells.Length() >= 3:
					combo = strings.TrimSpace(cells.Eq(1).Text())
					payout, ok = parseCurrencyValue(cells.Eq(2).Text())
				case cells.Length() >= 2:
					combo = strings.TrimSpace(cells.Eq(0).Text())
					payout, ok = parseCurrencyValue(cells.Eq(1).Text())
				}
				if ok && payout > 0 {
					out[betType] = models.ExoticPayout{Payout: payout, Combination: combo}
					return false
				}
				return true
			})
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

var currencyPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

func parseCurrencyValue(raw string) (float64, bool) {
	m := currencyPattern.FindString(raw)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
