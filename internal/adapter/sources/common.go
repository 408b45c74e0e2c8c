// Package sources holds the concrete per-source Scraper implementations.
// Each adapter embeds adapter.Base for circuit-breaking, rate-limiting, and
// post-parse validation, and implements only FetchData/ParseRaces.
package sources

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/models"
)

// fetchText runs a single fetch through the shared Fetcher, returning the
// response body. Fetch errors already carry the originating URL (set by the
// engine layer), which adapter.Base relies on to register manual overrides.
func fetchText(ctx context.Context, f *fetcher.Fetcher, preferredEngine, url string, headers map[string]string) (string, error) {
	resp, err := f.Fetch(ctx, url, preferredEngine, fetcher.FetchOptions{Headers: headers})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// normalizeVenue trims and collapses whitespace in a raw venue string,
// leaving casing alone since Race.DedupKey already canonicalizes case.
func normalizeVenue(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// parsePriceToken converts a UK/Irish fractional price ("5/2"), "Evens"/"EVS",
// or a plain decimal string into a decimal win price. ok is false for
// non-runner markers ("SP", "NR", "-").
func parsePriceToken(raw string) (float64, bool) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	switch token {
	case "", "SP", "NR", "-", "N/A":
		return 0, false
	case "EVS", "EVEN", "EVENS":
		return 2.0, true
	}

	if strings.Contains(token, "/") {
		parts := strings.SplitN(token, "/", 2)
		num, err1 := strconv.ParseFloat(parts[0], 64)
		den, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, false
		}
		return num/den + 1.0, true
	}

	dec, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return dec, true
}

// parseClockTime combines a yyyy-mm-dd date string with an HH:MM clock
// reading into a full timestamp in the given location.
func parseClockTime(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+strings.TrimSpace(clock), loc)
}

func easternLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

func londonLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}
	return loc
}

func sydneyLocation() *time.Location {
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		return time.UTC
	}
	return loc
}

func torontoLocation() *time.Location {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		return time.UTC
	}
	return loc
}

// pageDelimiter separates independently fetched HTML documents packed into
// a single raw payload by adapters whose FetchData crawls multiple pages
// (index -> per-venue -> per-race) before a single ParseRaces call.
const pageDelimiter = "\x00PAGE\x00"

// packDate prefixes a fetched body with the request date, the mechanism
// HTML adapters use to thread the date from FetchData into ParseRaces
// without relying on shared mutable state (Scraper.ParseRaces takes no
// date argument, and adapter instances may be invoked for different dates
// concurrently).
func packDate(date, body string) string {
	return date + "\n" + body
}

// unpackDate reverses packDate.
func unpackDate(raw string) (date, body string, ok bool) {
	return strings.Cut(raw, "\n")
}

// setOdds records a source's win price on a runner, tagging it with source
// and timestamp, leaving the trust/best-price resolution to post-parse
// validation in adapter.Base.
func setOdds(r *models.Runner, source string, win float64) {
	if r.Odds == nil {
		r.Odds = make(map[string]models.OddsData)
	}
	od := models.OddsDataFromFloat(win)
	od.Source = source
	r.Odds[source] = od
}
