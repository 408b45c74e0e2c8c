package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/apperrors"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

var betfairRaceNumber = regexp.MustCompile(`\bR(\d{1,2})\b`)

// bfMarketCatalogue mirrors the shape of a Betfair listMarketCatalogue
// result, grounded on betfair_adapter.py's _parse_race.
type bfMarketCatalogue struct {
	MarketID        string       `json:"marketId"`
	MarketName      string       `json:"marketName"`
	MarketStartTime string       `json:"marketStartTime"`
	Event           bfEvent      `json:"event"`
	Runners         []bfRunner   `json:"runners"`
}

type bfEvent struct {
	Venue string `json:"venue"`
}

type bfRunner struct {
	SelectionID  int64  `json:"selectionId"`
	RunnerName   string `json:"runnerName"`
	SortPriority int    `json:"sortPriority"`
	Status       string `json:"status"`
}

// bfLoginResponse mirrors identitysso.betfair.com/api/login's JSON body.
type bfLoginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// BetfairHistorical fetches closed win markets from the Betfair Exchange
// listMarketCatalogue endpoint, grounded on betfair_adapter.py and the
// session-token-with-expiry idiom of betfair_auth_mixin.py. Exchange prices
// are not starting prices, so runners here carry no odds; the engine's
// deduplicator treats this source as a pure discovery/results feed and
// leaves price resolution to sources that quote a starting price.
//
// The historical catalogue endpoint only needs a username/password session
// login, so this adapter keeps its own small token cache.
type BetfairHistorical struct {
	adapter.Base
	fetcher    *fetcher.Fetcher
	appKey     string
	username   string
	password   string
	discipline models.Discipline

	mu          sync.Mutex
	sessionTok  string
	tokenExpiry time.Time
}

func NewBetfairHistorical(f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry, requestsPerSecond float64, appKey, username, password string) *BetfairHistorical {
	return &BetfairHistorical{
		Base:       adapter.NewBase("BetfairExchange", adapter.Results, models.Thoroughbred, monitor, overrides, logger, requestsPerSecond),
		fetcher:    f,
		appKey:     appKey,
		username:   username,
		password:   password,
		discipline: models.Thoroughbred,
	}
}

func (a *BetfairHistorical) GetRaces(ctx context.Context, date string) ([]models.Race, error) {
	return a.Run(ctx, date, a)
}

func (a *BetfairHistorical) FetchData(ctx context.Context, date string) (string, error) {
	token, err := a.sessionToken(ctx)
	if err != nil {
		return "", err
	}

	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", apperrors.New(a.Source, apperrors.KindConfiguration, "invalid date", err)
	}
	from := d.Format("2006-01-02T15:04:05Z")
	to := d.AddDate(0, 0, 1).Format("2006-01-02T15:04:05Z")

	body := fmt.Sprintf(`{"filter":{"eventTypeIds":["7"],"marketTypeCodes":["WIN"],"marketStartTime":{"from":"%s","to":"%s"}},"maxResults":1000,"marketProjection":["EVENT","RUNNER_DESCRIPTION"]}`, from, to)

	resp, err := a.fetcher.Fetch(ctx, "https://api.betfair.com/exchange/betting/rest/v1.0/listMarketCatalogue/", a.PreferredEngine, fetcher.FetchOptions{
		Method: "POST",
		Body:   body,
		Headers: map[string]string{
			"X-Application": a.appKey,
			"X-Authentication": token,
			"Content-Type":     "application/json",
			"Accept":           "application/json",
		},
	})
	if err != nil {
		return "", err
	}
	return packDate(date, resp.Text), nil
}

// sessionToken returns a cached Betfair session token, logging in again once
// the cached one is within five minutes of the teacher's observed 12h
// expiry window.
func (a *BetfairHistorical) sessionToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessionTok != "" && time.Now().Before(a.tokenExpiry.Add(-5*time.Minute)) {
		return a.sessionTok, nil
	}

	payload := "username=" + a.username + "&password=" + a.password
	resp, err := a.fetcher.Fetch(ctx, "https://identitysso.betfair.com/api/login", a.PreferredEngine, fetcher.FetchOptions{
		Method: "POST",
		Body:   payload,
		Headers: map[string]string{
			"X-Application": a.appKey,
			"Content-Type":  "application/x-www-form-urlencoded",
		},
	})
	if err != nil {
		return "", err
	}

	var login bfLoginResponse
	if err := json.Unmarshal([]byte(resp.Text), &login); err != nil {
		return "", apperrors.New(a.Source, apperrors.KindParsing, "decoding login response", err)
	}
	if login.Status != "SUCCESS" || login.Token == "" {
		return "", apperrors.New(a.Source, apperrors.KindAuthentication, "betfair login failed: "+login.Error, nil)
	}

	a.sessionTok = login.Token
	a.tokenExpiry = time.Now().Add(12 * time.Hour)
	return a.sessionTok, nil
}

func (a *BetfairHistorical) ParseRaces(raw string) ([]models.Race, error) {
	_, body, ok := unpackDate(raw)
	if !ok {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "missing date prefix", nil)
	}

	var markets []bfMarketCatalogue
	if err := json.Unmarshal([]byte(body), &markets); err != nil {
		return nil, apperrors.New(a.Source, apperrors.KindParsing, "decoding market catalogue", err)
	}

	var races []models.Race
	for _, market := range markets {
		if market.Event.Venue == "" || len(market.Runners) == 0 {
			continue
		}
		start, terr := time.Parse(time.RFC3339, market.MarketStartTime)
		if terr != nil {
			continue
		}
		venue := normalizeVenue(market.Event.Venue)
		raceNumber := extractBetfairRaceNumber(market.MarketName)

		race := models.Race{
			Venue:      venue,
			RaceNumber: raceNumber,
			StartTime:  start,
			Source:     a.Source,
			Discipline: a.discipline,
		}
		for i, runner := range market.Runners {
			num := runner.SortPriority
			if num == 0 {
				num = i + 1
			}
			r := models.NewRunner(runner.RunnerName, num)
			r.Scratched = runner.Status != "ACTIVE"
			race.Runners = append(race.Runners, r)
		}
		race.ID = adapter.RaceID("bf", venue, start, raceNumber, a.discipline)
		race.RecomputeFieldSize()
		races = append(races, race)
	}
	return races, nil
}

// extractBetfairRaceNumber pulls a race number out of a market name like
// "R1 1m Mdn Stks".
func extractBetfairRaceNumber(name string) int {
	m := betfairRaceNumber.FindStringSubmatch(strings.ToUpper(name))
	if m == nil {
		return 0
	}
	var n int
	fmt.Sscanf(m[1], "%d", &n)
	return n
}
