// Package auditor matches persisted predictions against freshly fetched
// result races, computes a cash/burn verdict for each, and writes the
// verdict fields back exactly once per prediction.
package auditor

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/models"
)

// StandardBet is the flat stake every verdict's profit is computed against.
const StandardBet = 2.00

// DefaultLookback bounds how far back an unaudited prediction's start_time
// may be and still be considered for this run.
const DefaultLookback = 48 * time.Hour

// PredictionStore is the persistence seam the Auditor reads pending tips
// from and writes verdicts back to.
type PredictionStore interface {
	UnauditedSince(ctx context.Context, since time.Time) ([]models.Prediction, error)
	SaveVerdicts(ctx context.Context, predictions []models.Prediction) error
}

// Auditor matches predictions to result races and computes verdicts.
type Auditor struct {
	store    PredictionStore
	lookback time.Duration
	logger   *logrus.Entry
}

// New builds an Auditor backed by store, using the default 48h lookback
// unless overridden.
func New(store PredictionStore, logger *logrus.Entry, lookback time.Duration) *Auditor {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Auditor{store: store, lookback: lookback, logger: logger.WithField("component", "auditor")}
}

// Run audits every pending prediction in the lookback window against
// results, persisting verdicts in one batch, and returns the audited set.
func (a *Auditor) Run(ctx context.Context, now time.Time, results []models.ResultRace) ([]models.Prediction, error) {
	since := now.Add(-a.lookback)
	pending, err := a.store.UnauditedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	idx := buildMatchIndex(results)
	audited := make([]models.Prediction, 0, len(pending))

	for _, p := range pending {
		p := p
		rr, tier, found := idx.Lookup(&p)
		if !found {
			continue
		}
		evaluate(&p, rr, tier, now)
		audited = append(audited, p)
	}

	if len(audited) == 0 {
		return audited, nil
	}
	if err := a.store.SaveVerdicts(ctx, audited); err != nil {
		return nil, err
	}
	return audited, nil
}

// evaluate computes the verdict, profit, and result-derived fields for one
// matched prediction, mutating it exactly once.
func evaluate(p *models.Prediction, rr *models.ResultRace, tier models.MatchTier, now time.Time) {
	p.MatchTier = tier
	p.AuditCompleted = true
	auditedAt := now
	p.AuditTimestamp = &auditedAt

	p.ActualTop5 = actualTop5(rr)
	p.Actual2ndFavOdds = actualSecondFavOdds(rr)
	setExotics(p, rr)

	number := selectionNumber(p)
	finish, ok := rr.PositionOf(number)
	if !ok {
		setVerdict(p, models.VerdictVoid, 0)
		return
	}
	p.SelectionPosition = finish.Position

	if finish.Position == nil {
		setVerdict(p, models.VerdictBurned, -StandardBet)
		return
	}

	placesPaid := models.PlacesPaid(rr.FieldSize)
	if *finish.Position > placesPaid {
		setVerdict(p, models.VerdictBurned, -StandardBet)
		return
	}

	if finish.PlacePayout != nil && *finish.PlacePayout > 0 {
		setVerdict(p, models.VerdictCashed, *finish.PlacePayout-StandardBet)
		return
	}

	ratio := 1.0 / 5.0
	if finish.FinalOdds != nil {
		ratio = (*finish.FinalOdds - 1.0) / 5.0
	}
	if ratio < 0.1 {
		ratio = 0.1
	}
	setVerdict(p, models.VerdictCashedEstimated, ratio*StandardBet)
}

func setVerdict(p *models.Prediction, v models.Verdict, profit float64) {
	p.Verdict = v
	p.NetProfit = &profit
}

func selectionNumber(p *models.Prediction) int {
	if p.SelectionNumber > 0 {
		return p.SelectionNumber
	}
	if p.ActualTop5 == "" {
		return 0
	}
	first := strings.SplitN(p.ActualTop5, ",", 2)[0]
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0
	}
	return n
}

func actualTop5(rr *models.ResultRace) string {
	nums := make([]string, 0, 5)
	for _, pos := range rr.Positions {
		if pos.Position == nil || *pos.Position > 5 {
			continue
		}
		nums = append(nums, strconv.Itoa(pos.Number))
		if len(nums) == 5 {
			break
		}
	}
	return strings.Join(nums, ",")
}

func actualSecondFavOdds(rr *models.ResultRace) *float64 {
	var odds []float64
	for _, pos := range rr.Positions {
		if pos.FinalOdds != nil {
			odds = append(odds, *pos.FinalOdds)
		}
	}
	if len(odds) < 2 {
		return nil
	}
	for i := 0; i < len(odds); i++ {
		for j := i + 1; j < len(odds); j++ {
			if odds[j] < odds[i] {
				odds[i], odds[j] = odds[j], odds[i]
			}
		}
	}
	return &odds[1]
}

func setExotics(p *models.Prediction, rr *models.ResultRace) {
	if tri, ok := rr.Exotics["trifecta"]; ok {
		payout := tri.Payout
		p.TrifectaPayout = &payout
		p.TrifectaCombination = tri.Combination
	}
	if sup, ok := rr.Exotics["superfecta"]; ok {
		payout := sup.Payout
		p.SuperfectaPayout = &payout
		p.SuperfectaCombination = sup.Combination
	}
	top1, top2 := topPlacePayouts(rr)
	p.Top1PlacePayout = top1
	p.Top2PlacePayout = top2
}

func topPlacePayouts(rr *models.ResultRace) (*float64, *float64) {
	var first, second *float64
	for _, pos := range rr.Positions {
		if pos.Position == nil || pos.PlacePayout == nil {
			continue
		}
		payout := *pos.PlacePayout
		switch *pos.Position {
		case 1:
			first = &payout
		case 2:
			second = &payout
		}
	}
	return first, second
}
