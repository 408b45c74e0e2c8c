// Package resultsfeed gathers judged result races from every configured
// adapter that exposes finish-line data, for the auditor to match pending
// predictions against.
package resultsfeed

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/models"
)

// Fetch calls GetResultRaces on every adapter in all that implements
// adapter.ResultsSource, for date, and returns the combined set. Adapters
// without finish-line data (the majority of Results-type sources, which
// only narrow GetRaces to a confirmation role) are silently skipped; a
// failing adapter logs a warning and contributes nothing rather than
// aborting the run.
func Fetch(ctx context.Context, all []adapter.Adapter, date string, logger *logrus.Entry) []models.ResultRace {
	var out []models.ResultRace
	for _, a := range all {
		rs, ok := a.(adapter.ResultsSource)
		if !ok {
			continue
		}
		races, err := rs.GetResultRaces(ctx, date)
		if err != nil {
			logger.WithField("adapter", a.SourceName()).WithError(err).Warn("results fetch failed")
			continue
		}
		out = append(out, races...)
	}
	return out
}
