// Package selfcheck runs a lightweight reachability sweep across every
// configured adapter, grounded on canary_check.py/final_verify.py's role in
// the original service: a fast signal that the deployed build can actually
// reach its upstream sources, distinct from the full fetch_all_odds cycle.
package selfcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/raceintel/internal/engine"
)

// AdapterStatus reports one adapter's reachability for a single probe date.
type AdapterStatus struct {
	Source    string
	Reachable bool
	RaceCount int
	Err       string
}

// RunSmokeCheck calls GetRaces against every adapter registered with eng for
// date, returning a per-adapter status report. It never returns an error
// unless every adapter fails, since a partial outage is exactly what this
// check exists to surface rather than treat as fatal.
func RunSmokeCheck(ctx context.Context, eng *engine.Engine, date string) ([]AdapterStatus, error) {
	adapters := eng.Adapters()
	statuses := make([]AdapterStatus, 0, len(adapters))
	failures := 0

	for _, a := range adapters {
		probeCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		races, err := a.GetRaces(probeCtx, date)
		cancel()

		status := AdapterStatus{Source: a.SourceName(), RaceCount: len(races)}
		if err != nil {
			status.Err = err.Error()
			failures++
		} else {
			status.Reachable = true
		}
		statuses = append(statuses, status)
	}

	if len(adapters) > 0 && failures == len(adapters) {
		return statuses, fmt.Errorf("selfcheck: all %d adapters unreachable", len(adapters))
	}
	return statuses, nil
}

// EnginePinger adapts RunSmokeCheck to health.DatabasePinger's Ping(ctx)
// error shape, so the readiness endpoint can report upstream reachability
// alongside database connectivity without the health package importing
// the engine.
type EnginePinger struct {
	Engine *engine.Engine
}

// Ping runs a smoke check against today's date and fails only if every
// adapter is unreachable.
func (p EnginePinger) Ping(ctx context.Context) error {
	date := time.Now().UTC().Format("2006-01-02")
	_, err := RunSmokeCheck(ctx, p.Engine, date)
	return err
}
