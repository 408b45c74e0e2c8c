package sources

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/manualoverride"
)

// SourceConfig carries per-adapter enablement, credentials, and the
// rate limit this adapter's Base should enforce, grounded on the
// per-source DataSourceConfig entries the teacher's factory iterated over.
type SourceConfig struct {
	Enabled           bool
	APIKey            string
	Username          string
	Password          string
	RequestsPerSecond float64
}

// Config collects one SourceConfig per known source, keyed by the same
// names GetRaces/SourceName report. A zero-value entry is treated as
// disabled.
type Config struct {
	Sources map[string]SourceConfig
}

// DefaultRequestsPerSecond is used when a source's config omits a rate,
// matching the teacher's conservative default for unconfigured sources.
const DefaultRequestsPerSecond = 1.0

func (c Config) rate(name string) float64 {
	if cfg, ok := c.Sources[name]; ok && cfg.RequestsPerSecond > 0 {
		return cfg.RequestsPerSecond
	}
	return DefaultRequestsPerSecond
}

func (c Config) enabled(name string) bool {
	cfg, ok := c.Sources[name]
	return ok && cfg.Enabled
}

func (c Config) get(name string) SourceConfig {
	return c.Sources[name]
}

// Build constructs every adapter enabled in cfg, wired against a shared
// Fetcher, metrics monitor, manual-override manager, and logger, for the
// engine to orchestrate. Sources with no enabled entry in cfg.Sources are
// skipped rather than constructed disabled, since several adapters
// (BetfairExchange, RacingPost, RacingAndSports, TVG) fail fast without
// credentials.
func Build(cfg Config, f *fetcher.Fetcher, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, logger *logrus.Entry) []adapter.Adapter {
	var out []adapter.Adapter
	add := func(name string, build func(rate float64, sc SourceConfig) adapter.Adapter) {
		if !cfg.enabled(name) {
			return
		}
		out = append(out, build(cfg.rate(name), cfg.get(name)))
	}

	add("RacingPost", func(r float64, sc SourceConfig) adapter.Adapter {
		return NewRacingPost(f, sc.APIKey, monitor, overrides, logger, r)
	})
	add("AtTheRaces", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewAtTheRaces(f, monitor, overrides, logger, r)
	})
	add("AtTheRacesGreyhound", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewAtTheRacesGreyhound(f, monitor, overrides, logger, r)
	})
	add("Timeform", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewTimeform(f, monitor, overrides, logger, r)
	})
	add("GBGB", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewGBGB(f, monitor, overrides, logger, r)
	})
	add("RacingAndSports", func(r float64, sc SourceConfig) adapter.Adapter {
		return NewRacingAndSports(f, sc.APIKey, monitor, overrides, logger, r)
	})
	add("RacingAndSportsGreyhound", func(r float64, sc SourceConfig) adapter.Adapter {
		return NewRacingAndSportsGreyhound(f, sc.APIKey, monitor, overrides, logger, r)
	})
	add("TVG", func(r float64, sc SourceConfig) adapter.Adapter {
		return NewTVG(f, sc.APIKey, monitor, overrides, logger, r)
	})
	add("TwinSpires", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewTwinSpires(f, monitor, overrides, logger, r)
	})
	add("Xpressbet", func(_ float64, _ SourceConfig) adapter.Adapter {
		return NewXpressbet(monitor, overrides, logger, cfg.rate("Xpressbet"))
	})
	add("TAB", func(_ float64, _ SourceConfig) adapter.Adapter {
		return NewTAB(monitor, overrides, logger, cfg.rate("TAB"))
	})
	add("NYRABets", func(_ float64, _ SourceConfig) adapter.Adapter {
		return NewNYRABets(monitor, overrides, logger, cfg.rate("NYRABets"))
	})
	add("Equibase", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewEquibase(f, monitor, overrides, logger, r)
	})
	add("EquibaseResults", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewEquibaseResults(f, monitor, overrides, logger, r)
	})
	add("DRF", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewDRF(f, monitor, overrides, logger, r)
	})
	add("StandardbredCanada", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewHarness(f, monitor, overrides, logger, r)
	})
	add("BetfairExchange", func(r float64, sc SourceConfig) adapter.Adapter {
		return NewBetfairHistorical(f, monitor, overrides, logger, r, sc.APIKey, sc.Username, sc.Password)
	})
	add("PointsBetGreyhound", func(r float64, _ SourceConfig) adapter.Adapter {
		return NewPointsBetGreyhound(f, monitor, overrides, logger, r)
	})
	add("HorseRacingNation", func(_ float64, _ SourceConfig) adapter.Adapter {
		return NewHorseRacingNation(monitor, overrides, logger, cfg.rate("HorseRacingNation"))
	})
	add("Punters", func(_ float64, _ SourceConfig) adapter.Adapter {
		return NewPunters(monitor, overrides, logger, cfg.rate("Punters"))
	})
	add("RacingTV", func(_ float64, _ SourceConfig) adapter.Adapter {
		return NewRacingTV(monitor, overrides, logger, cfg.rate("RacingTV"))
	})

	return out
}
