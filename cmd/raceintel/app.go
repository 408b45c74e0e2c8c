package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/adapter/sources"
	"github.com/yourusername/raceintel/internal/analyzer"
	"github.com/yourusername/raceintel/internal/auditor"
	"github.com/yourusername/raceintel/internal/config"
	"github.com/yourusername/raceintel/internal/database"
	"github.com/yourusername/raceintel/internal/engine"
	"github.com/yourusername/raceintel/internal/fetcher"
	"github.com/yourusername/raceintel/internal/logger"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/repository"
)

// app holds every long-lived component wired from config, shared by every
// subcommand so serve/fetch/audit/verify all build the same object graph.
type app struct {
	cfg         *config.Config
	log         *logrus.Logger
	auditLog    *logger.AuditLogger
	db          *database.DB
	adapters    []adapter.Adapter
	monitor     *adaptermetrics.Monitor
	overrides   *manualoverride.Manager
	engine      *engine.Engine
	registry    *analyzer.Registry
	analyzers   []analyzer.Analyzer
	predictions repository.PredictionRepository
	auditor     *auditor.Auditor
}

// loadConfig reads and validates the config file, optionally overlaying
// secrets from AWS Secrets Manager when AWS_SECRETS_ENABLED=true.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildApp constructs the full object graph (everything short of starting
// the scheduler or HTTP servers) from a loaded config.
func buildApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(cfg.App.LogLevel)
	entry := logger.WithComponent(log, "raceintel")
	auditLog := logger.NewAuditLogger(log)

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	monitor := adaptermetrics.New()
	overrides := manualoverride.New(0)

	f := fetcher.AvailableEngines(cfg.RateLimit.DefaultRequestsPerSecond, fetcher.NullBrowserDriver{}, fetcher.NullBrowserDriver{})

	sourceCfg := sources.Config{Sources: make(map[string]sources.SourceConfig, len(cfg.DataSources))}
	for _, ds := range cfg.DataSources {
		sourceCfg.Sources[ds.Name] = sources.SourceConfig{
			Enabled:           ds.Enabled,
			APIKey:            ds.APIKey,
			Username:          ds.Username,
			Password:          ds.Password,
			RequestsPerSecond: ds.RequestsPerSecond,
		}
	}
	adapters := sources.Build(sourceCfg, f, monitor, overrides, entry)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no data sources enabled in config")
	}
	go overrides.RunPurgeLoop(time.Hour, ctx.Done())

	eng := engine.New(adapters, monitor, entry,
		engine.WithCacheTTL(time.Duration(cfg.Engine.CacheTTLSeconds)*time.Second),
		engine.WithMaxConcurrentFetches(cfg.Engine.MaxConcurrentRequests),
		engine.WithMinRequiredAdapters(cfg.Engine.MinRequiredAdapters),
	)

	registry := analyzer.NewRegistry()
	analyzerParams := map[string]any{
		"trustworthy_ratio_min": cfg.Analyzers.TrustworthyRatioMin,
		"max_field_size":        cfg.Analyzers.MaxFieldSize,
		"tiny_field_max":        cfg.Analyzers.TinyFieldMax,
		"goldmine_min_odds":     cfg.Analyzers.GoldmineMinOdds,
	}
	analyzerNames := []string{"trifecta", "tiny_field_trifecta", "simply_success", "favorite_to_place_monitor"}
	analyzers := make([]analyzer.Analyzer, 0, len(analyzerNames))
	for _, name := range analyzerNames {
		a, err := registry.Get(name, analyzerParams)
		if err != nil {
			return nil, fmt.Errorf("failed to build analyzer %s: %w", name, err)
		}
		analyzers = append(analyzers, a)
	}

	predictions := repository.NewPostgresPredictionRepository(db)
	aud := auditor.New(predictions, entry, time.Duration(cfg.Auditor.LookbackHours)*time.Hour)

	return &app{
		cfg:         cfg,
		log:         log,
		auditLog:    auditLog,
		db:          db,
		adapters:    adapters,
		monitor:     monitor,
		overrides:   overrides,
		engine:      eng,
		registry:    registry,
		analyzers:   analyzers,
		predictions: predictions,
		auditor:     aud,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.db.Close(ctx); err != nil {
		a.log.WithError(err).Error("error closing database")
	}
}
