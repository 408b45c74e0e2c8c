package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/raceintel/internal/api"
	"github.com/yourusername/raceintel/internal/health"
	"github.com/yourusername/raceintel/internal/metrics"
	"github.com/yourusername/raceintel/internal/scheduler"
	"github.com/yourusername/raceintel/internal/selfcheck"
)

// serveCmd runs the long-lived process: the cron-driven fetch_all_odds and
// audit jobs, the HTTP API, the Prometheus metrics endpoint, and the
// container health/readiness server, until SIGINT/SIGTERM.
func serveCmd(ctx context.Context, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, API, and health servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ctx, *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	entry := a.log.WithField("component", "raceintel")
	entry.Infof("raceintel serve starting (version %s, commit %s)", Version, GitCommit)

	healthServer := health.NewServer(health.Config{
		ServiceName: a.cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      a.log,
		DB:          selfcheck.EnginePinger{Engine: a.engine},
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	defer healthServer.Shutdown()

	var metricsServer *http.Server
	if a.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		metrics.InitRegistry()
		mux.Handle(a.cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", a.cfg.Metrics.Port), Handler: mux}
		go func() {
			entry.WithField("addr", metricsServer.Addr).Info("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				entry.WithError(err).Error("metrics server error")
			}
		}()
	}

	apiServer, err := api.New(a.cfg.API, a.engine, a.registry, a.monitor, a.overrides, a.predictions, entry)
	if err != nil {
		return fmt.Errorf("failed to build api server: %w", err)
	}
	apiServer.Start()

	sched := scheduler.New(a.engine, a.adapters, a.analyzers, a.auditor, a.predictions, entry)
	if err := sched.ScheduleFetchAllOdds(a.cfg.Schedule.FetchAllOddsCron); err != nil {
		return fmt.Errorf("failed to schedule fetch_all_odds: %w", err)
	}
	if err := sched.ScheduleAuditRun(a.cfg.Schedule.AuditRunCron); err != nil {
		return fmt.Errorf("failed to schedule audit run: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	healthServer.SetReady(true)
	entry.Info("raceintel serve ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	entry.WithField("signal", sig).Info("received shutdown signal")

	healthServer.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		entry.WithError(err).Error("error stopping scheduler")
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		entry.WithError(err).Error("error stopping api server")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			entry.WithError(err).Error("error stopping metrics server")
		}
	}

	entry.Info("raceintel serve stopped")
	return nil
}
