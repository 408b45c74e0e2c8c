// Package scheduler runs the two periodic jobs that keep the engine live:
// a fetch_all_odds cycle that turns freshly aggregated races into
// persisted predictions, and an audit run that matches those predictions
// against fetched results and writes verdicts back.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/analyzer"
	"github.com/yourusername/raceintel/internal/auditor"
	"github.com/yourusername/raceintel/internal/engine"
	"github.com/yourusername/raceintel/internal/models"
	"github.com/yourusername/raceintel/internal/repository"
	"github.com/yourusername/raceintel/internal/resultsfeed"
	"github.com/yourusername/raceintel/internal/tipper"
)

// Scheduler manages the cron-driven fetch_all_odds and audit-run jobs.
type Scheduler struct {
	cron        *cron.Cron
	engine      *engine.Engine
	adapters    []adapter.Adapter
	analyzers   []analyzer.Analyzer
	auditor     *auditor.Auditor
	predictions repository.PredictionRepository
	logger      *logrus.Entry

	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// New builds a Scheduler wired against the engine's tiered fetch, the
// configured analyzer set, the auditor, the adapter set (for result
// fetching), and the prediction store.
func New(eng *engine.Engine, adapters []adapter.Adapter, analyzers []analyzer.Analyzer, aud *auditor.Auditor, predictions repository.PredictionRepository, logger *logrus.Entry) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		engine:          eng,
		adapters:        adapters,
		analyzers:       analyzers,
		auditor:         aud,
		predictions:     predictions,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleFetchAllOdds schedules the periodic fetch_all_odds cycle: fetch
// today's aggregated races, run every configured analyzer over them, and
// persist the resulting predictions.
func (s *Scheduler) ScheduleFetchAllOdds(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		now := time.Now().UTC()
		date := now.Format("2006-01-02")

		resp := s.engine.FetchAllOdds(ctx, date, nil)
		s.logger.WithFields(logrus.Fields{
			"date":      date,
			"races":     len(resp.Races),
			"freshness": resp.DataFreshness,
		}).Info("fetch_all_odds cycle complete")

		var predictions []models.Prediction
		for _, a := range s.analyzers {
			result := a.QualifyRaces(resp.Races, now)
			predictions = append(predictions, tipper.Build(a.Name(), result, now)...)
		}
		if len(predictions) == 0 {
			return
		}
		if err := s.predictions.InsertBatch(ctx, predictions); err != nil {
			s.logger.WithError(err).Error("failed to persist predictions")
			return
		}
		s.logger.WithField("count", len(predictions)).Info("persisted new predictions")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("scheduled fetch_all_odds job")
	return nil
}

// ScheduleAuditRun schedules the periodic verdict sweep: fetch fresh
// result races from every configured ResultsSource adapter, then audit
// every pending prediction within the auditor's lookback window.
func (s *Scheduler) ScheduleAuditRun(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		now := time.Now().UTC()
		date := now.Format("2006-01-02")
		yesterday := now.Add(-24 * time.Hour).Format("2006-01-02")

		results := resultsfeed.Fetch(ctx, s.adapters, date, s.logger)
		results = append(results, resultsfeed.Fetch(ctx, s.adapters, yesterday, s.logger)...)

		audited, err := s.auditor.Run(ctx, now, results)
		if err != nil {
			s.logger.WithError(err).Error("audit run failed")
			return
		}
		s.logger.WithField("count", len(audited)).Info("audit run complete")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("scheduled audit run job")
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("scheduler started")
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	select {
	case <-s.cron.Stop().Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("graceful shutdown timed out waiting for in-flight jobs")
	}
	s.isRunning = false
	s.logger.Info("scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	var nextRun time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// RemoveJob removes a scheduled job.
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	s.logger.WithField("job_id", jobID).Info("removed job")
	return nil
}
