// Package api exposes the engine's aggregated races, qualified-race views,
// adapter health, and manual-override submission over HTTP, grounded on
// the broader pack's service-layer middleware style rather than any one
// piece of the teacher (which never carried an HTTP surface of its own).
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/analyzer"
	"github.com/yourusername/raceintel/internal/config"
	"github.com/yourusername/raceintel/internal/engine"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/repository"
)

// Server wires the HTTP surface over the engine, analyzer registry,
// adapter health monitor, manual-override manager, and prediction store.
type Server struct {
	cfg         config.APIConfig
	engine      *engine.Engine
	analyzers   *analyzer.Registry
	monitor     *adaptermetrics.Monitor
	overrides   *manualoverride.Manager
	predictions repository.PredictionRepository
	logger      *logrus.Entry

	httpServer *http.Server
}

// New builds a Server; call Start to begin serving.
func New(cfg config.APIConfig, eng *engine.Engine, analyzers *analyzer.Registry, monitor *adaptermetrics.Monitor, overrides *manualoverride.Manager, predictions repository.PredictionRepository, logger *logrus.Entry) (*Server, error) {
	s := &Server{
		cfg:         cfg,
		engine:      eng,
		analyzers:   analyzers,
		monitor:     monitor,
		overrides:   overrides,
		predictions: predictions,
		logger:      logger.WithField("component", "api"),
	}
	router, err := s.newRouter()
	if err != nil {
		return nil, err
	}
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start begins serving in the background; it does not block.
func (s *Server) Start() {
	go func() {
		s.logger.WithField("addr", s.cfg.ListenAddr).Info("api server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("api server error")
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) newRouter() (*mux.Router, error) {
	auth, err := newAPIKeyAuth(s.cfg.APIKey)
	if err != nil {
		return nil, err
	}
	cors := corsMiddleware(s.cfg.AllowedOrigins)

	// The three configured tiers map onto spec's three rate-limited routes:
	// races (30/min default), qualified-races (120/min, the busiest route
	// since UIs poll it per analyzer), and adapters/status (60/min).
	racesLimit := newIPRateLimiter(s.cfg.RateLimits.ReadRequestsPerSecond)
	qualifiedLimit := newIPRateLimiter(s.cfg.RateLimits.WriteRequestsPerSecond)
	statusLimit := newIPRateLimiter(s.cfg.RateLimits.AdminRequestsPerSecond)

	r := mux.NewRouter()
	r.Use(cors)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(auth.middleware)

	protected.Handle("/api/races",
		tracedHandler("api.races", racesLimit.middleware(http.HandlerFunc(s.handleRaces)))).Methods(http.MethodGet, http.MethodOptions)
	protected.Handle("/api/races/qualified/{analyzer_name}",
		tracedHandler("api.races.qualified", qualifiedLimit.middleware(http.HandlerFunc(s.handleQualifiedRaces)))).Methods(http.MethodGet, http.MethodOptions)
	protected.Handle("/api/adapters/status",
		tracedHandler("api.adapters.status", statusLimit.middleware(http.HandlerFunc(s.handleAdapterStatus)))).Methods(http.MethodGet, http.MethodOptions)
	protected.Handle("/api/manual-overrides/submit",
		tracedHandler("api.manual_overrides.submit", statusLimit.middleware(http.HandlerFunc(s.handleManualOverrideSubmit)))).Methods(http.MethodPost, http.MethodOptions)
	protected.Handle("/api/audit/summary",
		tracedHandler("api.audit.summary", racesLimit.middleware(http.HandlerFunc(s.handleAuditSummary)))).Methods(http.MethodGet, http.MethodOptions)

	return r, nil
}
