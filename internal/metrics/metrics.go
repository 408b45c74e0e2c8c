// Package metrics provides the centralized Prometheus registry for the
// aggregation engine's adapters, analyzers, and auditor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Adapter-level counter vectors
var (
	AdapterFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raceintel",
		Name:      "adapter_fetches_total",
		Help:      "Total adapter fetch attempts by adapter and outcome",
	}, []string{"adapter", "outcome"})

	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raceintel",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips by adapter",
	}, []string{"adapter"})

	AnalyzerQualificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raceintel",
		Name:      "analyzer_qualifications_total",
		Help:      "Total races qualified by each analyzer",
	}, []string{"analyzer"})

	AuditVerdictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "raceintel",
		Name:      "audit_verdicts_total",
		Help:      "Total audited predictions by verdict",
	}, []string{"verdict"})
)

// Engine-level gauges
var (
	ActiveAdapters = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "raceintel",
		Name:      "adapter_health",
		Help:      "Adapter health classification (0=Unhealthy 1=Degraded 2=Healthy)",
	}, []string{"adapter"})

	EngineRacesMerged = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "raceintel",
		Name:      "engine_races_merged",
		Help:      "Number of races in the most recent merged response",
	})

	ManualOverridesPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "raceintel",
		Name:      "manual_overrides_pending",
		Help:      "Number of pending manual-override requests",
	})
)

// Histograms
var (
	AdapterFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "raceintel",
		Name:      "adapter_fetch_duration_seconds",
		Help:      "Duration of a single adapter fetch",
		Buckets:   prometheus.DefBuckets,
	}, []string{"adapter"})

	EngineFetchAllDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "raceintel",
		Name:      "engine_fetch_all_duration_seconds",
		Help:      "Duration of a full fetch_all_odds cycle",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	AuditRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "raceintel",
		Name:      "audit_run_duration_seconds",
		Help:      "Duration of a single auditor run",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry exactly once.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AdapterFetchesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(AnalyzerQualificationsTotal)
		registry.MustRegister(AuditVerdictsTotal)

		registry.MustRegister(ActiveAdapters)
		registry.MustRegister(EngineRacesMerged)
		registry.MustRegister(ManualOverridesPending)

		registry.MustRegister(AdapterFetchDuration)
		registry.MustRegister(EngineFetchAllDuration)
		registry.MustRegister(AuditRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry, initializing it if needed.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAdapterFetch records a completed adapter fetch attempt.
func RecordAdapterFetch(adapter, outcome string, durationSeconds float64) {
	AdapterFetchesTotal.WithLabelValues(adapter, outcome).Inc()
	AdapterFetchDuration.WithLabelValues(adapter).Observe(durationSeconds)
}

// RecordCircuitBreakerTrip records a circuit breaker trip for an adapter.
func RecordCircuitBreakerTrip(adapter string) {
	CircuitBreakerTripsTotal.WithLabelValues(adapter).Inc()
}

// RecordAnalyzerQualification records one race qualified by an analyzer.
func RecordAnalyzerQualification(analyzer string) {
	AnalyzerQualificationsTotal.WithLabelValues(analyzer).Inc()
}

// RecordAuditVerdict records one audited prediction's verdict.
func RecordAuditVerdict(verdict string) {
	AuditVerdictsTotal.WithLabelValues(verdict).Inc()
}

// UpdateAdapterHealth sets the adapter_health gauge: 0 Unhealthy, 1 Degraded, 2 Healthy.
func UpdateAdapterHealth(adapter string, score float64) {
	ActiveAdapters.WithLabelValues(adapter).Set(score)
}

// UpdateEngineRacesMerged records the size of the most recent merged response.
func UpdateEngineRacesMerged(count float64) {
	EngineRacesMerged.Set(count)
}

// UpdateManualOverridesPending records the current pending-override count.
func UpdateManualOverridesPending(count float64) {
	ManualOverridesPending.Set(count)
}
