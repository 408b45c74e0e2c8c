package models

import "time"

// Health is an adapter's classification, recomputed after every fetch.
type Health string

const (
	Healthy   Health = "Healthy"
	Degraded  Health = "Degraded"
	Unhealthy Health = "Unhealthy"
)

// AdapterStatus is the observed, process-lifetime health of a single adapter.
type AdapterStatus struct {
	Name                string     `json:"name"`
	Health              Health     `json:"health"`
	SuccessRate24h      float64    `json:"success_rate_24h"`
	LastSuccess         *time.Time `json:"last_success,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	AvgResponseTimeMs   float64    `json:"avg_response_time_ms"`
	LastError           string     `json:"last_error,omitempty"`
}

// Classify applies the HealthMonitor thresholds to this status's current counters.
func (s *AdapterStatus) Classify() {
	switch {
	case s.ConsecutiveFailures >= 3 || s.SuccessRate24h < 0.3:
		s.Health = Unhealthy
	case s.SuccessRate24h < 0.7 || s.AvgResponseTimeMs > 10_000:
		s.Health = Degraded
	default:
		s.Health = Healthy
	}
}
