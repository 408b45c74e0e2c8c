// Package adaptermetrics implements the HealthMonitor: running per-adapter
// counters and the Healthy/Degraded/Unhealthy classification derived from
// them, grounded on the teacher's per-entity prometheus gauge-vec idiom but
// backed by plain counters so classification doesn't round-trip through
// Prometheus's query layer.
package adaptermetrics

import (
	"sync"
	"time"

	"github.com/yourusername/raceintel/internal/metrics"
	"github.com/yourusername/raceintel/internal/models"
)

// counters is the running total for one adapter.
type counters struct {
	total               int
	successful          int
	failed              int
	totalLatencyMs      float64
	consecutiveFailures int
	lastFailureReason   string
	lastSuccess         time.Time
	// every recorded outcome; successRate24h counts only those within the
	// last 24h
	recent []outcome
	// lastTrustRatio is the most recent post-parse odds trust ratio reported
	// by this adapter, keyed by venue.
	lastTrustRatio map[string]float64
}

type outcome struct {
	at      time.Time
	success bool
}

const window24h = 24 * time.Hour

// Monitor tracks AdapterMetrics for every adapter name it has seen and
// derives models.AdapterStatus from them.
type Monitor struct {
	mu   sync.Mutex
	data map[string]*counters
}

// New returns an empty Monitor.
func New() *Monitor {
	return &Monitor{data: make(map[string]*counters)}
}

func (m *Monitor) entry(adapter string) *counters {
	c, ok := m.data[adapter]
	if !ok {
		c = &counters{}
		m.data[adapter] = c
	}
	return c
}

// RecordSuccess records a successful fetch and its latency.
func (m *Monitor) RecordSuccess(adapter string, latencyMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.entry(adapter)
	now := time.Now()
	c.total++
	c.successful++
	c.totalLatencyMs += latencyMs
	c.consecutiveFailures = 0
	c.lastSuccess = now
	c.recent = append(c.recent, outcome{at: now, success: true})
	metrics.RecordAdapterFetch(adapter, "success", latencyMs/1000.0)
}

// RecordFailure records a failed fetch and the reason.
func (m *Monitor) RecordFailure(adapter string, latencyMs float64, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.entry(adapter)
	now := time.Now()
	c.total++
	c.failed++
	c.totalLatencyMs += latencyMs
	c.consecutiveFailures++
	c.lastFailureReason = reason
	c.recent = append(c.recent, outcome{at: now, success: false})
	metrics.RecordAdapterFetch(adapter, "failure", latencyMs/1000.0)
}

// RecordTrustRatio stores the post-parse odds trust ratio (trustworthy
// runners / active runners) an adapter observed for a given venue.
func (m *Monitor) RecordTrustRatio(adapter, venue string, ratio float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.entry(adapter)
	if c.lastTrustRatio == nil {
		c.lastTrustRatio = make(map[string]float64)
	}
	c.lastTrustRatio[venue] = ratio
}

// TrustRatio returns the last recorded odds trust ratio for an adapter's
// venue, and whether one has been recorded at all.
func (m *Monitor) TrustRatio(adapter, venue string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[adapter]
	if !ok || c.lastTrustRatio == nil {
		return 0, false
	}
	v, ok := c.lastTrustRatio[venue]
	return v, ok
}

func (c *counters) successRate24h() float64 {
	cutoff := time.Now().Add(-window24h)
	var total, success int
	for _, o := range c.recent {
		if o.at.Before(cutoff) {
			continue
		}
		total++
		if o.success {
			success++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(success) / float64(total)
}

func (c *counters) avgResponseTimeMs() float64 {
	if c.total == 0 {
		return 0
	}
	return c.totalLatencyMs / float64(c.total)
}

// Status returns the classified models.AdapterStatus for an adapter,
// applying the Healthy/Degraded/Unhealthy thresholds.
func (m *Monitor) Status(adapter string) models.AdapterStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.entry(adapter)

	status := models.AdapterStatus{
		Name:                adapter,
		SuccessRate24h:      c.successRate24h(),
		ConsecutiveFailures: c.consecutiveFailures,
		AvgResponseTimeMs:   c.avgResponseTimeMs(),
		LastError:           c.lastFailureReason,
	}
	if !c.lastSuccess.IsZero() {
		t := c.lastSuccess
		status.LastSuccess = &t
	}
	status.Classify()

	score := 2.0
	switch status.Health {
	case models.Degraded:
		score = 1.0
	case models.Unhealthy:
		score = 0.0
	}
	metrics.UpdateAdapterHealth(adapter, score)

	return status
}

// AllStatuses returns the classified status for every adapter seen so far.
func (m *Monitor) AllStatuses() []models.AdapterStatus {
	m.mu.Lock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	m.mu.Unlock()

	out := make([]models.AdapterStatus, 0, len(names))
	for _, name := range names {
		out = append(out, m.Status(name))
	}
	return out
}

// OrderedByTier partitions adapter names into healthy and degraded groups,
// preserving input order within each group, for the engine's tiered fetch.
func (m *Monitor) OrderedByTier(names []string) (healthy, degraded []string) {
	for _, n := range names {
		switch m.Status(n).Health {
		case models.Healthy:
			healthy = append(healthy, n)
		case models.Degraded:
			degraded = append(degraded, n)
		}
	}
	return healthy, degraded
}
