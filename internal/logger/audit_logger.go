// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for adapter health,
// manual overrides, and audited predictions, adapted from the teacher's
// bet/strategy audit trail to this system's domain events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionRecorded logs a new prediction entering the audit trail.
func (al *AuditLogger) LogPredictionRecorded(predictionID, raceID, analyzer string, selectionNumber int, isGoldmine bool) {
	al.WithFields(logrus.Fields{
		"prediction_id":    predictionID,
		"race_id":          raceID,
		"analyzer":         analyzer,
		"selection_number": selectionNumber,
		"is_goldmine":      isGoldmine,
	}).Info("prediction recorded")
}

// LogVerdictComputed logs a prediction's audit verdict once a result race
// has been matched against it.
func (al *AuditLogger) LogVerdictComputed(predictionID, raceID, verdict, matchTier string, netProfit *float64) {
	fields := logrus.Fields{
		"prediction_id": predictionID,
		"race_id":       raceID,
		"verdict":       verdict,
		"match_tier":    matchTier,
	}
	if netProfit != nil {
		fields["net_profit"] = *netProfit
	}
	al.WithFields(fields).Info("prediction verdict computed")
}

// LogManualOverrideSubmitted logs an operator submitting a manually fetched
// page for a source/date pending adapter failure.
func (al *AuditLogger) LogManualOverrideSubmitted(source, url, date string) {
	al.WithFields(logrus.Fields{
		"source": source,
		"url":    url,
		"date":   date,
	}).Info("manual override submitted")
}

// LogCircuitBreakerEvent logs circuit breaker state changes for an adapter.
func (al *AuditLogger) LogCircuitBreakerEvent(source, eventType, reason string, metricsSnapshot map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"source":           source,
		"event_type":       eventType,
		"reason":           reason,
		"metrics_snapshot": metricsSnapshot,
	}).Warn("circuit breaker event recorded")
}

// LogAuditRunCompleted logs the summary of a completed auditor sweep.
func (al *AuditLogger) LogAuditRunCompleted(since time.Time, predictionsAudited, goldmines int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"since":               since.Format(time.RFC3339),
		"predictions_audited": predictionsAudited,
		"goldmines_confirmed": goldmines,
		"duration_ms":         duration.Milliseconds(),
	}).Info("audit run completed")
}
