package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestWithComponent(t *testing.T) {
	log, buf := setupTestLogger()
	WithComponent(log, "engine").Info("tick")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "engine", logEntry["component"])
}

func TestAuditLoggerPredictionRecorded(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogPredictionRecorded("pred_001", "attheraces_aqueduct_20260730_1905_R4_t", "goldmine_v1", 4, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pred_001", logEntry["prediction_id"])
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, true, logEntry["is_goldmine"])
}

func TestAuditLoggerVerdictComputed(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)
	profit := 42.5

	al.LogVerdictComputed("pred_001", "race_123", "hit", "exact", &profit)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "hit", logEntry["verdict"])
	assert.Equal(t, 42.5, logEntry["net_profit"])
}

func TestAuditLoggerManualOverrideSubmitted(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogManualOverrideSubmitted("AtTheRaces", "http://example.test/card", "2026-07-30")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "AtTheRaces", logEntry["source"])
}

func TestAuditLoggerCircuitBreakerEvent(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogCircuitBreakerEvent("AtTheRaces", "opened", "consecutive_failures", map[string]interface{}{"failures": 5})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "opened", logEntry["event_type"])
}

func TestAuditLoggerAuditRunCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogAuditRunCompleted(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC), 120, 6, 2*time.Second)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(120), logEntry["predictions_audited"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogPredictionRecorded("pred_002", "race_124", "goldmine_v1", 2, false)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}
