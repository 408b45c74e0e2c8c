package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/analyzer"
	"github.com/yourusername/raceintel/internal/config"
	"github.com/yourusername/raceintel/internal/engine"
	"github.com/yourusername/raceintel/internal/manualoverride"
	"github.com/yourusername/raceintel/internal/models"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeAdapter struct {
	name  string
	races []models.Race
}

func (f *fakeAdapter) SourceName() string              { return f.name }
func (f *fakeAdapter) AdapterType() adapter.Type        { return adapter.Discovery }
func (f *fakeAdapter) GetRaces(_ context.Context, _ string) ([]models.Race, error) {
	return f.races, nil
}

type fakePredictionRepository struct {
	audited []models.Prediction
}

func (f *fakePredictionRepository) Insert(_ context.Context, _ *models.Prediction) error { return nil }
func (f *fakePredictionRepository) InsertBatch(_ context.Context, _ []models.Prediction) error {
	return nil
}
func (f *fakePredictionRepository) UnauditedSince(_ context.Context, _ time.Time) ([]models.Prediction, error) {
	return nil, nil
}
func (f *fakePredictionRepository) SaveVerdicts(_ context.Context, _ []models.Prediction) error {
	return nil
}
func (f *fakePredictionRepository) AuditedSince(_ context.Context, _ time.Time) ([]models.Prediction, error) {
	return f.audited, nil
}

func testConfig() config.APIConfig {
	return config.APIConfig{
		ListenAddr:     ":0",
		APIKey:         "test-key",
		AllowedOrigins: []string{"https://example.com"},
		RateLimits: config.APIRateLimits{
			ReadRequestsPerSecond:  1000,
			WriteRequestsPerSecond: 1000,
			AdminRequestsPerSecond: 1000,
		},
	}
}

func newTestServer(t *testing.T) (*Server, *fakePredictionRepository) {
	t.Helper()
	a := &fakeAdapter{name: "RacingPost", races: []models.Race{{Venue: "Ascot", RaceNumber: 1}}}
	eng := engine.New([]adapter.Adapter{a}, adaptermetrics.New(), testLogger())
	predictions := &fakePredictionRepository{}

	s, err := New(testConfig(), eng, analyzer.NewRegistry(), adaptermetrics.New(), manualoverride.New(0), predictions, testLogger())
	require.NoError(t, err)
	return s, predictions
}

func (s *Server) testHandler() http.Handler {
	r, err := s.newRouter()
	if err != nil {
		panic(err)
	}
	return r
}

func TestHealthIsUnauthenticated(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRouteRejectsMissingKey(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/races", nil)
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProtectedRouteAcceptsValidKey(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/races?race_date=2026-07-30", nil)
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-07-30", resp["date"])
}

func TestQualifiedRacesUnknownAnalyzer404s(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/races/qualified/not_a_real_analyzer", nil)
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManualOverrideSubmitRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	s.overrides.Register("RacingPost", "https://example.com/races", "2026-07-30")
	requestID := manualoverride.Key("RacingPost", "https://example.com/races", "2026-07-30")

	body, _ := json.Marshal(map[string]string{
		"request_id": requestID,
		"content":    "<html>races</html>",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/manual-overrides/submit", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	html, ok := s.overrides.Take("RacingPost", "https://example.com/races", "2026-07-30")
	require.True(t, ok)
	assert.Equal(t, "<html>races</html>", html)
}

func TestManualOverrideSubmitUnknownRequestID404s(t *testing.T) {
	s, _ := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"request_id": "nope|nope|nope", "content": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/manual-overrides/submit", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditSummaryReflectsRepository(t *testing.T) {
	s, predictions := newTestServer(t)
	profit := 3.50
	predictions.audited = []models.Prediction{
		{Verdict: models.VerdictCashed, NetProfit: &profit, AuditCompleted: true},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/audit/summary", nil)
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalReturned float64 `json:"TotalReturned"`
		TotalStaked   float64 `json:"TotalStaked"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2.0, resp.TotalStaked)
	assert.InDelta(t, 5.50, resp.TotalReturned, 0.001)
}

func TestCORSPreflightEchoesAllowedOrigin(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/races", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	s.testHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
