package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/yourusername/raceintel/internal/auditor"
	"github.com/yourusername/raceintel/internal/manualoverride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRaces serves GET /api/races?race_date=&source=.
func (s *Server) handleRaces(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("race_date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	var sourceFilter []string
	if source := r.URL.Query().Get("source"); source != "" {
		sourceFilter = []string{source}
	}

	resp := s.engine.FetchAllOdds(r.Context(), date, sourceFilter)
	writeJSON(w, http.StatusOK, resp)
}

// handleQualifiedRaces serves GET /api/races/qualified/{analyzer_name}.
// Any query parameter besides race_date is passed through as an
// analyzer-specific construction parameter.
func (s *Server) handleQualifiedRaces(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["analyzer_name"]

	query := r.URL.Query()
	date := query.Get("race_date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	params := make(map[string]any, len(query))
	for k, v := range query {
		if k == "race_date" || len(v) == 0 {
			continue
		}
		params[k] = v[0]
	}

	qualifier, err := s.analyzers.Get(name, params)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := s.engine.FetchAllOdds(r.Context(), date, nil)
	result := qualifier.QualifyRaces(resp.Races, time.Now().UTC())
	writeJSON(w, http.StatusOK, result)
}

// handleAdapterStatus serves GET /api/adapters/status.
func (s *Server) handleAdapterStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.AllStatuses())
}

type manualOverrideSubmitRequest struct {
	RequestID   string `json:"request_id"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// handleManualOverrideSubmit serves POST /api/manual-overrides/submit. The
// request ID is the "adapter|url|date" key manualoverride.Manager.Register
// produced when it first recorded the pending request.
func (s *Server) handleManualOverrideSubmit(w http.ResponseWriter, r *http.Request) {
	var req manualOverrideSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	adapterName, url, date, ok := manualoverride.SplitKey(req.RequestID)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "unrecognized request_id")
		return
	}

	if !s.overrides.Submit(adapterName, url, date, req.Content) {
		writeJSONError(w, http.StatusNotFound, "no pending request for request_id")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// handleAuditSummary serves GET /api/audit/summary?lookback_hours=.
func (s *Server) handleAuditSummary(w http.ResponseWriter, r *http.Request) {
	lookbackHours := 24 * 7
	if raw := r.URL.Query().Get("lookback_hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			lookbackHours = parsed
		}
	}
	since := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)

	tips, err := s.predictions.AuditedSince(r.Context(), since)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, auditor.Summarize(tips))
}
