// Package api provides HTTP API handlers for the Raksha dashboard shell.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/store"
)

// AlertsHandler handles HTTP requests for the alert history.
type AlertsHandler struct {
	store *store.Store
}

// NewAlertsHandler creates a new AlertsHandler with the given store.
func NewAlertsHandler(s *store.Store) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// ServeHTTP routes requests to the appropriate method.
// Expected paths: /api/alerts, /api/alerts/{id},
// /api/alerts/{id}/evidence, /api/alerts/{id}/processed.
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/alerts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/evidence"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.evidence(w, r, id)
		return
	}

	if id, ok := strings.CutSuffix(path, "/processed"); ok {
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setProcessed(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type alertResponse struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	Gesture     string  `json:"gesture"`
	Confidence  float64 `json:"confidence"`
	HasEvidence bool    `json:"has_evidence"`
	Location    string  `json:"location"`
	Processed   bool    `json:"processed"`
}

type listAlertsResponse struct {
	Alerts []alertResponse `json:"alerts"`
}

type setProcessedRequest struct {
	Processed bool `json:"processed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts an alert.Alert to an alertResponse. Evidence bytes
// are not inlined; clients fetch them from the evidence endpoint.
func toResponse(a *alert.Alert) alertResponse {
	return alertResponse{
		ID:          a.ID,
		Timestamp:   a.Timestamp.Format(time.RFC3339),
		Gesture:     string(a.Gesture),
		Confidence:  a.Confidence,
		HasEvidence: len(a.Evidence) > 0,
		Location:    a.Location,
		Processed:   a.Processed,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/alerts and returns the alert history, newest
// first. An optional ?limit= query caps the result.
func (h *AlertsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	alerts, err := h.store.Alerts().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	response := listAlertsResponse{
		Alerts: make([]alertResponse, 0, len(alerts)),
	}

	for _, a := range alerts {
		response.Alerts = append(response.Alerts, toResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/alerts/{id} and returns a single alert.
func (h *AlertsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.store.Alerts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get alert")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(a))
}

// evidence handles GET /api/alerts/{id}/evidence and serves the captured
// JPEG artifact.
func (h *AlertsHandler) evidence(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.store.Alerts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get alert")
		return
	}

	if len(a.Evidence) == 0 {
		writeError(w, http.StatusNotFound, "Alert has no evidence image")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(a.Evidence)
}

// setProcessed handles PUT /api/alerts/{id}/processed.
func (h *AlertsHandler) setProcessed(w http.ResponseWriter, r *http.Request, id string) {
	var req setProcessedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.Alerts().SetProcessed(id, req.Processed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}

	a, err := h.store.Alerts().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get alert")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(a))
}

// delete handles DELETE /api/alerts/{id}.
func (h *AlertsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Alerts().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
