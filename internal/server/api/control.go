package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/gesture"
	"github.com/ayusman/raksha/internal/store"
)

// SessionController is the subset of session operations the control API
// drives.
type SessionController interface {
	Sensitivity() gesture.Sensitivity
	SetSensitivity(level gesture.Sensitivity)
	Reset()
	ManualCapture() *alert.Alert
}

// ControlHandler handles runtime control of the detection session:
// sensitivity, state reset, and manual panic capture.
type ControlHandler struct {
	session SessionController
	store   *store.Store
}

// NewControlHandler creates a new ControlHandler. The store may be nil,
// in which case sensitivity changes are not persisted.
func NewControlHandler(session SessionController, s *store.Store) *ControlHandler {
	return &ControlHandler{session: session, store: s}
}

// ServeHTTP routes requests to the appropriate method.
// Expected paths: /api/control/sensitivity, /api/control/reset,
// /api/control/capture.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/control")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "sensitivity":
		switch r.Method {
		case http.MethodGet:
			h.getSensitivity(w, r)
		case http.MethodPut:
			h.setSensitivity(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "reset":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.reset(w, r)
	case "capture":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.capture(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

type sensitivityResponse struct {
	Sensitivity string `json:"sensitivity"`
}

type setSensitivityRequest struct {
	Sensitivity string `json:"sensitivity"`
}

// getSensitivity handles GET /api/control/sensitivity.
func (h *ControlHandler) getSensitivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sensitivityResponse{
		Sensitivity: string(h.session.Sensitivity()),
	})
}

// setSensitivity handles PUT /api/control/sensitivity. The new level is
// applied at the session's next poll boundary and persisted so it
// survives a restart.
func (h *ControlHandler) setSensitivity(w http.ResponseWriter, r *http.Request) {
	var req setSensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	level, err := gesture.ParseSensitivity(req.Sensitivity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Sensitivity must be low, medium or high")
		return
	}

	h.session.SetSensitivity(level)

	if h.store != nil {
		if err := h.store.Settings().Set(store.SettingSensitivity, string(level)); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist sensitivity")
			return
		}
	}

	writeJSON(w, http.StatusOK, sensitivityResponse{Sensitivity: string(level)})
}

// reset handles POST /api/control/reset and clears accumulated detector
// state without touching the video source.
func (h *ControlHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// capture handles POST /api/control/capture: the operator-initiated
// panic path. It emits a manual alert immediately, ignoring consensus
// and cooldown.
func (h *ControlHandler) capture(w http.ResponseWriter, r *http.Request) {
	a := h.session.ManualCapture()
	writeJSON(w, http.StatusCreated, toResponse(a))
}
