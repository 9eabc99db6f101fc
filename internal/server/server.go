// Package server provides the HTTP server for the Raksha monitoring dashboard.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/raksha/internal/capture"
	"github.com/ayusman/raksha/internal/server/api"
	"github.com/ayusman/raksha/internal/session"
	"github.com/ayusman/raksha/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Session   *session.DetectionSession
}

// Server represents the HTTP server for the Raksha application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Alert history requires the store
	if s.config.Store != nil {
		alertsHandler := api.NewAlertsHandler(s.config.Store)
		s.mux.Handle("/api/alerts", alertsHandler)
		s.mux.Handle("/api/alerts/", alertsHandler)
	}

	// Session control and live status require a session
	if s.config.Session != nil {
		controlHandler := api.NewControlHandler(s.config.Session, s.config.Store)
		s.mux.Handle("/api/control/", controlHandler)

		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.Handle("/api/ws/status", NewStatusHandler(s.config.Session))
	}

	// Live preview requires a camera
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status with a one-shot
// snapshot of the session state. The WebSocket endpoint serves the
// continuous feed.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Session.Status()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
