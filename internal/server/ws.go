// Package server provides the HTTP server for the Raksha monitoring dashboard.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/raksha/internal/session"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StatusSource yields the current session state for broadcast.
type StatusSource interface {
	Status() session.Status
}

// StatusHandler broadcasts live session status via WebSocket so the
// dashboard can follow accumulation, triggers and cooldown in real time.
type StatusHandler struct {
	source  StatusSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewStatusHandler creates a new StatusHandler backed by the given source.
func NewStatusHandler(source StatusSource) *StatusHandler {
	h := &StatusHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the session status to all connected clients.
func (h *StatusHandler) broadcast() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		empty := len(h.clients) == 0
		h.mu.RUnlock()
		if empty {
			continue
		}

		msg, err := json.Marshal(map[string]any{
			"status":    h.source.Status(),
			"timestamp": time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
