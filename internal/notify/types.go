// Package notify delivers emitted alerts to external channels. Channels
// are out-of-process notifiers (SMS bridges, webhooks, sirens) discovered
// from a directory and invoked with the alert payload on stdin.
package notify

import "encoding/json"

// Manifest describes a notifier's metadata and entry point.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Channels    []string        `json:"channels"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Notification is the payload sent to a notifier for delivery.
type Notification struct {
	AlertID    string          `json:"alert_id"`
	Timestamp  string          `json:"timestamp"`
	Gesture    string          `json:"gesture"`
	Confidence float64         `json:"confidence"`
	Location   string          `json:"location"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response represents the response from a notifier invocation.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Notifier represents a discovered notifier with its manifest and location.
type Notifier struct {
	Manifest   Manifest
	Path       string
	Executable string
}
