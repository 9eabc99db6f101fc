// Package alert defines the emergency alert record emitted on a
// stabilized detection and the sink interface used to hand it off.
package alert

import (
	"time"

	"github.com/google/uuid"
)

// Type labels what produced an alert.
type Type string

const (
	// TypeVictory is an automatic V-sign detection.
	TypeVictory Type = "victory"
	// TypeManual is an operator-requested capture.
	TypeManual Type = "manual"
)

// Alert is the immutable record handed to the alert-history collaborator.
// The detection core never touches an alert after emission; the consumer
// owns it and may flip Processed or delete it.
type Alert struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Gesture    Type      `json:"gesture"`
	Confidence float64   `json:"confidence"`
	Evidence   []byte    `json:"evidence,omitempty"` // JPEG bytes, may be nil
	Location   string    `json:"location"`
	Processed  bool      `json:"processed"`
}

// New constructs an alert with a fresh unique identifier and the current
// timestamp. This is a pure construction step with no side effects.
func New(gesture Type, confidence float64, evidence []byte, location string) *Alert {
	return &Alert{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		Gesture:    gesture,
		Confidence: confidence,
		Evidence:   evidence,
		Location:   location,
		Processed:  false,
	}
}

// Sink receives emitted alerts. Implementations include the sqlite
// history store, the notifier dispatcher, and the live status broadcast.
type Sink interface {
	Publish(a *Alert) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(a *Alert) error

// Publish calls f(a).
func (f SinkFunc) Publish(a *Alert) error { return f(a) }
