// Package session owns the detection loop for one camera feed: it drives
// frames through the analyzers and the consensus machine, captures
// evidence, and publishes alerts to the configured sinks.
package session

import (
	"log"
	"sync"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/capture"
	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/evidence"
	"github.com/ayusman/raksha/internal/gesture"
)

// Config holds configuration for a detection session.
type Config struct {
	Camera capture.Camera

	// Detector is the landmark backend. Nil selects the pixel heuristic
	// path and marks the session degraded.
	Detector detector.Detector

	Sensitivity gesture.Sensitivity
	Location    string
	Sinks       []alert.Sink

	// Clock is injected into the consensus machine; nil means wall clock.
	Clock gesture.Clock

	// ActivityThreshold is the percent-changed-pixels threshold for the
	// activity gate on the pixel path. Zero or negative disables the gate.
	ActivityThreshold float64
}

// Status is the live externally visible state of a session, refreshed on
// every poll cycle.
type Status struct {
	Running          bool                `json:"running"`
	Gesture          gesture.Gesture     `json:"gesture"`
	Confidence       float64             `json:"confidence"`
	State            gesture.State       `json:"state"`
	CooldownActive   bool                `json:"cooldown_active"`
	CooldownProgress float64             `json:"cooldown_progress"`
	Degraded         bool                `json:"degraded"`
	Sensitivity      gesture.Sensitivity `json:"sensitivity"`
}

// DetectionSession is the per-camera detection loop. Each camera feed
// owns exactly one instance; nothing here is shared across sessions.
//
// Control operations (sensitivity change, reset) issued while a cycle is
// in flight are queued and applied at the next poll boundary so the
// rolling history is never half-updated.
type DetectionSession struct {
	camera    capture.Camera
	det       detector.Detector
	geometry  *gesture.GeometryAnalyzer
	pixel     *gesture.PixelAnalyzer
	consensus *gesture.Consensus
	capturer  *evidence.Capturer
	gate      *capture.ActivityGate
	sinks     []alert.Sink
	location  string

	mu       sync.RWMutex
	level    gesture.Sensitivity
	degraded bool
	stopCh   chan struct{}
	cmds     chan func()
}

// New creates a detection session. It does not open the camera; call
// Start for that.
func New(cfg Config) *DetectionSession {
	profile := gesture.ProfileFor(cfg.Sensitivity)

	var gate *capture.ActivityGate
	if cfg.ActivityThreshold > 0 {
		gate = capture.NewActivityGate(cfg.ActivityThreshold)
	}

	return &DetectionSession{
		camera:    cfg.Camera,
		det:       cfg.Detector,
		geometry:  gesture.NewGeometryAnalyzer(profile),
		pixel:     gesture.NewPixelAnalyzer(profile),
		consensus: gesture.NewConsensus(profile, cfg.Clock),
		capturer:  evidence.NewCapturer(cfg.Location),
		gate:      gate,
		sinks:     cfg.Sinks,
		location:  cfg.Location,
		level:     profile.Level,
		degraded:  cfg.Detector == nil,
	}
}

// Start opens the camera and begins the detection loop. Starting an
// already running session is a no-op.
func (s *DetectionSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	if err := s.camera.Open(); err != nil {
		return err
	}

	s.stopCh = make(chan struct{})
	s.cmds = make(chan func(), 16)
	go s.runLoop(s.stopCh, s.cmds)

	log.Println("detection session started")
	return nil
}

// Stop halts the loop and releases resources. Stopping twice is safe.
// The loop signal is cleared first so no timer callback can fire against
// a torn-down frame source.
func (s *DetectionSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh == nil {
		return
	}

	close(s.stopCh)
	s.stopCh = nil
	s.cmds = nil

	if err := s.camera.Close(); err != nil {
		log.Printf("error closing camera: %v", err)
	}

	if s.gate != nil {
		s.gate.Close()
	}

	if s.det != nil {
		if err := s.det.Close(); err != nil {
			log.Printf("error closing detector: %v", err)
		}
	}

	log.Println("detection session stopped")
}

// Running reports whether the loop is active.
func (s *DetectionSession) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopCh != nil
}

// Degraded reports whether the session is running without a landmark
// backend, on pixel heuristics alone.
func (s *DetectionSession) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Sensitivity returns the active sensitivity level.
func (s *DetectionSession) Sensitivity() gesture.Sensitivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// SetSensitivity swaps the sensitivity profile. The change takes effect
// at the next poll boundary and resets the consensus machine's transient
// state, per the profile contract.
func (s *DetectionSession) SetSensitivity(level gesture.Sensitivity) {
	profile := gesture.ProfileFor(level)
	s.apply(func() {
		s.mu.Lock()
		s.level = profile.Level
		s.mu.Unlock()

		s.consensus.SetProfile(profile)
		s.geometry.SetProfile(profile)
		s.pixel.SetProfile(profile)
		if s.gate != nil {
			s.gate.Reset()
		}
	})
}

// Reset clears detector state without stopping the video source.
func (s *DetectionSession) Reset() {
	s.apply(func() {
		s.consensus.Reset()
		if s.gate != nil {
			s.gate.Reset()
		}
	})
}

// ManualCapture bypasses the consensus machine entirely: it grabs the
// current frame if one is available and emits a manual alert with full
// confidence, unaffected by any active cooldown.
func (s *DetectionSession) ManualCapture() *alert.Alert {
	var img []byte
	if frame, err := s.camera.ReadFrame(); err == nil {
		img = s.capturer.Capture(frame, nil, gesture.GestureManual)
		frame.Close()
	} else {
		log.Printf("manual capture without frame: %v", err)
	}

	a := alert.New(alert.TypeManual, 1.0, img, s.location)
	s.publish(a)
	return a
}

// Status returns the live session state for display.
func (s *DetectionSession) Status() Status {
	d := s.consensus.Current()

	s.mu.RLock()
	running := s.stopCh != nil
	degraded := s.degraded
	level := s.level
	s.mu.RUnlock()

	return Status{
		Running:          running,
		Gesture:          d.Gesture,
		Confidence:       d.Confidence,
		State:            s.consensus.State(),
		CooldownActive:   s.consensus.CooldownActive(),
		CooldownProgress: s.consensus.CooldownProgress(),
		Degraded:         degraded,
		Sensitivity:      level,
	}
}

// Consensus exposes the state machine for tests and diagnostics.
func (s *DetectionSession) Consensus() *gesture.Consensus {
	return s.consensus
}

// apply runs a control mutation. While the loop is running it is queued
// and executed between polls; otherwise it runs immediately.
func (s *DetectionSession) apply(fn func()) {
	s.mu.RLock()
	cmds := s.cmds
	s.mu.RUnlock()

	if cmds != nil {
		cmds <- fn
		return
	}
	fn()
}

func (s *DetectionSession) publish(a *alert.Alert) {
	for _, sink := range s.sinks {
		if err := sink.Publish(a); err != nil {
			log.Printf("alert sink failed: %v", err)
		}
	}
}
