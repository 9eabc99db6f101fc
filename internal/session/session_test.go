package session

import (
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/capture"
	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/gesture"
)

// recordingSink collects published alerts.
type recordingSink struct {
	mu     sync.Mutex
	alerts []*alert.Alert
	ch     chan *alert.Alert
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan *alert.Alert, 16)}
}

func (s *recordingSink) Publish(a *alert.Alert) error {
	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	s.mu.Unlock()
	s.ch <- a
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

func TestSession_ManualCaptureWithoutFrame(t *testing.T) {
	sink := newRecordingSink()
	sess := New(Config{
		Camera:      capture.NewMockCamera(nil, false),
		Sensitivity: gesture.SensitivityMedium,
		Location:    "office",
		Sinks:       []alert.Sink{sink},
	})

	// The camera is closed, so no frame and no evidence; the alert still
	// goes out.
	a := sess.ManualCapture()

	if a.Gesture != alert.TypeManual {
		t.Errorf("expected manual alert, got %s", a.Gesture)
	}
	if a.Confidence != 1.0 {
		t.Errorf("expected full confidence, got %f", a.Confidence)
	}
	if a.Evidence != nil {
		t.Error("expected no evidence without a frame")
	}
	if a.Location != "office" {
		t.Errorf("expected location carried, got %q", a.Location)
	}
	if sink.count() != 1 {
		t.Errorf("expected 1 published alert, got %d", sink.count())
	}
}

func TestSession_SensitivitySwitch(t *testing.T) {
	sess := New(Config{
		Camera:      capture.NewMockCamera(nil, false),
		Sensitivity: gesture.SensitivityMedium,
	})

	if sess.Sensitivity() != gesture.SensitivityMedium {
		t.Fatalf("expected medium, got %s", sess.Sensitivity())
	}

	// Not running: the change applies immediately
	sess.SetSensitivity(gesture.SensitivityHigh)

	if sess.Sensitivity() != gesture.SensitivityHigh {
		t.Errorf("expected high, got %s", sess.Sensitivity())
	}
	if sess.Consensus().Profile().Level != gesture.SensitivityHigh {
		t.Error("consensus profile not switched")
	}
}

func TestSession_StatusDefaults(t *testing.T) {
	sess := New(Config{
		Camera:      capture.NewMockCamera(nil, false),
		Sensitivity: gesture.SensitivityLow,
	})

	status := sess.Status()
	if status.Running {
		t.Error("unstarted session must not report running")
	}
	if !status.Degraded {
		t.Error("session without a detector must report degraded")
	}
	if status.Gesture != gesture.GestureNone {
		t.Errorf("expected no gesture, got %s", status.Gesture)
	}
	if status.Sensitivity != gesture.SensitivityLow {
		t.Errorf("expected low sensitivity, got %s", status.Sensitivity)
	}
}

func TestSession_StartStop(t *testing.T) {
	sess := New(Config{
		Camera:      capture.NewMockCamera(nil, false),
		Sensitivity: gesture.SensitivityMedium,
	})

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !sess.Running() {
		t.Error("expected running after Start")
	}

	// Second Start is a no-op
	if err := sess.Start(); err != nil {
		t.Errorf("second Start() failed: %v", err)
	}

	sess.Stop()
	if sess.Running() {
		t.Error("expected stopped after Stop")
	}

	// Second Stop is safe
	sess.Stop()
}

func TestSession_DetectsVictoryThroughLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.VictorySignLandmarks()})

	sink := newRecordingSink()
	sess := New(Config{
		Camera:      capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector:    det,
		Sensitivity: gesture.SensitivityHigh,
		Location:    "lab",
		Sinks:       []alert.Sink{sink},
	})

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer sess.Stop()

	select {
	case a := <-sink.ch:
		if a.Gesture != alert.TypeVictory {
			t.Errorf("expected victory alert, got %s", a.Gesture)
		}
		if a.Confidence < 0.6 {
			t.Errorf("expected confident detection, got %f", a.Confidence)
		}
		if len(a.Evidence) == 0 {
			t.Error("expected evidence image on automatic alert")
		}
		if a.Location != "lab" {
			t.Errorf("expected location carried, got %q", a.Location)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no alert within 3s of sustained V sign")
	}

	if sess.Status().Gesture != gesture.GestureVictory {
		t.Error("expected live status to show the victory gesture")
	}
}

func TestSession_NoAlertOnFist(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})

	sink := newRecordingSink()
	sess := New(Config{
		Camera:      capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector:    det,
		Sensitivity: gesture.SensitivityHigh,
		Sinks:       []alert.Sink{sink},
	})

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	sess.Stop()

	if sink.count() != 0 {
		t.Errorf("fist must not produce alerts, got %d", sink.count())
	}
}
