package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/capture"
	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/gesture"
	"github.com/ayusman/raksha/internal/server"
	"github.com/ayusman/raksha/internal/session"
	"github.com/ayusman/raksha/internal/store"
)

func TestE2E_ManualAlertWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	sess := session.New(session.Config{
		Camera:      capture.NewMockCamera(nil, false),
		Sensitivity: gesture.SensitivityMedium,
		Location:    "front desk",
		Sinks:       []alert.Sink{s.Alerts()},
	})

	srv := server.New(server.Config{Store: s, Session: sess})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	var alertID string

	t.Run("ManualCapture", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/control/capture", "application/json", nil)
		if err != nil {
			t.Fatalf("capture request error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			ID         string  `json:"id"`
			Gesture    string  `json:"gesture"`
			Confidence float64 `json:"confidence"`
			Location   string  `json:"location"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if created.Gesture != "manual" {
			t.Errorf("gesture = %q, want manual", created.Gesture)
		}
		if created.Confidence != 1.0 {
			t.Errorf("confidence = %f, want 1.0", created.Confidence)
		}
		if created.Location != "front desk" {
			t.Errorf("location = %q, want front desk", created.Location)
		}
		alertID = created.ID
	})

	t.Run("AlertPersisted", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/alerts/" + alertID)
		if err != nil {
			t.Fatalf("get alert error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("MarkProcessed", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut,
			ts.URL+"/api/alerts/"+alertID+"/processed",
			strings.NewReader(`{"processed":true}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("processed request error = %v", err)
		}
		defer resp.Body.Close()

		var updated struct {
			Processed bool `json:"processed"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if !updated.Processed {
			t.Error("alert not marked processed")
		}
	})

	t.Run("SensitivityRoundTrip", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut,
			ts.URL+"/api/control/sensitivity",
			strings.NewReader(`{"sensitivity":"low"}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("sensitivity request error = %v", err)
		}
		resp.Body.Close()

		if sess.Sensitivity() != gesture.SensitivityLow {
			t.Errorf("session sensitivity = %s, want low", sess.Sensitivity())
		}

		stored, err := s.Settings().Get(store.SettingSensitivity, "")
		if err != nil || stored != "low" {
			t.Errorf("persisted sensitivity = %q (err %v), want low", stored, err)
		}
	})
}

func TestE2E_AutomaticDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.VictorySignLandmarks()})

	sess := session.New(session.Config{
		Camera:      capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector:    det,
		Sensitivity: gesture.SensitivityHigh,
		Location:    "entrance",
		Sinks:       []alert.Sink{s.Alerts()},
	})

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sess.Stop()

	// Wait for the loop to trigger and persist at least one alert
	deadline := time.After(3 * time.Second)
	for {
		alerts, err := s.Alerts().List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(alerts) > 0 {
			a := alerts[0]
			if a.Gesture != alert.TypeVictory {
				t.Errorf("gesture = %s, want victory", a.Gesture)
			}
			if len(a.Evidence) == 0 {
				t.Error("expected evidence image on automatic alert")
			}
			if a.Location != "entrance" {
				t.Errorf("location = %q, want entrance", a.Location)
			}
			return
		}

		select {
		case <-deadline:
			t.Fatal("no alert persisted within 3s of sustained V sign")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
