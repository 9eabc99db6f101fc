package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/raksha/internal/gesture"
	"github.com/ayusman/raksha/internal/session"
	"github.com/gorilla/websocket"
)

// fakeStatusSource returns a fixed status snapshot.
type fakeStatusSource struct {
	status session.Status
}

func (f *fakeStatusSource) Status() session.Status { return f.status }

func TestStatusHandler_Broadcast(t *testing.T) {
	source := &fakeStatusSource{
		status: session.Status{
			Running:     true,
			Gesture:     gesture.GestureVictory,
			Confidence:  0.9,
			State:       gesture.StateTriggered,
			Sensitivity: gesture.SensitivityHigh,
		},
	}

	ts := httptest.NewServer(NewStatusHandler(source))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("no broadcast within deadline: %v", err)
	}

	var payload struct {
		Status    session.Status `json:"status"`
		Timestamp int64          `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}

	if payload.Status.Gesture != gesture.GestureVictory {
		t.Errorf("expected victory gesture in broadcast, got %s", payload.Status.Gesture)
	}
	if !payload.Status.Running {
		t.Error("expected running status in broadcast")
	}
	if payload.Timestamp == 0 {
		t.Error("expected non-zero timestamp")
	}
}
