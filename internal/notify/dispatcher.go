package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/ayusman/raksha/internal/alert"
)

// DefaultTimeoutMs bounds a single notifier invocation. Alert fan-out
// must not hang on one slow channel.
const DefaultTimeoutMs = 5000

// Dispatcher fans an alert out to every discovered notifier. It
// satisfies alert.Sink so it can be wired into a detection session
// alongside the store.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
}

// NewDispatcher creates a Dispatcher over the given manager.
func NewDispatcher(manager *Manager) *Dispatcher {
	return &Dispatcher{
		manager:  manager,
		executor: NewExecutor(DefaultTimeoutMs),
	}
}

// Publish delivers the alert to all notifiers. Delivery is best effort:
// each failure is logged and the rest of the channels still run. An
// error is returned only when every channel failed.
func (d *Dispatcher) Publish(a *alert.Alert) error {
	notifiers := d.manager.List()
	if len(notifiers) == 0 {
		return nil
	}

	note := &Notification{
		AlertID:    a.ID,
		Timestamp:  a.Timestamp.Format(time.RFC3339),
		Gesture:    string(a.Gesture),
		Confidence: a.Confidence,
		Location:   a.Location,
	}

	failed := 0
	for _, n := range notifiers {
		note.Config = n.Manifest.Config

		resp, err := d.executor.Execute(n, note)
		if err != nil {
			log.Printf("notifier %s: %v", n.Manifest.Name, err)
			failed++
			continue
		}
		if !resp.Success {
			log.Printf("notifier %s rejected alert: %s", n.Manifest.Name, resp.Error)
			failed++
		}
	}

	if failed == len(notifiers) {
		return fmt.Errorf("all %d notifiers failed for alert %s", failed, a.ID)
	}
	return nil
}
