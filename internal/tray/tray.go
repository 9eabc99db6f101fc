// Package tray provides a system tray interface for the Raksha emergency monitor.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(monitoring bool)
	onDashboard func()
	onQuit      func()
	monitoring  bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastAlert *systray.MenuItem
}

// New creates a new Tray instance with monitoring enabled by default.
func New() *Tray {
	return &Tray{
		monitoring: true,
	}
}

// OnToggle sets the callback invoked when monitoring is toggled.
func (t *Tray) OnToggle(fn func(monitoring bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback invoked when the dashboard item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback invoked when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Raksha")
	systray.SetTooltip("Raksha Emergency Gesture Monitor")

	t.menuToggle = systray.AddMenuItem("● Monitoring", "Toggle gesture monitoring")
	systray.AddSeparator()

	t.menuLastAlert = systray.AddMenuItem("Last alert: none", "Most recent alert")
	t.menuLastAlert.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open dashboard in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Raksha")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the monitoring toggle click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.monitoring = !t.monitoring
	monitoring := t.monitoring

	if monitoring {
		t.menuToggle.SetTitle("● Monitoring")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(monitoring)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastAlert updates the last alert display in the menu.
func (t *Tray) SetLastAlert(summary string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastAlert != nil {
		if summary == "" {
			t.menuLastAlert.SetTitle("Last alert: none")
		} else {
			t.menuLastAlert.SetTitle("Last alert: " + summary)
		}
	}
}

// IsMonitoring returns whether monitoring is currently enabled.
func (t *Tray) IsMonitoring() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.monitoring
}
