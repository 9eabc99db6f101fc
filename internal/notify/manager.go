package notify

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotifierNotFound is returned when a requested notifier cannot be found.
var ErrNotifierNotFound = errors.New("notifier not found")

// Manager manages notifier discovery and access.
type Manager struct {
	dir       string
	notifiers map[string]*Notifier
	mu        sync.RWMutex
}

// NewManager creates a new Manager scanning the given directory.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:       dir,
		notifiers: make(map[string]*Notifier),
	}
}

// Discover scans the notifier directory for notifier.json manifests.
// Each subdirectory is expected to hold one notifier. A missing directory
// is not an error; the alert path must come up even with no channels
// configured.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifiers = make(map[string]*Notifier)

	info, err := os.Stat(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		notifierPath := filepath.Join(m.dir, entry.Name())
		manifestPath := filepath.Join(notifierPath, "notifier.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // Skip notifiers we can't read
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue // Skip notifiers with invalid JSON
		}

		m.notifiers[manifest.Name] = &Notifier{
			Manifest:   manifest,
			Path:       notifierPath,
			Executable: filepath.Join(notifierPath, manifest.Executable),
		}
	}

	return nil
}

// Get returns a notifier by name.
// Returns ErrNotifierNotFound if the notifier does not exist.
func (m *Manager) Get(name string) (*Notifier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifiers[name]
	if !ok {
		return nil, ErrNotifierNotFound
	}

	return n, nil
}

// List returns a slice of all discovered notifiers.
func (m *Manager) List() []*Notifier {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notifiers := make([]*Notifier, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		notifiers = append(notifiers, n)
	}

	return notifiers
}

// Dir returns the notifier directory path.
func (m *Manager) Dir() string {
	return m.dir
}
