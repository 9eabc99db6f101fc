package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/capture"
	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/gesture"
	"github.com/ayusman/raksha/internal/notify"
	"github.com/ayusman/raksha/internal/server"
	"github.com/ayusman/raksha/internal/session"
	"github.com/ayusman/raksha/internal/store"
	"github.com/ayusman/raksha/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("Raksha - Emergency Gesture Monitor")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".raksha")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "raksha.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Persisted settings survive restarts
	rawLevel, err := st.Settings().Get(store.SettingSensitivity, string(gesture.SensitivityMedium))
	if err != nil {
		log.Fatalf("Failed to read settings: %v", err)
	}
	level, err := gesture.ParseSensitivity(rawLevel)
	if err != nil {
		log.Printf("stored sensitivity %q invalid, using medium", rawLevel)
		level = gesture.SensitivityMedium
	}

	location, err := st.Settings().Get(store.SettingLocation, "")
	if err != nil {
		log.Fatalf("Failed to read settings: %v", err)
	}

	// The landmark backend is optional. Without it the session still runs
	// on pixel heuristics, flagged degraded in the status feed.
	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err != nil {
		log.Printf("landmark detection unavailable, using pixel heuristics: %v", err)
	} else {
		det = mp
	}

	notifiers := notify.NewManager(filepath.Join(dataDir, "notifiers"))
	if err := notifiers.Discover(); err != nil {
		log.Printf("notifier discovery failed: %v", err)
	}
	for _, n := range notifiers.List() {
		log.Printf("notifier loaded: %s %s", n.Manifest.Name, n.Manifest.Version)
	}

	trayApp := tray.New()

	camera := capture.NewCamera(0)
	sess := session.New(session.Config{
		Camera:      camera,
		Detector:    det,
		Sensitivity: level,
		Location:    location,
		Sinks: []alert.Sink{
			st.Alerts(),
			notify.NewDispatcher(notifiers),
			alert.SinkFunc(func(a *alert.Alert) error {
				trayApp.SetLastAlert(a.Timestamp.Format("15:04:05"))
				return nil
			}),
		},
		ActivityThreshold: 0.5,
	})

	if err := sess.Start(); err != nil {
		log.Fatalf("Failed to start detection session: %v", err)
	}
	defer sess.Stop()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    camera,
		Session:   sess,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	trayApp.OnToggle(func(monitoring bool) {
		if monitoring {
			if err := sess.Start(); err != nil {
				log.Printf("failed to resume monitoring: %v", err)
			}
		} else {
			sess.Stop()
		}
	})
	trayApp.OnDashboard(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	trayApp.OnQuit(func() {
		sess.Stop()
	})

	// Blocks until the tray quits
	trayApp.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.raksha/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".raksha", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
