// Package main provides a desktop notifier.
// It raises a native desktop notification for an emitted alert.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Notification represents the input from the notifier executor.
type Notification struct {
	AlertID    string          `json:"alert_id"`
	Timestamp  string          `json:"timestamp"`
	Gesture    string          `json:"gesture"`
	Confidence float64         `json:"confidence"`
	Location   string          `json:"location"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response represents the output to the notifier executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	var note Notification
	if err := json.NewDecoder(os.Stdin).Decode(&note); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode notification: %v", err))
		return
	}

	title := "Raksha alert"
	body := fmt.Sprintf("%s detected (%.0f%%)", note.Gesture, note.Confidence*100)
	if note.Location != "" {
		body += " at " + note.Location
	}

	if err := show(title, body); err != nil {
		writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// show raises the notification with the platform's native tool.
func show(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", "-u", "critical", title, body)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: msg})
}
