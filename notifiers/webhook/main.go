// Package main provides a webhook notifier.
// It POSTs the alert payload as JSON to a configured URL.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
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

// WebhookConfig defines the notifier configuration.
type WebhookConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func main() {
	var note Notification
	if err := json.NewDecoder(os.Stdin).Decode(&note); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode notification: %v", err))
		return
	}

	var cfg WebhookConfig
	if len(note.Config) > 0 {
		if err := json.Unmarshal(note.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}
	if cfg.URL == "" {
		writeErrorResponse("url is required")
		return
	}

	if err := deliver(cfg, &note); err != nil {
		writeErrorResponse(fmt.Sprintf("delivery failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// deliver POSTs the notification to the configured endpoint.
func deliver(cfg WebhookConfig, note *Notification) error {
	body, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 4 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned %s", resp.Status)
	}
	return nil
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: msg})
}
