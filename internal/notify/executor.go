package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Executor invokes notifiers with timeout support.
type Executor struct {
	timeoutMs int
}

// NewExecutor creates a new Executor with the specified timeout in milliseconds.
func NewExecutor(timeoutMs int) *Executor {
	return &Executor{
		timeoutMs: timeoutMs,
	}
}

// Execute runs a notifier with the given notification and returns its
// response. The notification is marshalled to JSON and written to the
// notifier's stdin; stdout must contain a single Response object.
func (e *Executor) Execute(n *Notifier, note *Notification) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, n.Executable)
	cmd.Dir = n.Path

	payload, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("notifier timeout after %dms", e.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return nil, fmt.Errorf("notifier failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("notifier failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse notifier response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
