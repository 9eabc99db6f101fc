// Package gesture implements the V-sign classification and temporal
// debouncing engine: a landmark geometry analyzer, a pixel heuristic
// analyzer used when no landmark backend is available, and the consensus
// state machine that stabilizes per-frame verdicts into alerts.
package gesture

// Gesture identifies the stabilized decision exposed to the outside.
type Gesture string

const (
	// GestureNone means no gesture is currently recognized.
	GestureNone Gesture = "none"
	// GestureVictory is a stabilized V-sign detection.
	GestureVictory Gesture = "victory"
	// GestureManual marks an operator-requested capture.
	GestureManual Gesture = "manual"
)

// FrameVerdict is the atomic output of an analyzer for a single frame.
// It is ephemeral: the consensus machine folds it into its rolling
// history immediately.
type FrameVerdict struct {
	IsVictory  bool    `json:"is_victory"`
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
}
