package gesture

import (
	"sync"
	"time"
)

// Clock abstracts time so the state machine can be tested without a real
// timer.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// State identifies where the consensus machine is in its trigger cycle.
type State string

const (
	// StateIdle means no recent positive signal.
	StateIdle State = "idle"
	// StateAccumulating means positive frames are being counted toward
	// the required run length.
	StateAccumulating State = "accumulating"
	// StateTriggered means an alert was just emitted this frame.
	StateTriggered State = "triggered"
	// StateCooldownExpiring means the cooldown window is counting down.
	StateCooldownExpiring State = "cooldown"
)

// Decision is the stabilized output of one Consume call.
type Decision struct {
	Gesture    Gesture
	Confidence float64
	// Triggered is true exactly once per rising edge: the frame on which
	// the consecutive-positive requirement was first met outside a
	// cooldown window. The caller emits one alert per Triggered decision.
	Triggered bool
}

// Consensus is the temporal debounce state machine. It consumes one
// verdict per processed frame, maintains a short rolling history, applies
// the profile's required-consecutive-positives rule, and owns the
// cooldown that suppresses re-triggering right after a positive.
//
// One Consensus instance belongs to one detection session and must not be
// shared across camera feeds.
type Consensus struct {
	mu          sync.Mutex
	profile     Profile
	clock       Clock
	history     []FrameVerdict
	consecutive int
	lastTrigger time.Time
	state       State
	gesture     Gesture
	confidence  float64
}

// NewConsensus creates a state machine with the given profile. A nil
// clock defaults to the system clock.
func NewConsensus(profile Profile, clock Clock) *Consensus {
	if clock == nil {
		clock = systemClock{}
	}
	return &Consensus{
		profile: profile,
		clock:   clock,
		state:   StateIdle,
		gesture: GestureNone,
	}
}

// Consume folds one frame verdict into the machine and returns the
// externally visible stabilized decision. It is called once per processed
// frame, in frame order.
func (c *Consensus) Consume(v FrameVerdict) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.push(v)

	positive := v.IsVictory && v.Confidence >= c.profile.MinConfidence

	if !positive {
		// A single negative frame breaks the run immediately. No grace
		// frames: tracking dropout must not carry a stale positive.
		c.consecutive = 0
		c.state = StateIdle
		c.gesture = GestureNone
		c.confidence = 0
		return c.decision(false)
	}

	c.consecutive++
	if c.consecutive > len(c.history) {
		c.consecutive = len(c.history)
	}

	if c.cooldownActive(now) {
		// Keep the display live but emit nothing until the window ends.
		c.state = StateCooldownExpiring
		c.gesture = GestureVictory
		c.confidence = v.Confidence
		return c.decision(false)
	}

	if c.consecutive >= c.profile.RequiredPositiveFrames {
		c.state = StateTriggered
		c.gesture = GestureVictory
		c.confidence = v.Confidence
		c.lastTrigger = now
		c.consecutive = 0
		return c.decision(true)
	}

	c.state = StateAccumulating
	c.gesture = GestureNone
	c.confidence = v.Confidence
	return c.decision(false)
}

// Reset clears history, counters, and timers and forces the machine to
// idle, independent of any active cooldown. Calling it twice is the same
// as calling it once.
func (c *Consensus) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// SetProfile swaps the sensitivity profile and resets transient state so
// the new thresholds start from a clean history.
func (c *Consensus) SetProfile(profile Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = profile
	c.reset()
}

// Profile returns the active sensitivity profile.
func (c *Consensus) Profile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// State returns the current machine state.
func (c *Consensus) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the last externally visible stabilized decision.
func (c *Consensus) Current() Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision(false)
}

// CooldownActive reports whether new triggers are currently suppressed.
func (c *Consensus) CooldownActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cooldownActive(c.clock.Now())
}

// CooldownProgress returns how far the cooldown window has elapsed in
// [0,1]. Zero when no cooldown is active.
func (c *Consensus) CooldownProgress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if !c.cooldownActive(now) {
		return 0
	}
	return float64(now.Sub(c.lastTrigger)) / float64(c.profile.Cooldown)
}

// History returns a copy of the rolling verdict history, oldest first.
func (c *Consensus) History() []FrameVerdict {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FrameVerdict, len(c.history))
	copy(out, c.history)
	return out
}

// ConsecutivePositives returns the current run length.
func (c *Consensus) ConsecutivePositives() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consecutive
}

func (c *Consensus) reset() {
	c.history = c.history[:0]
	c.consecutive = 0
	c.lastTrigger = time.Time{}
	c.state = StateIdle
	c.gesture = GestureNone
	c.confidence = 0
}

func (c *Consensus) push(v FrameVerdict) {
	size := c.profile.HistorySize
	if size < 1 {
		size = 1
	}
	if len(c.history) >= size {
		copy(c.history, c.history[1:])
		c.history = c.history[:size-1]
	}
	c.history = append(c.history, v)
}

func (c *Consensus) cooldownActive(now time.Time) bool {
	if c.lastTrigger.IsZero() {
		return false
	}
	return now.Sub(c.lastTrigger) < c.profile.Cooldown
}

func (c *Consensus) decision(triggered bool) Decision {
	return Decision{
		Gesture:    c.gesture,
		Confidence: c.confidence,
		Triggered:  triggered,
	}
}
