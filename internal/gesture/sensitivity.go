package gesture

import (
	"fmt"
	"time"
)

// Sensitivity selects how readily the system reports a positive detection.
type Sensitivity string

const (
	// SensitivityLow requires the longest consecutive run of positive
	// frames and the strongest evidence before triggering.
	SensitivityLow Sensitivity = "low"
	// SensitivityMedium is the default trade-off.
	SensitivityMedium Sensitivity = "medium"
	// SensitivityHigh triggers on a single confident frame.
	SensitivityHigh Sensitivity = "high"
)

// ParseSensitivity converts a string into a Sensitivity level.
func ParseSensitivity(s string) (Sensitivity, error) {
	switch Sensitivity(s) {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return Sensitivity(s), nil
	}
	return "", fmt.Errorf("unknown sensitivity %q", s)
}

// Profile bundles every tunable threshold for one sensitivity level.
// All numeric knobs live here rather than as inline literals; the source
// material for these values varied between iterations (extension ratio
// 1.2 vs 1.5, cooldowns from tens of milliseconds to seconds), so every
// one of them is configuration, not law.
type Profile struct {
	Level Sensitivity

	// Consensus / debounce
	RequiredPositiveFrames int           // consecutive positives before triggering
	MinConfidence          float64       // verdicts below this never count as positive
	Cooldown               time.Duration // re-trigger suppression window
	HistorySize            int           // rolling verdict history length
	PollInterval           time.Duration // detection loop tick

	// Landmark geometry
	ExtensionRatio         float64 // wrist-tip vs wrist-knuckle distance factor
	MinTipSeparation       float64 // index/middle tip gap, in hand-scale units
	MinInterFingerAngleDeg float64 // index/middle divergence angle
	BaseConfidence         float64 // confidence when the V predicate holds
	ConfidenceBonus        float64 // per satisfied extra cue, capped at 1.0

	// Pixel heuristics
	MinLuminance     float64 // frames darker than this are rejected outright
	MaxLuminance     float64 // frames brighter than this are rejected outright
	SampleStride     int     // skin/edge/template subsampling step, in pixels
	SkinRatioMin     float64 // plausible hand-in-frame skin coverage band
	SkinRatioMax     float64
	EdgeNeighborMin  int     // differing neighbors for a cell to count as edge
	MinTemplateScore float64 // best template score needed for a positive
	IdealSkinRatio   float64 // empirically ideal coverage for shape weighting
	IdealEdgeRatio   float64
	TemplateWeight   float64 // fusion weights; template matching dominates
	ShapeWeight      float64
}

// ProfileFor returns the Profile for a sensitivity level. Unknown levels
// fall back to medium.
func ProfileFor(level Sensitivity) Profile {
	p := Profile{
		Level:                  SensitivityMedium,
		RequiredPositiveFrames: 2,
		MinConfidence:          0.70,
		Cooldown:               3 * time.Second,
		HistorySize:            4,
		PollInterval:           100 * time.Millisecond,

		ExtensionRatio:         1.5,
		MinTipSeparation:       0.05,
		MinInterFingerAngleDeg: 12,
		BaseConfidence:         0.75,
		ConfidenceBonus:        0.10,

		MinLuminance:     30,
		MaxLuminance:     225,
		SampleStride:     3,
		SkinRatioMin:     0.08,
		SkinRatioMax:     0.65,
		EdgeNeighborMin:  2,
		MinTemplateScore: 0.65,
		IdealSkinRatio:   0.25,
		IdealEdgeRatio:   0.10,
		TemplateWeight:   0.7,
		ShapeWeight:      0.3,
	}

	switch level {
	case SensitivityLow:
		p.Level = SensitivityLow
		p.RequiredPositiveFrames = 3
		p.MinConfidence = 0.80
		p.Cooldown = 5 * time.Second
		p.PollInterval = 200 * time.Millisecond
		p.SampleStride = 4
		p.SkinRatioMin = 0.10
		p.SkinRatioMax = 0.60
		p.MinTemplateScore = 0.75
	case SensitivityHigh:
		p.Level = SensitivityHigh
		p.RequiredPositiveFrames = 1
		p.MinConfidence = 0.60
		p.Cooldown = 1500 * time.Millisecond
		p.PollInterval = 50 * time.Millisecond
		p.ExtensionRatio = 1.2
		p.SampleStride = 2
		p.SkinRatioMin = 0.05
		p.SkinRatioMax = 0.70
		p.MinTemplateScore = 0.55
	}

	return p
}
