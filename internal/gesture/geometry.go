package gesture

import (
	"math"

	"github.com/ayusman/raksha/internal/detector"
)

// GeometryAnalyzer classifies a 21-point hand skeleton as V sign or not.
// It never panics on malformed input; anything short of a well-formed
// hand degrades to a negative verdict.
type GeometryAnalyzer struct {
	profile Profile
}

// NewGeometryAnalyzer creates an analyzer with the given profile.
func NewGeometryAnalyzer(profile Profile) *GeometryAnalyzer {
	return &GeometryAnalyzer{profile: profile}
}

// SetProfile swaps the sensitivity profile.
func (a *GeometryAnalyzer) SetProfile(profile Profile) {
	a.profile = profile
}

// Analyze computes a per-frame verdict from hand landmark points.
//
// A finger counts as extended when the wrist-to-tip distance exceeds the
// wrist-to-knuckle distance by the profile's extension ratio. The V
// predicate requires index and middle extended, ring or pinky contracted,
// and the index/middle tips separated by at least the profile minimum in
// hand-scale units. Confidence starts at the profile base and earns a
// bonus per extra cue: wide tip separation, both ring and pinky curled,
// and a strong inter-finger angle.
func (a *GeometryAnalyzer) Analyze(points []detector.Point3D) FrameVerdict {
	if !detector.ValidPoints(points) {
		return FrameVerdict{}
	}

	wrist := points[detector.Wrist]
	handScale := detector.Distance3D(wrist, points[detector.MiddleMCP])
	if handScale < 1e-10 {
		// Degenerate skeleton, every ratio below would blow up.
		return FrameVerdict{}
	}

	extended := func(tip, knuckle int) bool {
		tipDist := detector.Distance3D(wrist, points[tip])
		baseDist := detector.Distance3D(wrist, points[knuckle])
		return tipDist > a.profile.ExtensionRatio*baseDist
	}

	indexExt := extended(detector.IndexTip, detector.IndexMCP)
	middleExt := extended(detector.MiddleTip, detector.MiddleMCP)
	ringExt := extended(detector.RingTip, detector.RingMCP)
	pinkyExt := extended(detector.PinkyTip, detector.PinkyMCP)

	separation := detector.Distance3D(points[detector.IndexTip], points[detector.MiddleTip]) / handScale

	isVictory := indexExt && middleExt &&
		(!ringExt || !pinkyExt) &&
		separation >= a.profile.MinTipSeparation

	if !isVictory {
		return FrameVerdict{}
	}

	confidence := a.profile.BaseConfidence

	if separation >= 2*a.profile.MinTipSeparation {
		confidence += a.profile.ConfidenceBonus
	}
	if !ringExt && !pinkyExt {
		confidence += a.profile.ConfidenceBonus
	}
	if a.interFingerAngleDeg(points) >= 1.5*a.profile.MinInterFingerAngleDeg {
		confidence += a.profile.ConfidenceBonus
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	return FrameVerdict{IsVictory: true, Confidence: confidence}
}

// interFingerAngleDeg returns the angle between the index and middle
// finger direction vectors (knuckle to tip), in degrees. A zero-magnitude
// direction vector short-circuits to 0 instead of dividing by zero.
func (a *GeometryAnalyzer) interFingerAngleDeg(points []detector.Point3D) float64 {
	index := fingerVector(points, detector.IndexMCP, detector.IndexTip)
	middle := fingerVector(points, detector.MiddleMCP, detector.MiddleTip)

	magI := math.Sqrt(index.X*index.X + index.Y*index.Y + index.Z*index.Z)
	magM := math.Sqrt(middle.X*middle.X + middle.Y*middle.Y + middle.Z*middle.Z)
	if magI < 1e-10 || magM < 1e-10 {
		return 0
	}

	dot := index.X*middle.X + index.Y*middle.Y + index.Z*middle.Z
	cos := dot / (magI * magM)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

func fingerVector(points []detector.Point3D, knuckle, tip int) detector.Point3D {
	return detector.Point3D{
		X: points[tip].X - points[knuckle].X,
		Y: points[tip].Y - points[knuckle].Y,
		Z: points[tip].Z - points[knuckle].Z,
	}
}
