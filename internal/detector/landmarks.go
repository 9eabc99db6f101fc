// Package detector provides hand landmark acquisition for the Raksha
// emergency gesture monitor.
package detector

import "math"

// Hand landmark indices following the MediaPipe hand schema.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a normalized 3D point with x, y, z coordinates
// roughly in [0,1] relative to the frame.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks produced by a backend
// for a single frame. It is a transient per-frame value and is never
// retained by the analyzers.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance3D calculates the Euclidean distance between two 3D points.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ValidPoints reports whether a landmark slice is a well-formed hand:
// exactly 21 points, all coordinates finite. Malformed input never makes
// it past this check into geometric analysis.
func ValidPoints(points []Point3D) bool {
	if len(points) != NumLandmarks {
		return false
	}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
			return false
		}
		if math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsInf(p.Z, 0) {
			return false
		}
	}
	return true
}

// Normalize normalizes the hand landmarks relative to wrist position and
// hand size. The normalized landmarks have the wrist at origin (0,0,0) and
// are scaled so that the distance from wrist to middle finger MCP is 1.0.
// Returns a new HandLandmarks instance with normalized points.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	normalized := &HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	// Scale factor is the distance from wrist to middle finger MCP.
	middleMCP := normalized.Points[MiddleMCP]
	scale := Distance3D(Point3D{}, middleMCP)

	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}
