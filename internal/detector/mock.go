package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// VictorySignLandmarks returns a preset HandLandmarks representing a V sign.
// Index and middle fingers are extended and spread, ring and pinky curled.
func VictorySignLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at the bottom of the frame
	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.90, Z: 0.0}

	// Thumb folded across the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.82, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.43, Y: 0.76, Z: -0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.46, Y: 0.72, Z: -0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.50, Y: 0.70, Z: -0.04}

	// Index finger extended up and to the left
	landmarks.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.62, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.42, Y: 0.51, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.40, Y: 0.40, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.38, Y: 0.30, Z: 0.0}

	// Middle finger extended up and to the right
	landmarks.Points[MiddleMCP] = Point3D{X: 0.52, Y: 0.60, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.55, Y: 0.49, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.58, Y: 0.38, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.60, Y: 0.28, Z: 0.0}

	// Ring finger curled toward the palm
	landmarks.Points[RingMCP] = Point3D{X: 0.58, Y: 0.63, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.60, Y: 0.60, Z: -0.04}
	landmarks.Points[RingDIP] = Point3D{X: 0.61, Y: 0.65, Z: -0.05}
	landmarks.Points[RingTip] = Point3D{X: 0.60, Y: 0.70, Z: -0.04}

	// Pinky finger curled toward the palm
	landmarks.Points[PinkyMCP] = Point3D{X: 0.63, Y: 0.66, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.65, Y: 0.64, Z: -0.04}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.66, Y: 0.68, Z: -0.05}
	landmarks.Points[PinkyTip] = Point3D{X: 0.66, Y: 0.72, Z: -0.04}

	return landmarks
}

// FistLandmarks returns a preset HandLandmarks representing a closed fist.
// Every finger is curled, nothing should classify as a V sign.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.90, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.83, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.43, Y: 0.78, Z: -0.01}
	landmarks.Points[ThumbIP] = Point3D{X: 0.45, Y: 0.74, Z: -0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.49, Y: 0.73, Z: -0.04}

	landmarks.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.64, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.60, Z: -0.04}
	landmarks.Points[IndexDIP] = Point3D{X: 0.45, Y: 0.66, Z: -0.05}
	landmarks.Points[IndexTip] = Point3D{X: 0.45, Y: 0.71, Z: -0.04}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.62, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.58, Z: -0.04}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.51, Y: 0.64, Z: -0.05}
	landmarks.Points[MiddleTip] = Point3D{X: 0.51, Y: 0.70, Z: -0.04}

	landmarks.Points[RingMCP] = Point3D{X: 0.56, Y: 0.63, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.56, Y: 0.60, Z: -0.04}
	landmarks.Points[RingDIP] = Point3D{X: 0.57, Y: 0.65, Z: -0.05}
	landmarks.Points[RingTip] = Point3D{X: 0.57, Y: 0.70, Z: -0.04}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.61, Y: 0.66, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.62, Y: 0.63, Z: -0.04}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.63, Y: 0.68, Z: -0.05}
	landmarks.Points[PinkyTip] = Point3D{X: 0.63, Y: 0.72, Z: -0.04}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm.
// All fingers are extended outward, so ring and pinky extension should keep
// it from classifying as a V sign.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.9, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.85, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.80, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.75, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.70, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}
