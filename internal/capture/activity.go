package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ActivityGate decides whether a frame is worth analyzing at all by
// comparing it against the previous frame. On a static scene the pixel
// heuristic path can skip its full-frame scan, which is where most of the
// per-tick CPU budget goes.
type ActivityGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// Frame differencing constants.
const (
	// gateBlurSize is the Gaussian blur kernel used for noise reduction.
	gateBlurSize = 21
	// gateDiffThreshold is the binary threshold applied to the
	// per-pixel difference.
	gateDiffThreshold = 25
)

// NewActivityGate creates a gate with the given threshold: the percentage
// of pixels that must change between frames for the scene to count as
// active. A threshold of 1.0 means 1% of pixels.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Check compares the frame against the previous one and reports whether
// the scene is active, along with the percentage of pixels that changed.
// The first frame establishes the baseline and always reports inactive.
func (g *ActivityGate) Check(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: gateBlurSize, Y: gateBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, gateDiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changePercent > g.threshold, changePercent
}

// Reset clears the gate state so the next frame becomes a new baseline.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// Close releases resources held by the gate.
func (g *ActivityGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// SetThreshold updates the change percentage threshold.
// Values less than or equal to 0 are ignored.
func (g *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.threshold = threshold
}
