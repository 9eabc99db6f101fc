// Package evidence rasterizes the current frame into a timestamped JPEG
// artifact attached to emitted alerts.
package evidence

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/gesture"
)

// JPEG quality for evidentiary value; kept high on purpose.
const jpegQuality = 92

// Skeleton connectivity between landmark indices, drawn over the frame
// when landmarks are available.
var skeletonPairs = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.Wrist, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.Wrist, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.Wrist, detector.PinkyMCP}, {detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP}, {detector.PinkyDIP, detector.PinkyTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.PinkyMCP},
}

// Capturer renders annotated evidence images.
type Capturer struct {
	location string
}

// NewCapturer creates a Capturer that burns the given location label into
// each artifact's caption.
func NewCapturer(location string) *Capturer {
	return &Capturer{location: location}
}

// Capture rasterizes the frame to JPEG with a skeleton overlay (when
// landmarks are present), a timestamp/location caption, and a prominent
// banner for positive victory detections. Returns nil if the frame is
// unavailable or encoding fails; it never panics into the caller's loop.
func (c *Capturer) Capture(frame *gocv.Mat, hands []detector.HandLandmarks, g gesture.Gesture) []byte {
	if frame == nil || frame.Empty() {
		return nil
	}

	annotated := frame.Clone()
	defer annotated.Close()

	cols, rows := annotated.Cols(), annotated.Rows()
	lineColor := color.RGBA{G: 200, A: 255}
	if g == gesture.GestureVictory {
		lineColor = color.RGBA{R: 220, A: 255}
	}

	for i := range hands {
		drawSkeleton(&annotated, &hands[i], cols, rows, lineColor)
	}

	caption := fmt.Sprintf("%s  %s", time.Now().Format("2006-01-02 15:04:05"), c.location)
	gocv.PutText(&annotated, caption, image.Pt(10, rows-12),
		gocv.FontHersheySimplex, 0.5, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 1)

	if g == gesture.GestureVictory {
		gocv.Rectangle(&annotated, image.Rect(0, 0, cols, 36), color.RGBA{R: 200, A: 255}, -1)
		gocv.PutText(&annotated, "EMERGENCY - VICTORY SIGN DETECTED", image.Pt(10, 25),
			gocv.FontHersheySimplex, 0.7, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 2)
	}

	buf, err := gocv.IMEncodeWithParams(".jpg", annotated,
		[]int{gocv.IMWriteJpegQuality, jpegQuality})
	if err != nil {
		log.Printf("evidence: encode failed: %v", err)
		return nil
	}
	defer buf.Close()

	// The buffer is owned by gocv; copy before it is released.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data
}

// drawSkeleton renders landmark markers and connective lines. Landmark
// coordinates are normalized, so they are scaled to the frame size here.
func drawSkeleton(m *gocv.Mat, hand *detector.HandLandmarks, cols, rows int, col color.RGBA) {
	toPixel := func(p detector.Point3D) image.Point {
		return image.Pt(int(p.X*float64(cols)), int(p.Y*float64(rows)))
	}

	for _, pair := range skeletonPairs {
		gocv.Line(m, toPixel(hand.Points[pair[0]]), toPixel(hand.Points[pair[1]]), col, 2)
	}
	for i := 0; i < detector.NumLandmarks; i++ {
		gocv.Circle(m, toPixel(hand.Points[i]), 3, col, -1)
	}
}
