package evidence

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/gesture"
)

func TestCapturer_NilFrame(t *testing.T) {
	c := NewCapturer("hall")

	if got := c.Capture(nil, nil, gesture.GestureVictory); got != nil {
		t.Errorf("expected nil for nil frame, got %d bytes", len(got))
	}
}

func TestCapturer_VictoryCapture(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	c := NewCapturer("hall")
	hands := []detector.HandLandmarks{detector.VictorySignLandmarks()}

	jpeg := c.Capture(&frame, hands, gesture.GestureVictory)
	if len(jpeg) == 0 {
		t.Fatal("expected JPEG bytes")
	}

	// JPEG SOI marker
	if jpeg[0] != 0xff || jpeg[1] != 0xd8 {
		t.Errorf("output does not start with a JPEG marker: % x", jpeg[:2])
	}
}

func TestCapturer_ManualCaptureWithoutHands(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	c := NewCapturer("")

	jpeg := c.Capture(&frame, nil, gesture.GestureManual)
	if len(jpeg) == 0 {
		t.Fatal("expected JPEG bytes for manual capture without landmarks")
	}
}

func TestCapturer_DoesNotMutateSourceFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	before := frame.Sum()

	c := NewCapturer("hall")
	c.Capture(&frame, []detector.HandLandmarks{detector.VictorySignLandmarks()}, gesture.GestureVictory)

	after := frame.Sum()
	if before.Val1 != after.Val1 || before.Val2 != after.Val2 || before.Val3 != after.Val3 {
		t.Error("capture annotated the source frame instead of a copy")
	}
}
