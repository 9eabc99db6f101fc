package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// solidFrame returns a single-color BGR Mat.
func solidFrame(t *testing.T, w, h int, c color.RGBA) gocv.Mat {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		t.Fatalf("failed to convert image: %v", err)
	}
	return mat
}

func TestActivityGate_StaticScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	gate := NewActivityGate(1.0)
	defer gate.Close()

	frame := solidFrame(t, 160, 120, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	defer frame.Close()

	// Baseline frame is always inactive
	if active, _ := gate.Check(&frame); active {
		t.Error("baseline frame must report inactive")
	}

	// An identical frame has no change
	same := solidFrame(t, 160, 120, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	defer same.Close()
	active, change := gate.Check(&same)
	if active {
		t.Errorf("identical frame reported active with %.2f%% change", change)
	}
}

func TestActivityGate_SceneChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	gate := NewActivityGate(1.0)
	defer gate.Close()

	dark := solidFrame(t, 160, 120, color.RGBA{R: 30, G: 30, B: 30, A: 255})
	defer dark.Close()
	bright := solidFrame(t, 160, 120, color.RGBA{R: 220, G: 220, B: 220, A: 255})
	defer bright.Close()

	gate.Check(&dark)

	active, change := gate.Check(&bright)
	if !active {
		t.Errorf("full-frame change reported inactive at %.2f%%", change)
	}
	if change < 50 {
		t.Errorf("expected most pixels changed, got %.2f%%", change)
	}
}

func TestActivityGate_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	gate := NewActivityGate(1.0)
	defer gate.Close()

	frame := solidFrame(t, 160, 120, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	defer frame.Close()

	gate.Check(&frame)
	gate.Reset()

	// After a reset the next frame is a fresh baseline
	if active, _ := gate.Check(&frame); active {
		t.Error("first frame after reset must report inactive")
	}
}

func TestActivityGate_NilFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	gate := NewActivityGate(1.0)
	defer gate.Close()

	if active, change := gate.Check(nil); active || change != 0 {
		t.Errorf("nil frame should report inactive, got %v %.2f", active, change)
	}
}

func TestActivityGate_SetThreshold(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring OpenCV in short mode")
	}

	gate := NewActivityGate(1.0)
	defer gate.Close()

	gate.SetThreshold(50)
	gate.SetThreshold(0)  // ignored
	gate.SetThreshold(-5) // ignored

	dark := solidFrame(t, 160, 120, color.RGBA{R: 30, G: 30, B: 30, A: 255})
	defer dark.Close()
	slightlyBrighter := solidFrame(t, 160, 120, color.RGBA{R: 70, G: 70, B: 70, A: 255})
	defer slightlyBrighter.Close()

	gate.Check(&dark)

	// A 40-level shift changes every pixel, which clears the raised 50%
	// threshold
	if active, _ := gate.Check(&slightlyBrighter); !active {
		t.Error("expected active scene above raised threshold")
	}
}
