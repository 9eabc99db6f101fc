package gesture

import (
	"image"
	"image/color"
	"testing"
)

var (
	skinTone   = color.RGBA{R: 200, G: 140, B: 110, A: 255}
	background = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

// newFrame returns a w x h frame filled with the background color.
func newFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, 0, 0, 1, 1, background)
	return img
}

// fillRect fills a rectangle given in unit coordinates.
func fillRect(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	b := img.Bounds()
	px0 := b.Min.X + int(x0*float64(b.Dx()))
	px1 := b.Min.X + int(x1*float64(b.Dx()))
	py0 := b.Min.Y + int(y0*float64(b.Dy()))
	py1 := b.Min.Y + int(y1*float64(b.Dy()))
	for y := py0; y < py1; y++ {
		for x := px0; x < px1; x++ {
			img.Set(x, y, c)
		}
	}
}

// vSignFrame paints an idealized V silhouette: two vertical finger
// columns, a background gap between them, and a palm block below.
func vSignFrame() *image.RGBA {
	img := newFrame(320, 240)
	fillRect(img, 0.33, 0.10, 0.43, 0.50, skinTone) // left finger
	fillRect(img, 0.57, 0.10, 0.67, 0.50, skinTone) // right finger
	fillRect(img, 0.38, 0.58, 0.62, 0.85, skinTone) // palm
	return img
}

func TestPixelAnalyzer_VictorySilhouette(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	verdict := analyzer.Analyze(vSignFrame())

	if !verdict.IsVictory {
		t.Fatal("expected positive verdict for V silhouette frame")
	}
	if verdict.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %f", verdict.Confidence)
	}
}

func TestPixelAnalyzer_DarkFrame(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	// All black: below the luminance floor. The analyzer reports a
	// confident absence without running the full pipeline.
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	verdict := analyzer.Analyze(img)

	if verdict.IsVictory {
		t.Error("dark frame must not classify as victory")
	}
	if verdict.Confidence < 0.9 {
		t.Errorf("expected high-confidence absence for dark frame, got %f", verdict.Confidence)
	}
}

func TestPixelAnalyzer_BlownOutFrame(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	img := newFrame(320, 240)
	fillRect(img, 0, 0, 1, 1, color.RGBA{R: 250, G: 250, B: 250, A: 255})

	verdict := analyzer.Analyze(img)
	if verdict.IsVictory {
		t.Error("blown-out frame must not classify as victory")
	}
	if verdict.Confidence < 0.9 {
		t.Errorf("expected high-confidence absence for blown-out frame, got %f", verdict.Confidence)
	}
}

func TestPixelAnalyzer_SolidSkinFrame(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	// A frame entirely covered in skin tone exceeds the plausible
	// coverage band for a hand at conversational distance.
	img := newFrame(320, 240)
	fillRect(img, 0, 0, 1, 1, skinTone)

	if verdict := analyzer.Analyze(img); verdict.IsVictory {
		t.Error("full-frame skin must not classify as victory")
	}
}

func TestPixelAnalyzer_EmptyBackground(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	if verdict := analyzer.Analyze(newFrame(320, 240)); verdict.IsVictory {
		t.Error("background-only frame must not classify as victory")
	}
}

func TestPixelAnalyzer_NilAndTinyImages(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	if verdict := analyzer.Analyze(nil); verdict.IsVictory || verdict.Confidence != 0 {
		t.Errorf("expected zero verdict for nil image, got %+v", verdict)
	}

	tiny := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if verdict := analyzer.Analyze(tiny); verdict.IsVictory || verdict.Confidence != 0 {
		t.Errorf("expected zero verdict for tiny image, got %+v", verdict)
	}
}

func TestFingerGapEvidence(t *testing.T) {
	// Two columns with a gap in the scan band
	g := newSkinGrid(40, 40)
	for y := 0; y < 40; y++ {
		for x := 10; x < 16; x++ {
			g.set(x, y, true)
		}
		for x := 24; x < 30; x++ {
			g.set(x, y, true)
		}
	}

	score, found := fingerGapEvidence(g)
	if !found {
		t.Error("expected gap evidence for two-column grid")
	}
	if score < 0.9 {
		t.Errorf("expected near-total row agreement, got %f", score)
	}

	// A solid block has no gap
	solid := newSkinGrid(40, 40)
	for y := 0; y < 40; y++ {
		for x := 5; x < 35; x++ {
			solid.set(x, y, true)
		}
	}
	if _, found := fingerGapEvidence(solid); found {
		t.Error("solid block must not show gap evidence")
	}
}

func TestMajorityFilter_RemovesIsolatedCells(t *testing.T) {
	g := newSkinGrid(10, 10)
	g.set(5, 5, true) // lone speck

	out := majorityFilter(g)
	if out.at(5, 5) {
		t.Error("isolated cell should be removed by the majority filter")
	}
}

func TestTemplateMatching_PrefersVShape(t *testing.T) {
	analyzer := NewPixelAnalyzer(ProfileFor(SensitivityMedium))

	vGrid := analyzer.buildSkinGrid(vSignFrame())
	vScore, name := bestTemplateScore(analyzer.templates, vGrid)

	blank := analyzer.buildSkinGrid(newFrame(320, 240))
	blankScore, _ := bestTemplateScore(analyzer.templates, blank)

	if vScore <= blankScore {
		t.Errorf("V silhouette (%f, %s) should outscore a blank frame (%f)", vScore, name, blankScore)
	}
	if vScore < 0.8 {
		t.Errorf("expected strong template match for ideal silhouette, got %f via %s", vScore, name)
	}
}
