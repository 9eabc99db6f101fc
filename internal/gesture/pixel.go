package gesture

import (
	"image"
	"math"
)

// PixelAnalyzer is the fallback classification path used when no landmark
// backend is available. It works directly on a decoded RGB frame: a
// subsampled skin-probability map, an edge map derived from it, template
// matching against idealized V silhouettes, and a couple of shape
// heuristics fused into a single confidence.
//
// The whole pipeline is O(W*H) per frame, so every stage samples on the
// profile's stride rather than touching each pixel. That trades accuracy
// for staying inside a real-time frame budget.
type PixelAnalyzer struct {
	profile   Profile
	templates []vTemplate
}

// NewPixelAnalyzer creates an analyzer with the given profile and the
// built-in template library.
func NewPixelAnalyzer(profile Profile) *PixelAnalyzer {
	return &PixelAnalyzer{
		profile:   profile,
		templates: defaultTemplates(),
	}
}

// SetProfile swaps the sensitivity profile.
func (a *PixelAnalyzer) SetProfile(profile Profile) {
	a.profile = profile
}

// skinGrid is a stride-subsampled boolean skin classification of a frame.
type skinGrid struct {
	w, h  int
	cells []bool
}

func newSkinGrid(w, h int) *skinGrid {
	return &skinGrid{w: w, h: h, cells: make([]bool, w*h)}
}

func (g *skinGrid) at(x, y int) bool {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return false
	}
	return g.cells[y*g.w+x]
}

func (g *skinGrid) set(x, y int, v bool) {
	g.cells[y*g.w+x] = v
}

// Analyze classifies a frame. A nil or empty image yields a negative
// verdict; nothing on this path may crash the calling loop.
func (a *PixelAnalyzer) Analyze(img image.Image) FrameVerdict {
	if img == nil {
		return FrameVerdict{}
	}
	bounds := img.Bounds()
	if bounds.Dx() < 8 || bounds.Dy() < 8 {
		return FrameVerdict{}
	}

	// Stage 1: luminance pre-filter. A globally dark or blown-out frame
	// cannot contain a readable hand, so report confident absence and
	// skip the expensive stages entirely.
	lum := averageLuminance(img)
	if lum < a.profile.MinLuminance || lum > a.profile.MaxLuminance {
		return FrameVerdict{IsVictory: false, Confidence: 0.95}
	}

	// Stage 2: subsampled skin map, cleaned with a 3x3 majority filter.
	grid := a.buildSkinGrid(img)
	grid = majorityFilter(grid)

	// Stage 3: edge map from skin/non-skin transitions.
	edges := edgeGrid(grid, a.profile.EdgeNeighborMin)

	skinRatio := coverage(grid)
	edgeRatio := coverage(edges)

	// Stage 4: template matching.
	templateScore, _ := bestTemplateScore(a.templates, grid)

	// Stage 5: shape heuristics.
	gapScore, gapFound := fingerGapEvidence(grid)
	angleScore := vAngleEvidence(edges)
	shapeConfidence := (0.5*gapScore + 0.5*angleScore) *
		ratioCloseness(skinRatio, a.profile.IdealSkinRatio, edgeRatio, a.profile.IdealEdgeRatio)

	// Stage 6: fusion. Template matching dominates; the finger-gap flag
	// only sweetens the confidence, it cannot trigger on its own.
	confidence := a.profile.TemplateWeight*templateScore + a.profile.ShapeWeight*shapeConfidence
	if gapFound && confidence < 1.0 {
		confidence = math.Min(1.0, confidence+0.05)
	}

	skinOK := skinRatio >= a.profile.SkinRatioMin && skinRatio <= a.profile.SkinRatioMax
	positive := skinOK && templateScore >= a.profile.MinTemplateScore

	return FrameVerdict{IsVictory: positive, Confidence: clamp01(confidence)}
}

// averageLuminance samples the frame on a coarse grid and returns the
// mean Rec.601 luma in 0-255 terms.
func averageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	const step = 8

	var sum float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := float64(r>>8), float64(g>>8), float64(b>>8)
			sum += 0.299*r8 + 0.587*g8 + 0.114*b8
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// buildSkinGrid classifies every stride-th pixel as skin or not. The
// heuristic is red-channel dominance over green and blue by a margin,
// bounded by minimum and maximum brightness.
func (a *PixelAnalyzer) buildSkinGrid(img image.Image) *skinGrid {
	bounds := img.Bounds()
	stride := a.profile.SampleStride
	if stride < 1 {
		stride = 1
	}

	gw := (bounds.Dx() + stride - 1) / stride
	gh := (bounds.Dy() + stride - 1) / stride
	grid := newSkinGrid(gw, gh)

	for gy := 0; gy < gh; gy++ {
		for gx := 0; gx < gw; gx++ {
			px := bounds.Min.X + gx*stride
			py := bounds.Min.Y + gy*stride
			r, g, b, _ := img.At(px, py).RGBA()
			grid.set(gx, gy, isSkin(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}

	return grid
}

func isSkin(r, g, b uint8) bool {
	rf, gf, bf := int(r), int(g), int(b)
	brightness := (rf + gf + bf) / 3
	return rf > 60 &&
		rf > gf+15 &&
		rf > bf+15 &&
		brightness > 20 && brightness < 250
}

// majorityFilter applies a 3x3 majority vote to remove isolated false
// positives and fill small gaps in the skin map.
func majorityFilter(g *skinGrid) *skinGrid {
	out := newSkinGrid(g.w, g.h)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if g.at(x+dx, y+dy) {
						count++
					}
				}
			}
			out.set(x, y, count >= 5)
		}
	}
	return out
}

// edgeGrid marks cells whose 8-neighborhood contains at least minDiff
// cells with the opposite skin classification.
func edgeGrid(g *skinGrid, minDiff int) *skinGrid {
	out := newSkinGrid(g.w, g.h)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			self := g.at(x, y)
			diff := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if g.at(x+dx, y+dy) != self {
						diff++
					}
				}
			}
			out.set(x, y, diff >= minDiff)
		}
	}
	return out
}

// coverage returns the fraction of set cells.
func coverage(g *skinGrid) float64 {
	if len(g.cells) == 0 {
		return 0
	}
	count := 0
	for _, c := range g.cells {
		if c {
			count++
		}
	}
	return float64(count) / float64(len(g.cells))
}

// fingerGapEvidence scans the vertical mid-band of the frame for a
// horizontal skin-gap-skin pattern: two finger columns with background
// between them. Returns the fraction of band rows showing the pattern and
// whether that fraction is strong enough to count as gap evidence.
func fingerGapEvidence(g *skinGrid) (float64, bool) {
	y0 := int(0.25 * float64(g.h))
	y1 := int(0.55 * float64(g.h))
	if y1 <= y0 {
		return 0, false
	}

	minRun := g.w / 20
	if minRun < 1 {
		minRun = 1
	}

	matched := 0
	for y := y0; y < y1; y++ {
		if rowHasGapPattern(g, y, minRun) {
			matched++
		}
	}

	score := float64(matched) / float64(y1-y0)
	return score, score >= 0.3
}

// rowHasGapPattern looks for skin-run, gap-run, skin-run along one row.
func rowHasGapPattern(g *skinGrid, y, minRun int) bool {
	// 0: before first skin run, 1: in first skin run, 2: in gap,
	// 3: in second skin run (pattern complete)
	phase := 0
	run := 0
	for x := 0; x < g.w; x++ {
		skin := g.at(x, y)
		switch phase {
		case 0:
			if skin {
				phase, run = 1, 1
			}
		case 1:
			if skin {
				run++
			} else if run >= minRun {
				phase = 2
			} else {
				phase, run = 0, 0
			}
		case 2:
			if skin {
				phase, run = 3, 1
			}
		case 3:
			if skin {
				run++
			}
			if run >= minRun {
				return true
			}
			if !skin {
				phase, run = 2, 0
			}
		}
	}
	return phase == 3 && run >= minRun
}

// vAngleEvidence looks for paired diverging edge diagonals in the lower
// half of the frame: the silhouette of two spread fingers narrows toward
// the palm, so the horizontal spread between the outermost edges should
// shrink going down. Returns the fraction of adjacent row pairs
// consistent with that shrinkage.
func vAngleEvidence(edges *skinGrid) float64 {
	y0 := edges.h / 2

	type rowSpread struct{ y, spread int }
	var spreads []rowSpread

	for y := y0; y < edges.h; y++ {
		left, right := -1, -1
		for x := 0; x < edges.w; x++ {
			if edges.at(x, y) {
				if left < 0 {
					left = x
				}
				right = x
			}
		}
		if left >= 0 && right > left {
			spreads = append(spreads, rowSpread{y: y, spread: right - left})
		}
	}

	if len(spreads) < 2 {
		return 0
	}

	consistent := 0
	for i := 1; i < len(spreads); i++ {
		if spreads[i].spread <= spreads[i-1].spread {
			consistent++
		}
	}
	return float64(consistent) / float64(len(spreads)-1)
}

// ratioCloseness weights shape confidence by how close the observed skin
// and edge ratios are to their empirically ideal values.
func ratioCloseness(skinRatio, idealSkin, edgeRatio, idealEdge float64) float64 {
	return (closeness(skinRatio, idealSkin) + closeness(edgeRatio, idealEdge)) / 2
}

func closeness(v, ideal float64) float64 {
	if ideal <= 0 {
		return 0
	}
	d := math.Abs(v-ideal) / ideal
	if d > 1 {
		return 0
	}
	return 1 - d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
