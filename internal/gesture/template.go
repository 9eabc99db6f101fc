package gesture

// templateRegion is a rectangle in unit frame coordinates together with
// the skin classification its pixels are expected to have when a V sign
// occupies the frame.
type templateRegion struct {
	X0, Y0, X1, Y1 float64
	Skin           bool
}

// vTemplate is an idealized V-sign silhouette: two finger columns of
// skin, a non-skin gap between them, and a skin base where the palm sits.
// Weight is the template's prior; tilted and shifted variants are trusted
// slightly less than the canonical upright pose.
type vTemplate struct {
	Name    string
	Weight  float64
	Regions []templateRegion
}

// defaultTemplates returns the built-in silhouette library covering a few
// finger spacings, tilts, and hand heights.
func defaultTemplates() []vTemplate {
	upright := func(name string, dx, dy, weight float64, leftW, gapW float64) vTemplate {
		leftX := 0.5 - gapW/2 - leftW
		rightX := 0.5 + gapW/2
		return vTemplate{
			Name:   name,
			Weight: weight,
			Regions: []templateRegion{
				{X0: leftX + dx, Y0: 0.10 + dy, X1: leftX + leftW + dx, Y1: 0.50 + dy, Skin: true},
				{X0: rightX + dx, Y0: 0.10 + dy, X1: rightX + leftW + dx, Y1: 0.50 + dy, Skin: true},
				{X0: 0.5 - gapW/2 + dx, Y0: 0.10 + dy, X1: 0.5 + gapW/2 + dx, Y1: 0.45 + dy, Skin: false},
				{X0: 0.38 + dx, Y0: 0.58 + dy, X1: 0.62 + dx, Y1: 0.85 + dy, Skin: true},
			},
		}
	}

	return []vTemplate{
		upright("upright-narrow", 0, 0, 1.0, 0.08, 0.06),
		upright("upright-wide", 0, 0, 1.0, 0.10, 0.14),
		upright("tilt-left", -0.06, 0, 0.9, 0.09, 0.10),
		upright("tilt-right", 0.06, 0, 0.9, 0.09, 0.10),
		upright("low-hand", 0, 0.08, 0.85, 0.09, 0.10),
	}
}

// matchTemplate scores a template against a skin grid: for each region,
// the fraction of sampled cells whose classification matches the expected
// label, averaged over regions and scaled by the template weight.
func matchTemplate(t vTemplate, g *skinGrid) float64 {
	if g == nil || g.w == 0 || g.h == 0 || len(t.Regions) == 0 {
		return 0
	}

	var total float64
	for _, r := range t.Regions {
		x0 := clampInt(int(r.X0*float64(g.w)), 0, g.w)
		x1 := clampInt(int(r.X1*float64(g.w)), 0, g.w)
		y0 := clampInt(int(r.Y0*float64(g.h)), 0, g.h)
		y1 := clampInt(int(r.Y1*float64(g.h)), 0, g.h)

		matched, count := 0, 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				count++
				if g.at(x, y) == r.Skin {
					matched++
				}
			}
		}
		if count > 0 {
			total += float64(matched) / float64(count)
		}
	}

	return total / float64(len(t.Regions)) * t.Weight
}

// bestTemplateScore returns the highest weighted score across the library
// along with the name of the winning template.
func bestTemplateScore(templates []vTemplate, g *skinGrid) (float64, string) {
	best, name := 0.0, ""
	for _, t := range templates {
		if score := matchTemplate(t, g); score > best {
			best, name = score, t.Name
		}
	}
	return best, name
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
