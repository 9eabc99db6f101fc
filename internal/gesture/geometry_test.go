package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/raksha/internal/detector"
)

func TestGeometryAnalyzer_VictorySign(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	hand := detector.VictorySignLandmarks()
	verdict := analyzer.Analyze(hand.Points[:])

	if !verdict.IsVictory {
		t.Fatal("expected victory verdict for canonical V-sign landmarks")
	}

	// A clean V sign should clear the medium positive threshold
	if verdict.Confidence < 0.7 {
		t.Errorf("expected confidence >= 0.7 for clean V sign, got %f", verdict.Confidence)
	}
}

func TestGeometryAnalyzer_Fist(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	hand := detector.FistLandmarks()
	verdict := analyzer.Analyze(hand.Points[:])

	if verdict.IsVictory {
		t.Error("expected negative verdict for fist landmarks")
	}
	if verdict.Confidence != 0 {
		t.Errorf("expected zero confidence for fist, got %f", verdict.Confidence)
	}
}

func TestGeometryAnalyzer_OpenPalm(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	// All five fingers extended: ring and pinky extension disqualifies the V
	hand := detector.OpenPalmLandmarks()
	verdict := analyzer.Analyze(hand.Points[:])

	if verdict.IsVictory {
		t.Error("expected negative verdict for open palm landmarks")
	}
}

func TestGeometryAnalyzer_MalformedInput(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	tests := []struct {
		name   string
		points []detector.Point3D
	}{
		{"nil slice", nil},
		{"too few points", make([]detector.Point3D, 10)},
		{"too many points", make([]detector.Point3D, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := analyzer.Analyze(tt.points)
			if verdict.IsVictory || verdict.Confidence != 0 {
				t.Errorf("expected zero verdict, got %+v", verdict)
			}
		})
	}
}

func TestGeometryAnalyzer_NaNCoordinates(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	hand := detector.VictorySignLandmarks()
	hand.Points[detector.IndexTip].X = math.NaN()

	verdict := analyzer.Analyze(hand.Points[:])
	if verdict.IsVictory || verdict.Confidence != 0 {
		t.Errorf("expected zero verdict for NaN coordinate, got %+v", verdict)
	}
}

func TestGeometryAnalyzer_DegenerateSkeleton(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	// Every landmark at the origin: hand scale is zero
	points := make([]detector.Point3D, 21)

	verdict := analyzer.Analyze(points)
	if verdict.IsVictory || verdict.Confidence != 0 {
		t.Errorf("expected zero verdict for degenerate skeleton, got %+v", verdict)
	}
}

func TestGeometryAnalyzer_HighSensitivityExtensionRatio(t *testing.T) {
	// A V sign with slightly bent fingers that misses the default 1.5
	// extension ratio should still pass the relaxed 1.2 ratio.
	hand := detector.VictorySignLandmarks()

	wrist := hand.Points[detector.Wrist]
	for _, tip := range []int{detector.IndexTip, detector.MiddleTip} {
		p := hand.Points[tip]
		// Pull the tips toward the wrist to about 1.35x the knuckle distance
		hand.Points[tip] = detector.Point3D{
			X: wrist.X + (p.X-wrist.X)*0.66,
			Y: wrist.Y + (p.Y-wrist.Y)*0.66,
			Z: wrist.Z + (p.Z-wrist.Z)*0.66,
		}
	}

	strict := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))
	if v := strict.Analyze(hand.Points[:]); v.IsVictory {
		t.Error("bent V sign should not pass the medium extension ratio")
	}

	relaxed := NewGeometryAnalyzer(ProfileFor(SensitivityHigh))
	if v := relaxed.Analyze(hand.Points[:]); !v.IsVictory {
		t.Error("bent V sign should pass the high-sensitivity extension ratio")
	}
}

func TestGeometryAnalyzer_ConfidenceCapped(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	hand := detector.VictorySignLandmarks()
	verdict := analyzer.Analyze(hand.Points[:])

	if verdict.Confidence > 1.0 {
		t.Errorf("confidence must never exceed 1.0, got %f", verdict.Confidence)
	}
}

func TestInterFingerAngle_ZeroVector(t *testing.T) {
	analyzer := NewGeometryAnalyzer(ProfileFor(SensitivityMedium))

	// Index tip on top of its knuckle: zero direction vector
	hand := detector.VictorySignLandmarks()
	hand.Points[detector.IndexTip] = hand.Points[detector.IndexMCP]

	if got := analyzer.interFingerAngleDeg(hand.Points[:]); got != 0 {
		t.Errorf("expected 0 angle for zero-magnitude finger vector, got %f", got)
	}
}
