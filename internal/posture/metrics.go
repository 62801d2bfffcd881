package posture

import (
	"math"

	"focus_engine/internal/models"
)

const radToDeg = 180 / math.Pi

// deriveMetrics recomputes metrics from one landmark group. Any metric whose
// inputs are missing or degenerate keeps its value from prev.
func deriveMetrics(lm models.LandmarkGroup, prev models.PostureMetrics, cfg Config) models.PostureMetrics {
	out := prev

	left, okLeft := centroid(lm.LeftEye)
	right, okRight := centroid(lm.RightEye)
	if okLeft && okRight {
		dx := right.X - left.X
		dy := right.Y - left.Y
		out.TiltDegrees = math.Atan2(dy, dx) * radToDeg
	}

	nose, okNose := centroid(lm.Nose)
	if minX, maxX, ok := horizontalSpan(lm.FaceContour); ok && okNose {
		if span := maxX - minX; span > cfg.MinDenominator {
			relativeNoseX := (nose.X - minX) / span
			out.YawDegrees = (relativeNoseX - 0.5) * 180
		}
	}

	mouth, okMouth := centroid(lm.InnerLips)
	if okLeft && okRight && okNose && okMouth {
		eyeY := (left.Y + right.Y) / 2
		if denom := nose.Y - mouth.Y; denom > cfg.MinDenominator {
			out.PitchRatio = (eyeY - nose.Y) / denom
		}
	}

	return out
}

// classify evaluates thresholds. The returned kind follows the
// pitch > tilt > yaw priority and is StatusReadingGood when nothing is bad.
func classify(m models.PostureMetrics, cfg Config) (bad bool, kind models.StatusKind) {
	switch {
	case m.PitchRatio < cfg.PitchRatioMin:
		return true, models.StatusLookingDown
	case math.Abs(m.TiltDegrees) > cfg.TiltLimitDegrees:
		return true, models.StatusHeadTilted
	case math.Abs(m.YawDegrees) > cfg.YawLimitDegrees:
		return true, models.StatusFaceTurned
	}
	return false, models.StatusReadingGood
}

func centroid(pts []models.Point) (models.Point, bool) {
	if len(pts) == 0 {
		return models.Point{}, false
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	c := models.Point{X: sx / n, Y: sy / n}
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
		return models.Point{}, false
	}
	return c, true
}

func horizontalSpan(pts []models.Point) (minX, maxX float64, ok bool) {
	if len(pts) == 0 {
		return 0, 0, false
	}
	minX, maxX = pts[0].X, pts[0].X
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return minX, maxX, true
}
