package posture

import (
	"math"

	"focus_engine/internal/models"
)

// faceShape describes a synthetic face in normalized coordinates (y grows upwards).
type faceShape struct {
	leftEye, rightEye models.Point
	nose, mouth       models.Point
	contourMin        float64
	contourMax        float64
}

func uprightFace() faceShape {
	return faceShape{
		leftEye:    models.Point{X: 0.35, Y: 0.6},
		rightEye:   models.Point{X: 0.65, Y: 0.6},
		nose:       models.Point{X: 0.5, Y: 0.45},
		mouth:      models.Point{X: 0.5, Y: 0.3},
		contourMin: 0.2,
		contourMax: 0.8,
	}
}

// spread turns a centre point into a small symmetric cluster with the same mean.
func spread(c models.Point) []models.Point {
	return []models.Point{
		{X: c.X - 0.01, Y: c.Y},
		{X: c.X + 0.01, Y: c.Y},
		{X: c.X, Y: c.Y - 0.005},
		{X: c.X, Y: c.Y + 0.005},
	}
}

func (f faceShape) landmarks() *models.LandmarkGroup {
	return &models.LandmarkGroup{
		LeftEye:   spread(f.leftEye),
		RightEye:  spread(f.rightEye),
		Nose:      spread(f.nose),
		InnerLips: spread(f.mouth),
		FaceContour: []models.Point{
			{X: f.contourMin, Y: 0.5},
			{X: (f.contourMin + f.contourMax) / 2, Y: 0.1},
			{X: f.contourMax, Y: 0.5},
		},
	}
}

func goodFace() *models.LandmarkGroup { return uprightFace().landmarks() }

func lookingDownFace() *models.LandmarkGroup {
	f := uprightFace()
	f.nose.Y = 0.55
	return f.landmarks()
}

func tiltedFace(degrees float64) *models.LandmarkGroup {
	f := uprightFace()
	dx := f.rightEye.X - f.leftEye.X
	f.rightEye.Y = f.leftEye.Y + dx*math.Tan(degrees*math.Pi/180)
	return f.landmarks()
}

func turnedFace() *models.LandmarkGroup {
	f := uprightFace()
	f.nose.X = 0.65
	return f.landmarks()
}
