package posture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"focus_engine/internal/models"
)

func TestDeriveMetrics_UprightFace(t *testing.T) {
	cfg := DefaultConfig()

	m := deriveMetrics(*goodFace(), models.PostureMetrics{}, cfg)

	assert.InDelta(t, 0.0, m.TiltDegrees, 1e-9)
	assert.InDelta(t, 0.0, m.YawDegrees, 1e-9)
	assert.InDelta(t, 1.0, m.PitchRatio, 1e-9)
}

func TestDeriveMetrics_Tilt(t *testing.T) {
	m := deriveMetrics(*tiltedFace(20), models.PostureMetrics{}, DefaultConfig())

	assert.InDelta(t, 20.0, m.TiltDegrees, 1e-6)
}

func TestDeriveMetrics_YawScalesHalfSpanToNinetyDegrees(t *testing.T) {
	f := uprightFace()
	f.nose.X = f.contourMax // fully turned
	m := deriveMetrics(*f.landmarks(), models.PostureMetrics{}, DefaultConfig())
	assert.InDelta(t, 90.0, m.YawDegrees, 1e-9)

	m = deriveMetrics(*turnedFace(), models.PostureMetrics{}, DefaultConfig())
	assert.InDelta(t, 45.0, m.YawDegrees, 1e-9)
}

func TestDeriveMetrics_DegenerateDenominatorKeepsPitch(t *testing.T) {
	f := uprightFace()
	f.mouth.Y = f.nose.Y + 0.005 // nose-to-mouth below epsilon
	prev := models.PostureMetrics{TiltDegrees: 3, YawDegrees: 4, PitchRatio: 0.93}

	m := deriveMetrics(*f.landmarks(), prev, DefaultConfig())

	assert.Equal(t, 0.93, m.PitchRatio)
	assert.InDelta(t, 0.0, m.TiltDegrees, 1e-9, "tilt still recomputed")
}

func TestDeriveMetrics_MissingGroupsKeepPrevious(t *testing.T) {
	prev := models.PostureMetrics{TiltDegrees: 7, YawDegrees: -8, PitchRatio: 1.2}

	m := deriveMetrics(models.LandmarkGroup{}, prev, DefaultConfig())

	assert.Equal(t, prev, m)
}

func TestDeriveMetrics_CollapsedContourKeepsYaw(t *testing.T) {
	lm := *goodFace()
	lm.FaceContour = []models.Point{{X: 0.5, Y: 0.1}, {X: 0.5, Y: 0.9}}
	prev := models.PostureMetrics{YawDegrees: 12}

	m := deriveMetrics(lm, prev, DefaultConfig())

	assert.Equal(t, 12.0, m.YawDegrees)
}

func TestClassify_PriorityPitchThenTiltThenYaw(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name    string
		metrics models.PostureMetrics
		bad     bool
		kind    models.StatusKind
	}{
		{"good", models.PostureMetrics{TiltDegrees: 5, YawDegrees: -10, PitchRatio: 1}, false, models.StatusReadingGood},
		{"pitch only", models.PostureMetrics{PitchRatio: 0.5}, true, models.StatusLookingDown},
		{"tilt only", models.PostureMetrics{TiltDegrees: -16, PitchRatio: 1}, true, models.StatusHeadTilted},
		{"yaw only", models.PostureMetrics{YawDegrees: 21, PitchRatio: 1}, true, models.StatusFaceTurned},
		{"pitch beats tilt and yaw", models.PostureMetrics{TiltDegrees: 40, YawDegrees: 40, PitchRatio: 0.1}, true, models.StatusLookingDown},
		{"tilt beats yaw", models.PostureMetrics{TiltDegrees: 40, YawDegrees: 40, PitchRatio: 1}, true, models.StatusHeadTilted},
		{"limits are exclusive", models.PostureMetrics{TiltDegrees: 15, YawDegrees: 20, PitchRatio: 0.8}, false, models.StatusReadingGood},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bad, kind := classify(tc.metrics, cfg)
			assert.Equal(t, tc.bad, bad)
			assert.Equal(t, tc.kind, kind)
		})
	}
}
