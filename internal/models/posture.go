package models

import "time"

// Point is a normalized 2D landmark coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkGroup holds the named facial point groups of one observation.
type LandmarkGroup struct {
	LeftEye     []Point `json:"left_eye"`
	RightEye    []Point `json:"right_eye"`
	Nose        []Point `json:"nose"`
	InnerLips   []Point `json:"inner_lips"`
	FaceContour []Point `json:"face_contour"`
}

// PostureMetrics is the per-observation geometry snapshot.
type PostureMetrics struct {
	TiltDegrees float64 `json:"tilt_degrees"`
	YawDegrees  float64 `json:"yaw_degrees"`
	PitchRatio  float64 `json:"pitch_ratio"`
}

// StatusKind names the user-facing posture message.
type StatusKind string

const (
	StatusReadingGood StatusKind = "reading_good"
	StatusLookingDown StatusKind = "looking_down"
	StatusHeadTilted  StatusKind = "head_tilted"
	StatusFaceTurned  StatusKind = "face_turned"
	StatusNoFace      StatusKind = "no_face"
)

// PostureStatus is the debounced posture signal.
type PostureStatus struct {
	IsGoodPosture bool       `json:"is_good_posture"`
	Message       StatusKind `json:"message"`
	BadSince      *time.Time `json:"bad_since,omitempty"`
}

// PostureSample is one entry of the session sample log.
type PostureSample struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	PitchRatio     float64 `json:"pitch_ratio"`
	IsGood         bool    `json:"is_good"`
}

// PostureReport is what a finished posture session hands to the report recipient.
type PostureReport struct {
	Samples                []PostureSample `json:"samples"`
	AccumulatedGoodSeconds float64         `json:"accumulated_good_seconds"`
}

// GoodRatio is the fraction of samples recorded as good, or 0 for an empty log.
func (r PostureReport) GoodRatio() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	good := 0
	for _, s := range r.Samples {
		if s.IsGood {
			good++
		}
	}
	return float64(good) / float64(len(r.Samples))
}
