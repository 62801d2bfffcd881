// Package posture turns a stream of facial landmark observations into a
// debounced posture signal and a session-scoped sample log.
//
// A Monitor is not safe for concurrent use; the service layer serializes it
// together with the timer so readers never see half-applied observations.
package posture

import (
	"errors"
	"time"

	"focus_engine/internal/models"
)

// ErrSessionAlreadyActive is returned by StartSession when a session is open.
var ErrSessionAlreadyActive = errors.New("posture session already active")

// neutralPitchRatio is the pitch assumed before the first usable measurement.
const neutralPitchRatio = 1.0

// Config holds thresholds and timing for the monitor.
type Config struct {
	TiltLimitDegrees float64
	YawLimitDegrees  float64
	PitchRatioMin    float64
	// MinDenominator guards the pitch ratio and contour span divisions.
	MinDenominator float64
	GracePeriod    time.Duration
	AccrualGap     time.Duration
}

// DefaultConfig returns the stock reading-posture thresholds.
func DefaultConfig() Config {
	return Config{
		TiltLimitDegrees: 15,
		YawLimitDegrees:  20,
		PitchRatioMin:    0.8,
		MinDenominator:   0.01,
		GracePeriod:      5 * time.Second,
		AccrualGap:       time.Second,
	}
}

// Diagnostics exposes the debounce internals.
type Diagnostics struct {
	State                   DebounceState     `json:"state"`
	PendingKind             models.StatusKind `json:"pending_kind,omitempty"`
	PendingRemainingSeconds float64           `json:"pending_remaining_seconds"`
	LastInstantBad          bool              `json:"last_instant_bad"`
}

// Monitor consumes one observation at a time.
type Monitor struct {
	config Config

	metrics  models.PostureMetrics
	debounce debouncer
	lastKind models.StatusKind
	lastBad  bool

	sessionOpen  bool
	sessionStart time.Time
	samples      []models.PostureSample
	accumulated  time.Duration
	lastGoodAt   time.Time
}

// NewMonitor creates a monitor in the Good state with no open session.
func NewMonitor(config Config) *Monitor {
	return &Monitor{
		config:   config,
		metrics:  models.PostureMetrics{PitchRatio: neutralPitchRatio},
		debounce: newDebouncer(),
		lastKind: models.StatusReadingGood,
	}
}

// ProcessObservation runs the full pipeline for one observation. A nil
// landmark group means no face was detected.
func (m *Monitor) ProcessObservation(now time.Time, landmarks *models.LandmarkGroup) models.PostureStatus {
	var (
		bad  bool
		kind models.StatusKind
	)
	if landmarks == nil {
		bad, kind = true, models.StatusNoFace
	} else {
		m.metrics = deriveMetrics(*landmarks, m.metrics, m.config)
		bad, kind = classify(m.metrics, m.config)
	}

	m.debounce = m.debounce.step(bad, now, m.config.GracePeriod)
	m.lastBad = bad
	m.lastKind = kind

	if m.sessionOpen {
		m.record(now, bad)
	}
	return m.Status()
}

// record appends a sample and accrues continuous good time.
func (m *Monitor) record(now time.Time, bad bool) {
	m.samples = append(m.samples, models.PostureSample{
		ElapsedSeconds: now.Sub(m.sessionStart).Seconds(),
		PitchRatio:     m.metrics.PitchRatio,
		IsGood:         !bad,
	})

	if bad {
		m.lastGoodAt = time.Time{}
		return
	}
	if !m.lastGoodAt.IsZero() {
		if gap := now.Sub(m.lastGoodAt); gap >= 0 && gap < m.config.AccrualGap {
			m.accumulated += gap
		}
	}
	m.lastGoodAt = now
}

// Status returns the debounced posture status.
func (m *Monitor) Status() models.PostureStatus {
	st := models.PostureStatus{
		IsGoodPosture: m.debounce.isGood(),
		Message:       models.StatusReadingGood,
	}
	if m.debounce.state == StateBad {
		st.Message = m.lastKind
	}
	if m.debounce.state != StateGood {
		t := m.debounce.badSince
		st.BadSince = &t
	}
	return st
}

// Metrics returns the last computed metrics.
func (m *Monitor) Metrics() models.PostureMetrics {
	return m.metrics
}

// Diagnostics reports the debounce state and the grace time left at now.
func (m *Monitor) Diagnostics(now time.Time) Diagnostics {
	d := Diagnostics{
		State:                   m.debounce.state,
		PendingRemainingSeconds: m.debounce.pendingRemaining(now, m.config.GracePeriod).Seconds(),
		LastInstantBad:          m.lastBad,
	}
	if m.debounce.state == StatePendingBad {
		d.PendingKind = m.lastKind
	}
	return d
}

// StartSession clears the sample log and accrual and opens a new session.
func (m *Monitor) StartSession(now time.Time) error {
	if m.sessionOpen {
		return ErrSessionAlreadyActive
	}
	m.sessionOpen = true
	m.sessionStart = now
	m.samples = nil
	m.accumulated = 0
	m.lastGoodAt = time.Time{}
	m.debounce = newDebouncer()
	return nil
}

// StopSession closes the session and returns the frozen report. The data stays
// readable through Report until the next StartSession.
func (m *Monitor) StopSession() models.PostureReport {
	m.sessionOpen = false
	m.lastGoodAt = time.Time{}
	return m.Report()
}

// SessionOpen reports whether samples are being recorded.
func (m *Monitor) SessionOpen() bool {
	return m.sessionOpen
}

// Report returns a copy of the sample log and accumulated good time.
func (m *Monitor) Report() models.PostureReport {
	samples := make([]models.PostureSample, len(m.samples))
	copy(samples, m.samples)
	return models.PostureReport{
		Samples:                samples,
		AccumulatedGoodSeconds: m.accumulated.Seconds(),
	}
}
