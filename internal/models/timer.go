package models

import "time"

// TimerMode selects how the timer counts.
type TimerMode string

const (
	ModePomodoro  TimerMode = "pomodoro"
	ModeCountdown TimerMode = "countdown"
	ModeStopwatch TimerMode = "stopwatch"
)

// Valid reports whether m is one of the known modes.
func (m TimerMode) Valid() bool {
	switch m {
	case ModePomodoro, ModeCountdown, ModeStopwatch:
		return true
	}
	return false
}

// CountsDown is true for every mode except the stopwatch.
func (m TimerMode) CountsDown() bool {
	return m != ModeStopwatch
}

// TimerPhase is the lifecycle position of the current timer session.
type TimerPhase string

const (
	PhaseIdle    TimerPhase = "idle"
	PhaseRunning TimerPhase = "running"
	PhasePaused  TimerPhase = "paused"
)

// TimerState is a read-only snapshot of the timer.
type TimerState struct {
	Mode                 TimerMode  `json:"mode"`
	Phase                TimerPhase `json:"phase"`
	TimeRemainingSeconds float64    `json:"time_remaining_seconds"` // counts up for stopwatch
	TotalSeconds         float64    `json:"total_seconds"`          // 0 for stopwatch
	IsRunning            bool       `json:"is_running"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	TargetEndAt          *time.Time `json:"target_end_at,omitempty"` // set iff running and counting down
	Category             *Category  `json:"category,omitempty"`
}

// SessionStatus is the terminal outcome of a focus session.
type SessionStatus string

const (
	StatusCompleted SessionStatus = "completed"
	StatusAbandoned SessionStatus = "abandoned"
)

// Category is an opaque caller-supplied label for a session.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"` // e.g. "#FF8800"
}

// FocusSession is the immutable record of a finished session.
type FocusSession struct {
	ID              string         `json:"id"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         time.Time      `json:"end_time"`
	DurationSeconds float64        `json:"duration_seconds"`
	Mode            TimerMode      `json:"mode"`
	Category        Category       `json:"category"`
	Status          SessionStatus  `json:"status"`
	Report          *PostureReport `json:"report,omitempty"`
}
