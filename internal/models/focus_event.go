package models

import "time"

// FocusEvent is a single log entry.
type FocusEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | PAUSE | RESUME | COMPLETED | ABANDONED | ...
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// Event types written to the log.
const (
	EventStart            = "START"
	EventPause            = "PAUSE"
	EventResume           = "RESUME"
	EventModeChange       = "MODE_CHANGE"
	EventCompleted        = "COMPLETED"
	EventAbandoned        = "ABANDONED"
	EventDiscarded        = "DISCARDED"
	EventCommand          = "COMMAND"
	EventCompletionAlert  = "COMPLETION_ALERT"
	EventPostureBad       = "POSTURE_BAD"
	EventPostureRecovered = "POSTURE_RECOVERED"
)
