package models

import "time"

// CommandKind is the request a companion surface can make.
type CommandKind string

const (
	CommandToggle CommandKind = "toggle"
	CommandStop   CommandKind = "stop"
)

// Valid reports whether k is a known command kind.
func (k CommandKind) Valid() bool {
	return k == CommandToggle || k == CommandStop
}

// Command is the single pending entry of the shared command slot.
type Command struct {
	Kind     CommandKind `json:"kind"`
	IssuedAt time.Time   `json:"issued_at"`
}

// CommandSlot is the persisted view of the shared slot: the pending command, if
// any, and the issue time of the last command the host applied.
type CommandSlot struct {
	Pending       *Command   `json:"pending,omitempty"`
	LastAppliedAt *time.Time `json:"last_applied_at,omitempty"`
}
