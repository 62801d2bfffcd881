package service

import "time"

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "PAUSE", "COMPLETED", "COMMAND", ...
}

// SessionFilter bounds a session listing by start time.
type SessionFilter struct {
	From time.Time
	To   time.Time
}

// AuthSettings configures device pairing and token issuance.
type AuthSettings struct {
	SigningKey  string
	TokenTTL    time.Duration
	PairingCode string
}

// DriverSettings configures the background driver loop.
type DriverSettings struct {
	PollInterval time.Duration
	SuspendGap   time.Duration
}
