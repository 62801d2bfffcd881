package service

import "errors"

// Domain errors surfaced to the HTTP layer.
var (
	ErrInvalidMode        = errors.New("invalid mode: must be pomodoro, countdown or stopwatch")
	ErrInvalidCommand     = errors.New("invalid command: must be toggle or stop")
	ErrInvalidTimeRange   = errors.New("invalid time range: from must be <= to")
	ErrSessionNotFound    = errors.New("focus session not found")
	ErrInvalidSecret      = errors.New("invalid secret")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidPairingCode = errors.New("invalid pairing code")
)
