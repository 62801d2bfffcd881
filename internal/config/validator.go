package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config and returns ValidationErrors, or nil when it is usable.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if !slices.Contains(ValidLogLevels(), c.Log.Level) {
		add("log.level", c.Log.Level, "must be one of "+strings.Join(ValidLogLevels(), ", "))
	}
	if c.DB.Path == "" {
		add("db.path", c.DB.Path, "must not be empty")
	}

	if c.Timer.PomodoroSeconds <= 0 {
		add("timer.pomodoro_seconds", c.Timer.PomodoroSeconds, "must be positive")
	}
	if c.Timer.CountdownSeconds <= 0 {
		add("timer.countdown_seconds", c.Timer.CountdownSeconds, "must be positive")
	}
	if c.Timer.TickInterval <= 0 {
		add("timer.tick_interval", c.Timer.TickInterval, "must be positive")
	}

	if c.Posture.TiltLimitDegrees <= 0 {
		add("posture.tilt_limit_degrees", c.Posture.TiltLimitDegrees, "must be positive")
	}
	if c.Posture.YawLimitDegrees <= 0 {
		add("posture.yaw_limit_degrees", c.Posture.YawLimitDegrees, "must be positive")
	}
	if c.Posture.MinDenominator <= 0 {
		add("posture.min_denominator", c.Posture.MinDenominator, "must be positive")
	}
	if c.Posture.GracePeriod < 0 {
		add("posture.grace_period", c.Posture.GracePeriod, "must not be negative")
	}
	if c.Posture.AccrualGap <= 0 {
		add("posture.accrual_gap", c.Posture.AccrualGap, "must be positive")
	}
	for _, m := range c.TrackedModes() {
		if !m.Valid() {
			add("posture.tracked_modes", m, "unknown timer mode")
		}
	}

	if c.Relay.PollInterval <= 0 {
		add("relay.poll_interval", c.Relay.PollInterval, "must be positive")
	}
	if c.Relay.SuspendGap <= c.Timer.TickInterval {
		add("relay.suspend_gap", c.Relay.SuspendGap, "must exceed timer.tick_interval")
	}

	if c.Auth.SigningKey == "" {
		add("auth.signing_key", "", "must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		add("auth.token_ttl", c.Auth.TokenTTL, "must be positive")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
