package posture

import "time"

// DebounceState is the hysteresis state of the posture signal.
type DebounceState string

const (
	StateGood       DebounceState = "good"
	StatePendingBad DebounceState = "pending_bad"
	StateBad        DebounceState = "bad"
)

// debouncer delays entry into Bad by a grace period; recovery is immediate.
type debouncer struct {
	state    DebounceState
	badSince time.Time
}

func newDebouncer() debouncer {
	return debouncer{state: StateGood}
}

// step is the single transition function.
func (d debouncer) step(instantBad bool, now time.Time, grace time.Duration) debouncer {
	if !instantBad {
		return debouncer{state: StateGood}
	}

	next := d
	if d.state == StateGood {
		next = debouncer{state: StatePendingBad, badSince: now}
	}
	if next.state == StatePendingBad && now.Sub(next.badSince) >= grace {
		next.state = StateBad
	}
	return next
}

// isGood is the externally visible boolean.
func (d debouncer) isGood() bool {
	return d.state != StateBad
}

// pendingRemaining is the grace time left before PendingBad turns Bad.
func (d debouncer) pendingRemaining(now time.Time, grace time.Duration) time.Duration {
	if d.state != StatePendingBad {
		return 0
	}
	left := grace - now.Sub(d.badSince)
	if left < 0 {
		return 0
	}
	return left
}
