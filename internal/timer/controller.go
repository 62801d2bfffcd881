// Package timer implements the focus timer state machine.
//
// The Controller is not safe for concurrent use; callers serialize access
// (the service layer holds a single mutex around it).
package timer

import (
	"math"
	"time"

	"focus_engine/internal/models"

	"github.com/google/uuid"
)

// Config holds the default totals for each counting-down mode.
type Config struct {
	PomodoroSeconds  float64
	CountdownSeconds float64
}

// DefaultConfig returns the stock 25/45 minute totals.
func DefaultConfig() Config {
	return Config{
		PomodoroSeconds:  1500,
		CountdownSeconds: 2700,
	}
}

// TotalFor returns the default total for mode (0 for the stopwatch).
func (c Config) TotalFor(mode models.TimerMode) float64 {
	switch mode {
	case models.ModePomodoro:
		return c.PomodoroSeconds
	case models.ModeCountdown:
		return c.CountdownSeconds
	default:
		return 0
	}
}

// Notifier schedules the out-of-process completion alert.
type Notifier interface {
	ScheduleCompletionAlert(at time.Time, categoryLabel string)
	CancelCompletionAlert()
}

type nopNotifier struct{}

func (nopNotifier) ScheduleCompletionAlert(time.Time, string) {}
func (nopNotifier) CancelCompletionAlert()                    {}

// Finalization describes a session that just ended.
// Session is nil when the elapsed duration was not positive and the record was discarded.
type Finalization struct {
	Outcome models.SessionStatus
	Session *models.FocusSession
	EndedAt time.Time
}

// Controller owns timing state for one session at a time.
type Controller struct {
	config   Config
	notifier Notifier
	clock    func() time.Time

	mode        models.TimerMode
	phase       models.TimerPhase
	remaining   float64
	total       float64
	startedAt   time.Time
	targetEndAt time.Time
	category    models.Category
	// carried is time already spent in this session under a previous mode.
	carried float64
}

// New creates an idle pomodoro timer. A nil notifier or clock falls back to a no-op / time.Now.
func New(config Config, notifier Notifier, clock func() time.Time) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if clock == nil {
		clock = time.Now
	}
	c := &Controller{
		config:   config,
		notifier: notifier,
		clock:    clock,
		mode:     models.ModePomodoro,
		phase:    models.PhaseIdle,
	}
	c.resetTotals()
	return c
}

// Mode returns the selected mode.
func (c *Controller) Mode() models.TimerMode { return c.mode }

// Phase returns the lifecycle phase.
func (c *Controller) Phase() models.TimerPhase { return c.phase }

// IsRunning reports whether the timer is ticking.
func (c *Controller) IsRunning() bool { return c.phase == models.PhaseRunning }

// State returns a snapshot safe to hand to readers.
func (c *Controller) State() models.TimerState {
	st := models.TimerState{
		Mode:                 c.mode,
		Phase:                c.phase,
		TimeRemainingSeconds: c.remaining,
		TotalSeconds:         c.total,
		IsRunning:            c.IsRunning(),
	}
	if !c.startedAt.IsZero() {
		t := c.startedAt
		st.StartedAt = &t
		cat := c.category
		st.Category = &cat
	}
	if !c.targetEndAt.IsZero() {
		t := c.targetEndAt
		st.TargetEndAt = &t
	}
	return st
}

// SetMode switches mode and resets the totals. It is ignored while running
// and for unknown modes; the return value reports whether it took effect.
// Switching a paused session keeps the time already spent in it.
func (c *Controller) SetMode(mode models.TimerMode) bool {
	if c.IsRunning() || !mode.Valid() {
		return false
	}
	if c.phase == models.PhasePaused {
		c.carried += c.elapsedFor(models.StatusAbandoned)
	}
	c.mode = mode
	c.resetTotals()
	return true
}

// Start begins or resumes the session. fresh is true only when a new session
// was opened (Idle -> Running); resuming from pause keeps the original start time
// and category.
func (c *Controller) Start(category models.Category) (started, fresh bool) {
	if c.IsRunning() {
		return false, false
	}
	now := c.clock()
	if c.phase == models.PhaseIdle {
		c.startedAt = now
		c.category = category
		fresh = true
	}
	c.phase = models.PhaseRunning

	if c.mode.CountsDown() {
		c.targetEndAt = now.Add(secondsToDuration(c.remaining))
		c.notifier.ScheduleCompletionAlert(c.targetEndAt, c.category.Label)
	}
	return true, fresh
}

// Tick advances the timer by delta seconds. A countdown that reaches zero is
// finalized as completed and the Finalization is returned.
func (c *Controller) Tick(delta float64) *Finalization {
	if !c.IsRunning() || delta <= 0 {
		return nil
	}
	if !c.mode.CountsDown() {
		c.remaining += delta
		return nil
	}
	c.remaining = math.Max(0, c.remaining-delta)
	if c.remaining == 0 {
		return c.finalizeAt(models.StatusCompleted, c.clock())
	}
	return nil
}

// Advance moves a running timer forward by one host-loop step that covered
// delta seconds of wall time ending at now. Counting-down modes are pinned to
// targetEndAt so late or missed steps cost nothing; the stopwatch accrues delta.
func (c *Controller) Advance(now time.Time, delta float64) *Finalization {
	if c.mode.CountsDown() {
		return c.ReconcileAfterForeground(now)
	}
	return c.Tick(delta)
}

// Pause freezes a running timer. It reports whether anything changed.
func (c *Controller) Pause() bool {
	if !c.IsRunning() {
		return false
	}
	c.phase = models.PhasePaused
	c.targetEndAt = time.Time{}
	c.notifier.CancelCompletionAlert()
	return true
}

// ReconcileAfterForeground recomputes the remaining time from the wall clock
// after the process was suspended. Calling it twice with the same now is a no-op
// the second time.
func (c *Controller) ReconcileAfterForeground(now time.Time) *Finalization {
	if !c.IsRunning() || !c.mode.CountsDown() || c.targetEndAt.IsZero() {
		return nil
	}
	c.remaining = math.Max(0, c.targetEndAt.Sub(now).Seconds())
	if c.remaining == 0 {
		return c.finalizeAt(models.StatusCompleted, now)
	}
	return nil
}

// Finalize ends an open session with the given outcome. It returns nil when
// there is no open session.
func (c *Controller) Finalize(outcome models.SessionStatus) *Finalization {
	if c.phase == models.PhaseIdle {
		return nil
	}
	return c.finalizeAt(outcome, c.clock())
}

func (c *Controller) finalizeAt(outcome models.SessionStatus, now time.Time) *Finalization {
	duration := c.carried + c.elapsedFor(outcome)

	fin := &Finalization{Outcome: outcome, EndedAt: now}
	if duration > 0 {
		fin.Session = &models.FocusSession{
			ID:              uuid.NewString(),
			StartTime:       c.startedAt,
			EndTime:         now,
			DurationSeconds: duration,
			Mode:            c.mode,
			Category:        c.category,
			Status:          outcome,
		}
	}

	c.notifier.CancelCompletionAlert()
	c.phase = models.PhaseIdle
	c.startedAt = time.Time{}
	c.targetEndAt = time.Time{}
	c.category = models.Category{}
	c.carried = 0
	c.resetTotals()
	return fin
}

// elapsedFor computes the recorded duration for the current session.
func (c *Controller) elapsedFor(outcome models.SessionStatus) float64 {
	if !c.mode.CountsDown() {
		return c.remaining
	}
	if outcome == models.StatusCompleted {
		return c.total
	}
	return c.total - c.remaining
}

func (c *Controller) resetTotals() {
	c.total = c.config.TotalFor(c.mode)
	c.remaining = c.total
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
