package service

import (
	"context"
	"time"

	"focus_engine/internal/logger"
	"focus_engine/internal/models"
)

// Driver is the host loop: it advances the timer by wall-clock time, polls the
// relay and treats a long gap between ticks as a resume from suspension.
type Driver struct {
	focus    *FocusService
	relay    *CommandRelay
	settings DriverSettings
	clock    func() time.Time
	log      *logger.Logger

	lastTick time.Time
	lastPoll time.Time
}

func NewDriver(focus *FocusService, relay *CommandRelay, settings DriverSettings, log *logger.Logger, clock func() time.Time) *Driver {
	if clock == nil {
		clock = time.Now
	}
	return &Driver{
		focus:    focus,
		relay:    relay,
		settings: settings,
		clock:    clock,
		log:      logger.OrNop(log).Component("driver"),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (d *Driver) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	d.lastTick = d.clock()
	d.poll(ctx, d.lastTick)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.step(ctx, d.clock())
		}
	}
}

// Foreground is the explicit resume hook: reconcile against the wall clock,
// then apply whatever the companion left in the slot.
func (d *Driver) Foreground(ctx context.Context) (models.TimerState, error) {
	now := d.clock()
	if _, err := d.focus.ReconcileAfterForeground(ctx, now); err != nil {
		return d.focus.Snapshot().Timer, err
	}
	if d.relay != nil {
		if _, err := d.relay.Poll(ctx); err != nil {
			return d.focus.Snapshot().Timer, err
		}
	}
	return d.focus.Snapshot().Timer, nil
}

// step advances the timer by the measured gap since the previous step. A gap
// above SuspendGap is logged as a resume and forces a relay poll.
func (d *Driver) step(ctx context.Context, now time.Time) {
	gap := now.Sub(d.lastTick)
	d.lastTick = now
	if gap < 0 {
		gap = 0
	}

	resumed := d.settings.SuspendGap > 0 && gap > d.settings.SuspendGap
	if resumed {
		d.log.Infow("driver_resume_detected", "gap", gap)
	}
	if _, err := d.focus.Advance(ctx, now, gap.Seconds()); err != nil {
		d.log.Errorw("driver_advance_failed", "err", err)
	}
	if resumed || now.Sub(d.lastPoll) >= d.settings.PollInterval {
		d.poll(ctx, now)
	}
}

func (d *Driver) poll(ctx context.Context, now time.Time) {
	d.lastPoll = now
	if d.relay == nil {
		return
	}
	if _, err := d.relay.Poll(ctx); err != nil {
		d.log.Warnw("driver_poll_failed", "err", err)
	}
}
