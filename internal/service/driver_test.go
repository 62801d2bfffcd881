package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus_engine/internal/models"
)

func newTestDriver(t *testing.T, slot *fakeCommandSlot) (*Driver, *focusFixture) {
	t.Helper()
	f := newFocusFixture(t, nil)
	relay := NewCommandRelay(slot, f.svc, f.events, nil, f.clock.Now)
	d := NewDriver(f.svc, relay, DriverSettings{PollInterval: 2 * time.Second, SuspendGap: 3 * time.Second}, nil, f.clock.Now)
	d.lastTick = f.clock.Now()
	d.lastPoll = f.clock.Now()
	return d, f
}

func TestDriver_StepTicksTimer(t *testing.T) {
	d, f := newTestDriver(t, &fakeCommandSlot{})
	ctx := context.Background()
	f.svc.Start(ctx, reading)

	for i := 0; i < 3; i++ {
		d.step(ctx, f.clock.Advance(time.Second))
	}

	assert.Equal(t, 1497.0, f.svc.Snapshot().Timer.TimeRemainingSeconds)
}

func TestDriver_LongGapReconcilesInsteadOfTicking(t *testing.T) {
	d, f := newTestDriver(t, &fakeCommandSlot{})
	ctx := context.Background()
	f.svc.Start(ctx, reading)

	d.step(ctx, f.clock.Advance(2*time.Minute))

	assert.Equal(t, 1380.0, f.svc.Snapshot().Timer.TimeRemainingSeconds)
}

func TestDriver_StopwatchCountsSuspendedGap(t *testing.T) {
	d, f := newTestDriver(t, &fakeCommandSlot{})
	ctx := context.Background()
	f.svc.SetMode(ctx, models.ModeStopwatch)
	f.svc.Start(ctx, reading)

	d.step(ctx, f.clock.Advance(time.Second))
	d.step(ctx, f.clock.Advance(10*time.Second))

	assert.Equal(t, 11.0, f.svc.Snapshot().Timer.TimeRemainingSeconds)
}

func TestDriver_LateTicksTrackTargetEnd(t *testing.T) {
	d, f := newTestDriver(t, &fakeCommandSlot{})
	ctx := context.Background()
	f.svc.SetMode(ctx, models.ModeCountdown)
	f.svc.Start(ctx, reading)

	var now time.Time
	for i := 0; i < 10; i++ {
		now = f.clock.Advance(2500 * time.Millisecond)
		d.step(ctx, now)
	}

	st := f.svc.Snapshot().Timer
	require.NotNil(t, st.TargetEndAt)
	assert.InDelta(t, st.TargetEndAt.Sub(now).Seconds(), st.TimeRemainingSeconds, 1e-9)
	assert.Equal(t, 2675.0, st.TimeRemainingSeconds)
}

func TestDriver_PollsAtInterval(t *testing.T) {
	slot := &fakeCommandSlot{}
	d, f := newTestDriver(t, slot)
	ctx := context.Background()

	require.NoError(t, slot.Write(ctx, models.Command{Kind: models.CommandToggle, IssuedAt: f.clock.Now()}))

	d.step(ctx, f.clock.Advance(time.Second))
	assert.False(t, f.svc.Snapshot().Timer.IsRunning, "poll interval not reached yet")

	d.step(ctx, f.clock.Advance(time.Second))
	assert.True(t, f.svc.Snapshot().Timer.IsRunning)
	assert.Len(t, slot.marks, 1)
}

func TestDriver_Foreground(t *testing.T) {
	slot := &fakeCommandSlot{}
	d, f := newTestDriver(t, slot)
	ctx := context.Background()
	f.svc.Start(ctx, reading)

	require.NoError(t, slot.Write(ctx, models.Command{Kind: models.CommandStop, IssuedAt: f.clock.Advance(5 * time.Minute)}))
	st, err := d.Foreground(ctx)

	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, st.Phase)
	require.Len(t, f.sessions.all(), 1)
	assert.Equal(t, models.StatusAbandoned, f.sessions.all()[0].Status)
	assert.Equal(t, 300.0, f.sessions.all()[0].DurationSeconds)
}

func TestDriver_RunStopsOnCancel(t *testing.T) {
	d, _ := newTestDriver(t, &fakeCommandSlot{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
