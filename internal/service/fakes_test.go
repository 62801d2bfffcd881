package service

import (
	"context"
	"sync"
	"time"

	"focus_engine/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// fakeEventRepo records appended events and serves List from a canned result.
type fakeEventRepo struct {
	mu       sync.Mutex
	appended []models.FocusEvent
	appendFn func(models.FocusEvent) error

	gotCtx  context.Context
	gotFrom time.Time
	gotTo   time.Time
	gotType string
	events  []models.FocusEvent
	err     error
	calls   int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.FocusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendFn != nil {
		if err := f.appendFn(e); err != nil {
			return err
		}
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.FocusEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	recorded  []models.FocusSession
	recordErr error

	listOut []models.FocusSession
	getOut  *models.FocusSession
	err     error
	gotFrom time.Time
	gotTo   time.Time
	calls   int
}

func (f *fakeSessionRepo) Record(_ context.Context, s models.FocusSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, s)
	return nil
}

func (f *fakeSessionRepo) List(_ context.Context, from, to time.Time) ([]models.FocusSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFrom, f.gotTo = from, to
	return f.listOut, f.err
}

func (f *fakeSessionRepo) Get(_ context.Context, _ string) (*models.FocusSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.getOut, f.err
}

func (f *fakeSessionRepo) all() []models.FocusSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FocusSession(nil), f.recorded...)
}

// fakeCommandSlot behaves like the single-row table.
type fakeCommandSlot struct {
	mu      sync.Mutex
	slot    models.CommandSlot
	loadErr error
	markErr error
	writes  []models.Command
	marks   []time.Time
}

func (f *fakeCommandSlot) Write(_ context.Context, cmd models.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, cmd)
	c := cmd
	f.slot.Pending = &c
	return nil
}

func (f *fakeCommandSlot) Load(_ context.Context) (models.CommandSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return models.CommandSlot{}, f.loadErr
	}
	out := models.CommandSlot{}
	if f.slot.Pending != nil {
		c := *f.slot.Pending
		out.Pending = &c
	}
	if f.slot.LastAppliedAt != nil {
		t := *f.slot.LastAppliedAt
		out.LastAppliedAt = &t
	}
	return out, nil
}

func (f *fakeCommandSlot) MarkApplied(_ context.Context, issuedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marks = append(f.marks, issuedAt)
	t := issuedAt
	f.slot.LastAppliedAt = &t
	return nil
}

// fakeTarget records relayed calls.
type fakeTarget struct {
	toggles int
	stops   int
	stopErr error
}

func (f *fakeTarget) Toggle(context.Context) models.TimerState {
	f.toggles++
	return models.TimerState{Phase: models.PhaseRunning}
}

func (f *fakeTarget) Stop(context.Context) (*models.FocusSession, error) {
	f.stops++
	return &models.FocusSession{ID: "abandoned"}, f.stopErr
}
