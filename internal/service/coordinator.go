package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"focus_engine/internal/logger"
	"focus_engine/internal/models"
	"focus_engine/internal/posture"
	"focus_engine/internal/repository"
	"focus_engine/internal/timer"
)

// Snapshot is a consistent read of both state machines taken under one lock.
type Snapshot struct {
	At                 time.Time             `json:"at"`
	Timer              models.TimerState     `json:"timer"`
	Posture            models.PostureStatus  `json:"posture"`
	Metrics            models.PostureMetrics `json:"metrics"`
	Diagnostics        posture.Diagnostics   `json:"diagnostics"`
	PostureSessionOpen bool                  `json:"posture_session_open"`
}

// FocusOptions tunes the coordinator. Zero values fall back to defaults.
type FocusOptions struct {
	// TrackedModes open a posture session on a fresh start; nil tracks every mode.
	TrackedModes []models.TimerMode
	Clock        func() time.Time
	Log          *logger.Logger
}

// FocusService couples the timer and the posture monitor. One mutex
// serializes every mutation and read of both.
type FocusService struct {
	mu      sync.Mutex
	timer   *timer.Controller
	posture *posture.Monitor

	sessions repository.SessionRepo
	events   repository.EventRepo
	tracked  map[models.TimerMode]bool
	clock    func() time.Time
	log      *logger.Logger

	lastCategory models.Category
	lastGood     bool
}

func NewFocusService(ctrl *timer.Controller, monitor *posture.Monitor, sessions repository.SessionRepo, events repository.EventRepo, opts FocusOptions) *FocusService {
	s := &FocusService{
		timer:    ctrl,
		posture:  monitor,
		sessions: sessions,
		events:   events,
		tracked:  make(map[models.TimerMode]bool),
		clock:    opts.Clock,
		log:      logger.OrNop(opts.Log).Component("focus"),
		lastGood: true,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	modes := opts.TrackedModes
	if modes == nil {
		modes = []models.TimerMode{models.ModePomodoro, models.ModeCountdown, models.ModeStopwatch}
	}
	for _, m := range modes {
		s.tracked[m] = true
	}
	return s
}

// Start opens a new session or resumes a paused one. A fresh start in a
// tracked mode also opens the posture session.
func (s *FocusService) Start(ctx context.Context, category models.Category) models.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(ctx, category)
	return s.timer.State()
}

// Pause freezes the timer. The posture session stays open.
func (s *FocusService) Pause(ctx context.Context) models.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauseLocked(ctx)
	return s.timer.State()
}

// Toggle pauses a running timer or starts/resumes a stopped one. Starting from
// idle reuses the category of the previous session.
func (s *FocusService) Toggle(ctx context.Context) models.TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer.IsRunning() {
		s.pauseLocked(ctx)
	} else {
		s.startLocked(ctx, s.lastCategory)
	}
	return s.timer.State()
}

// Stop abandons the open session. It returns the recorded session, or nil when
// nothing was open or the elapsed time was zero.
func (s *FocusService) Stop(ctx context.Context) (*models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked(ctx, s.timer.Finalize(models.StatusAbandoned))
}

// Tick advances the timer by delta seconds.
func (s *FocusService) Tick(ctx context.Context, delta float64) (*models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked(ctx, s.timer.Tick(delta))
}

// Advance applies one driver step that covered delta seconds ending at now.
func (s *FocusService) Advance(ctx context.Context, now time.Time, delta float64) (*models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked(ctx, s.timer.Advance(now, delta))
}

// ReconcileAfterForeground recomputes the countdown from the wall clock.
func (s *FocusService) ReconcileAfterForeground(ctx context.Context, now time.Time) (*models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishLocked(ctx, s.timer.ReconcileAfterForeground(now))
}

// SetMode changes the mode while the timer is not running. A running timer
// silently keeps its mode; an unknown mode is ErrInvalidMode.
func (s *FocusService) SetMode(ctx context.Context, mode models.TimerMode) (models.TimerState, error) {
	if !mode.Valid() {
		return models.TimerState{}, ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.timer.Mode()
	if s.timer.SetMode(mode) {
		s.log.Infow("timer_mode_changed", "from", prev, "to", mode)
		s.appendEvent(ctx, models.EventModeChange, "Mode changed to "+string(mode), map[string]any{
			"from": prev,
			"to":   mode,
		})
	} else {
		s.log.Debugw("timer_mode_change_ignored", "mode", mode, "phase", s.timer.Phase())
	}
	return s.timer.State(), nil
}

// Observe feeds one landmark observation (nil for no face) to the monitor.
func (s *FocusService) Observe(ctx context.Context, landmarks *models.LandmarkGroup) models.PostureStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.posture.ProcessObservation(s.clock(), landmarks)
	if s.posture.SessionOpen() && status.IsGoodPosture != s.lastGood {
		if status.IsGoodPosture {
			s.appendEvent(ctx, models.EventPostureRecovered, "Posture recovered", nil)
		} else {
			s.appendEvent(ctx, models.EventPostureBad, "Posture needs attention", map[string]any{
				"message":   status.Message,
				"bad_since": status.BadSince,
			})
		}
	}
	s.lastGood = status.IsGoodPosture
	return status
}

// Snapshot returns the timer and posture state as one consistent value.
func (s *FocusService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	return Snapshot{
		At:                 now,
		Timer:              s.timer.State(),
		Posture:            s.posture.Status(),
		Metrics:            s.posture.Metrics(),
		Diagnostics:        s.posture.Diagnostics(now),
		PostureSessionOpen: s.posture.SessionOpen(),
	}
}

// PostureReport returns the live (or last frozen) posture report.
func (s *FocusService) PostureReport() models.PostureReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posture.Report()
}

func (s *FocusService) startLocked(ctx context.Context, category models.Category) {
	started, fresh := s.timer.Start(category)
	if !started {
		return
	}
	st := s.timer.State()
	if !fresh {
		s.log.Infow("timer_resumed", "mode", st.Mode, "remaining_s", st.TimeRemainingSeconds)
		s.appendEvent(ctx, models.EventResume, "Timer resumed", map[string]any{"remaining_s": st.TimeRemainingSeconds})
		return
	}

	s.lastCategory = category
	if s.tracked[st.Mode] {
		if err := s.posture.StartSession(*st.StartedAt); err != nil {
			if errors.Is(err, posture.ErrSessionAlreadyActive) {
				s.log.Errorw("posture_session_conflict", "err", err)
			} else {
				s.log.Errorw("posture_session_start_failed", "err", err)
			}
		} else {
			s.lastGood = true
		}
	}
	s.log.Infow("timer_started", "mode", st.Mode, "total_s", st.TotalSeconds, "category", category.Label)
	s.appendEvent(ctx, models.EventStart, "Focus session started", map[string]any{
		"mode":     st.Mode,
		"total_s":  st.TotalSeconds,
		"category": category.Label,
		"posture":  s.posture.SessionOpen(),
	})
}

func (s *FocusService) pauseLocked(ctx context.Context) {
	if !s.timer.Pause() {
		return
	}
	remaining := s.timer.State().TimeRemainingSeconds
	s.log.Infow("timer_paused", "remaining_s", remaining)
	s.appendEvent(ctx, models.EventPause, "Timer paused", map[string]any{"remaining_s": remaining})
}

// finishLocked closes the posture session, attaches its report and hands the
// session to persistence.
func (s *FocusService) finishLocked(ctx context.Context, fin *timer.Finalization) (*models.FocusSession, error) {
	if fin == nil {
		return nil, nil
	}

	var report *models.PostureReport
	if s.posture.SessionOpen() {
		r := s.posture.StopSession()
		report = &r
	}

	if fin.Session == nil {
		s.log.Infow("timer_session_discarded", "outcome", fin.Outcome)
		s.appendEvent(ctx, models.EventDiscarded, "Session ended with no elapsed time", map[string]any{"outcome": fin.Outcome})
		return nil, nil
	}

	session := *fin.Session
	session.Report = report

	evType, desc := models.EventCompleted, "Focus session completed"
	if session.Status == models.StatusAbandoned {
		evType, desc = models.EventAbandoned, "Focus session abandoned"
	}
	meta := map[string]any{
		"session_id": session.ID,
		"duration_s": session.DurationSeconds,
		"mode":       session.Mode,
		"category":   session.Category.Label,
	}
	if report != nil {
		meta["good_seconds"] = report.AccumulatedGoodSeconds
		meta["good_ratio"] = report.GoodRatio()
	}
	s.log.Infow("timer_session_finalized", "status", session.Status, "duration_s", session.DurationSeconds, "session_id", session.ID)
	s.appendEvent(ctx, evType, desc, meta)

	if s.sessions != nil {
		if err := s.sessions.Record(ctx, session); err != nil {
			s.log.Errorw("record_session_failed", "session_id", session.ID, "err", err)
			return &session, fmt.Errorf("record focus session: %w", err)
		}
	}
	return &session, nil
}

func (s *FocusService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	if s.events == nil {
		return
	}
	ev := models.FocusEvent{
		OccurredAt:  s.clock(),
		Type:        typ,
		Description: desc,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.log.Warnw("append_event_failed", "type", typ, "err", err)
	}
}
