package service

import (
	"context"
	"sync"
	"time"

	"focus_engine/internal/logger"
	"focus_engine/internal/models"
	"focus_engine/internal/repository"
)

// AlertScheduler is the in-process completion alert. It satisfies timer.Notifier.
type AlertScheduler struct {
	events repository.EventRepo
	log    *logger.Logger
	clock  func() time.Time

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	at    time.Time
	label string
}

func NewAlertScheduler(events repository.EventRepo, log *logger.Logger, clock func() time.Time) *AlertScheduler {
	if clock == nil {
		clock = time.Now
	}
	return &AlertScheduler{
		events: events,
		log:    logger.OrNop(log).Component("alerts"),
		clock:  clock,
	}
}

// ScheduleCompletionAlert replaces any pending alert with one firing at at.
func (s *AlertScheduler) ScheduleCompletionAlert(at time.Time, categoryLabel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.at = at
	s.label = categoryLabel

	delay := at.Sub(s.clock())
	if delay < 0 {
		delay = 0
	}
	s.timer = time.AfterFunc(delay, func() { s.fire(gen) })
	s.log.Debugw("completion_alert_scheduled", "at", at, "category", categoryLabel)
}

// CancelCompletionAlert drops the pending alert, if any.
func (s *AlertScheduler) CancelCompletionAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.log.Debugw("completion_alert_cancelled", "at", s.at)
	}
	s.stopLocked()
}

// Pending returns the scheduled fire time.
func (s *AlertScheduler) Pending() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.at, s.timer != nil
}

func (s *AlertScheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// a callback already in flight sees a stale generation and returns
	s.gen++
	s.at = time.Time{}
	s.label = ""
}

func (s *AlertScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	at, label := s.at, s.label
	s.timer = nil
	s.at = time.Time{}
	s.label = ""
	s.mu.Unlock()

	s.log.Infow("completion_alert", "target_end_at", at, "category", label)
	if s.events == nil {
		return
	}
	err := s.events.Append(context.Background(), models.FocusEvent{
		OccurredAt:  s.clock(),
		Type:        models.EventCompletionAlert,
		Description: "Focus session finished: " + label,
		Metadata:    map[string]any{"target_end_at": at, "category": label},
	})
	if err != nil {
		s.log.Warnw("completion_alert_event_failed", "err", err)
	}
}
