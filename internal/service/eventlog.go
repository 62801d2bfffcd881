package service

import (
	"context"
	"strings"
	"time"

	"focus_engine/internal/models"
	"focus_engine/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeRange converts both bounds to UTC and rejects from > to.
func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = normalizeToUTC(from), normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return from, to, nil
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.FocusEvent, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, normalizeEventType(f.Type))
}
