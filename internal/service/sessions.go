package service

import (
	"context"

	"focus_engine/internal/models"
	"focus_engine/internal/repository"
)

// SessionService reads back recorded focus sessions.
type SessionService struct {
	repo repository.SessionRepo
}

func NewSessionService(repo repository.SessionRepo) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) List(ctx context.Context, f SessionFilter) ([]models.FocusSession, error) {
	from, to, err := normalizeRange(f.From, f.To)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, from, to)
}

// Get returns ErrSessionNotFound for an unknown id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.FocusSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
