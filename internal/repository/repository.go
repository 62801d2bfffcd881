package repository

import (
	"context"
	"database/sql"
	"time"

	"focus_engine/internal/models"
)

// DeviceRepo stores paired companion devices.
type DeviceRepo interface {
	Create(ctx context.Context, name, secretHash string) (int, error)
	GetByName(ctx context.Context, name string) (*models.CompanionDevice, error)
}

// CommandSlotRepo is the single-row shared command slot.
type CommandSlotRepo interface {
	Write(ctx context.Context, cmd models.Command) error
	Load(ctx context.Context) (models.CommandSlot, error)
	MarkApplied(ctx context.Context, issuedAt time.Time) error
}

// SessionRepo persists finalized focus sessions and their posture reports.
type SessionRepo interface {
	Record(ctx context.Context, s models.FocusSession) error
	List(ctx context.Context, from, to time.Time) ([]models.FocusSession, error)
	Get(ctx context.Context, id string) (*models.FocusSession, error)
}

// EventRepo is the append-only event log.
type EventRepo interface {
	Append(ctx context.Context, e models.FocusEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.FocusEvent, error)
}

type Repository struct {
	Sessions SessionRepo
	Commands CommandSlotRepo
	Events   EventRepo
	Devices  DeviceRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Sessions: NewSessionSQLite(db),
		Commands: NewCommandSQLite(db),
		Events:   NewEventSQLite(db),
		Devices:  NewDeviceSQLite(db),
	}
}
