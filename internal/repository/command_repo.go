package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focus_engine/internal/models"
)

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite {
	return &CommandSQLite{db: db}
}

const (
	commandSlotRowID = 1

	// Write never touches applied_at so a companion cannot reset the host's dedupe mark.
	upsertCommandSQL = `
		INSERT INTO command_slot (id, kind, issued_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind,
			issued_at=excluded.issued_at
	`

	markAppliedSQL = `
		INSERT INTO command_slot (id, applied_at)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			applied_at=excluded.applied_at
	`

	selectCommandSlotSQL = `
		SELECT kind, issued_at, applied_at
		FROM command_slot WHERE id=?
	`
)

// Write replaces whatever command is pending (last write wins).
func (r *CommandSQLite) Write(ctx context.Context, cmd models.Command) error {
	if !cmd.Kind.Valid() {
		return fmt.Errorf("write command: unknown kind %q", cmd.Kind)
	}
	issued := cmd.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	if _, err := r.db.ExecContext(ctx, upsertCommandSQL, commandSlotRowID, string(cmd.Kind), issued.UTC()); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// Load reads the slot. An empty or missing row yields a zero CommandSlot.
func (r *CommandSQLite) Load(ctx context.Context) (models.CommandSlot, error) {
	var (
		kind      sql.NullString
		issuedAt  sql.NullTime
		appliedAt sql.NullTime
		slot      models.CommandSlot
	)
	err := r.db.QueryRowContext(ctx, selectCommandSlotSQL, commandSlotRowID).Scan(&kind, &issuedAt, &appliedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return slot, nil
		}
		return slot, fmt.Errorf("load command slot: %w", err)
	}

	if kind.Valid && issuedAt.Valid {
		slot.Pending = &models.Command{
			Kind:     models.CommandKind(kind.String),
			IssuedAt: issuedAt.Time.UTC(),
		}
	}
	if appliedAt.Valid {
		t := appliedAt.Time.UTC()
		slot.LastAppliedAt = &t
	}
	return slot, nil
}

// MarkApplied records the issue time of the command the host just applied.
func (r *CommandSQLite) MarkApplied(ctx context.Context, issuedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, markAppliedSQL, commandSlotRowID, issuedAt.UTC()); err != nil {
		return fmt.Errorf("mark command applied: %w", err)
	}
	return nil
}
