package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"focus_engine/internal/logger"
	"focus_engine/internal/models"
	"focus_engine/internal/repository"
)

// commandTarget is the part of the coordinator a relayed command can drive.
type commandTarget interface {
	Toggle(ctx context.Context) models.TimerState
	Stop(ctx context.Context) (*models.FocusSession, error)
}

// CommandRelay applies commands left in the shared slot by a companion surface.
// Each distinct issue time is applied at most once.
type CommandRelay struct {
	slot   repository.CommandSlotRepo
	target commandTarget
	events repository.EventRepo
	clock  func() time.Time
	log    *logger.Logger

	mu          sync.Mutex
	lastApplied time.Time
}

func NewCommandRelay(slot repository.CommandSlotRepo, target commandTarget, events repository.EventRepo, log *logger.Logger, clock func() time.Time) *CommandRelay {
	if clock == nil {
		clock = time.Now
	}
	return &CommandRelay{
		slot:   slot,
		target: target,
		events: events,
		clock:  clock,
		log:    logger.OrNop(log).Component("relay"),
	}
}

// Submit is the companion side: it overwrites the slot with a new command.
func (r *CommandRelay) Submit(ctx context.Context, kind models.CommandKind) (models.Command, error) {
	if !kind.Valid() {
		return models.Command{}, ErrInvalidCommand
	}
	cmd := models.Command{Kind: kind, IssuedAt: r.clock().UTC()}
	if err := r.slot.Write(ctx, cmd); err != nil {
		return models.Command{}, err
	}
	r.log.Infow("relay_command_submitted", "kind", kind, "issued_at", cmd.IssuedAt)
	return cmd, nil
}

// Slot returns the raw slot contents.
func (r *CommandRelay) Slot(ctx context.Context) (models.CommandSlot, error) {
	return r.slot.Load(ctx)
}

// Poll reads the slot and applies the pending command if it is newer than the
// last one applied. It reports whether a command was applied.
func (r *CommandRelay) Poll(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, err := r.slot.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("poll command slot: %w", err)
	}
	if slot.LastAppliedAt != nil && slot.LastAppliedAt.After(r.lastApplied) {
		r.lastApplied = *slot.LastAppliedAt
	}

	cmd := slot.Pending
	if cmd == nil {
		return false, nil
	}
	if !cmd.IssuedAt.After(r.lastApplied) {
		r.log.Debugw("relay_command_stale", "kind", cmd.Kind, "issued_at", cmd.IssuedAt, "last_applied", r.lastApplied)
		return false, nil
	}

	r.lastApplied = cmd.IssuedAt
	applyErr := r.apply(ctx, *cmd)

	if err := r.slot.MarkApplied(ctx, cmd.IssuedAt); err != nil {
		r.log.Warnw("relay_mark_applied_failed", "issued_at", cmd.IssuedAt, "err", err)
	}
	if applyErr != nil {
		return true, applyErr
	}
	return true, nil
}

func (r *CommandRelay) apply(ctx context.Context, cmd models.Command) error {
	var (
		applyErr error
		meta     = map[string]any{"kind": cmd.Kind, "issued_at": cmd.IssuedAt}
	)
	switch cmd.Kind {
	case models.CommandToggle:
		st := r.target.Toggle(ctx)
		meta["phase"] = st.Phase
	case models.CommandStop:
		session, err := r.target.Stop(ctx)
		applyErr = err
		if session != nil {
			meta["session_id"] = session.ID
		}
	default:
		r.log.Warnw("relay_command_unknown", "kind", cmd.Kind, "issued_at", cmd.IssuedAt)
		return nil
	}

	r.log.Infow("relay_command_applied", "kind", cmd.Kind, "issued_at", cmd.IssuedAt)
	if r.events != nil {
		if err := r.events.Append(ctx, models.FocusEvent{
			OccurredAt:  r.clock(),
			Type:        models.EventCommand,
			Description: "Applied companion command " + string(cmd.Kind),
			Metadata:    meta,
		}); err != nil {
			r.log.Warnw("append_event_failed", "type", models.EventCommand, "err", err)
		}
	}
	return applyErr
}
