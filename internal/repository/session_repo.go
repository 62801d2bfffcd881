package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"focus_engine/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

var _ SessionRepo = (*SessionSQLite)(nil)

const (
	insertSessionSQL = `
		INSERT INTO focus_sessions (id, start_time, end_time, duration_s, mode,
			category_id, category_label, category_color, status, good_seconds, sample_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertSampleSQL = `
		INSERT INTO posture_samples (session_id, seq, elapsed_s, pitch_ratio, is_good)
		VALUES (?, ?, ?, ?, ?)
	`

	selectSessionColumns = `SELECT id, start_time, end_time, duration_s, mode,
			category_id, category_label, category_color, status, good_seconds, sample_count
		FROM focus_sessions`

	selectSamplesSQL = `
		SELECT elapsed_s, pitch_ratio, is_good
		FROM posture_samples WHERE session_id = ? ORDER BY seq ASC
	`
)

// Record writes the session and its posture samples in one transaction.
func (r *SessionSQLite) Record(ctx context.Context, s models.FocusSession) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record session: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		good  sql.NullFloat64
		count int
	)
	if s.Report != nil {
		good = sql.NullFloat64{Float64: s.Report.AccumulatedGoodSeconds, Valid: true}
		count = len(s.Report.Samples)
	}

	if _, err = tx.ExecContext(ctx, insertSessionSQL,
		s.ID,
		s.StartTime.UTC(),
		s.EndTime.UTC(),
		s.DurationSeconds,
		string(s.Mode),
		s.Category.ID,
		s.Category.Label,
		s.Category.Color,
		string(s.Status),
		good,
		count,
	); err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}

	if count > 0 {
		stmt, perr := tx.PrepareContext(ctx, insertSampleSQL)
		if perr != nil {
			err = fmt.Errorf("prepare sample insert: %w", perr)
			return err
		}
		defer stmt.Close()

		for i, sample := range s.Report.Samples {
			if _, err = stmt.ExecContext(ctx, s.ID, i, sample.ElapsedSeconds, sample.PitchRatio, sample.IsGood); err != nil {
				return fmt.Errorf("insert sample %d of %s: %w", i, s.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session %s: %w", s.ID, err)
	}
	return nil
}

// List returns sessions started within [from, to], oldest first. Reports carry
// the accumulated good time only; use Get for the sample log.
func (r *SessionSQLite) List(ctx context.Context, from, to time.Time) ([]models.FocusSession, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "start_time >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "start_time <= ?")
		args = append(args, to.UTC())
	}

	q := selectSessionColumns
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY start_time ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := make([]models.FocusSession, 0, 16)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one session with its full sample log. Returns (nil, nil) if not found.
func (r *SessionSQLite) Get(ctx context.Context, id string) (*models.FocusSession, error) {
	row := r.db.QueryRowContext(ctx, selectSessionColumns+" WHERE id = ?", id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if s.Report != nil {
		rows, err := r.db.QueryContext(ctx, selectSamplesSQL, id)
		if err != nil {
			return nil, fmt.Errorf("query samples of %s: %w", id, err)
		}
		defer rows.Close()

		samples := make([]models.PostureSample, 0, 64)
		for rows.Next() {
			var p models.PostureSample
			if err := rows.Scan(&p.ElapsedSeconds, &p.PitchRatio, &p.IsGood); err != nil {
				return nil, fmt.Errorf("scan sample of %s: %w", id, err)
			}
			samples = append(samples, p)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		s.Report.Samples = samples
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.FocusSession, error) {
	var (
		s      models.FocusSession
		mode   string
		status string
		color  sql.NullString
		good   sql.NullFloat64
		count  int
	)
	err := row.Scan(
		&s.ID,
		&s.StartTime,
		&s.EndTime,
		&s.DurationSeconds,
		&mode,
		&s.Category.ID,
		&s.Category.Label,
		&color,
		&status,
		&good,
		&count,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scan session: %w", err)
	}
	s.StartTime = s.StartTime.UTC()
	s.EndTime = s.EndTime.UTC()
	s.Mode = models.TimerMode(mode)
	s.Status = models.SessionStatus(status)
	s.Category.Color = color.String
	if good.Valid {
		s.Report = &models.PostureReport{AccumulatedGoodSeconds: good.Float64}
	}
	return s, nil
}
