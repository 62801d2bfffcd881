package repository

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"focus_engine/internal/models"
)

func TestEventSQLite_Append_FillsDefaultsAndNormalizesType(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewEventSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO focus_events (id, occurred_at, type, message, meta)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "START", "timer started", `{"mode":"pomodoro"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), models.FocusEvent{
		Type:        "  start ",
		Description: "timer started",
		Metadata:    map[string]any{"mode": "pomodoro"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_KeepsGivenIDAndTime(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewEventSQLite(db)
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO focus_events")).
		WithArgs("evt-1", isUTCTime(at), "PAUSE", "paused", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), models.FocusEvent{EventID: "evt-1", OccurredAt: at, Type: models.EventPause, Description: "paused"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestEventSQLite_Append_DBError(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO focus_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(testCtx(t), models.FocusEvent{Type: "command", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestEventSQLite_Append_UnmarshalableMetadata(t *testing.T) {
	t.Parallel()
	db, _ := newMockDB(t)
	repo := NewEventSQLite(db)

	err := repo.Append(testCtx(t), models.FocusEvent{Type: "start", Metadata: make(chan int)})
	if err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestEventSQLite_List_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewEventSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"kind": "stop"})

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", now, "COMMAND", "m1", string(js)).
		AddRow("2", now.Add(time.Hour), "ABANDONED", "m2", nil).
		AddRow("3", now.Add(2*time.Hour), "START", "m3", "{broken")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, message, meta FROM focus_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", b1, js)
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{broken" {
		t.Fatalf("expected raw meta, got %#v", got[2].Metadata)
	}
}

func TestEventSQLite_List_WithFilters(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := `SELECT id, occurred_at, type, message, meta FROM focus_events WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC`
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", from, "COMPLETED", "b", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from, to, "COMPLETED").
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), from, to, " completed ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestEventSQLite_List_ScanError(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("x", 123, "START", "msg", nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, message, meta FROM focus_events ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	if _, err := repo.List(testCtx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatal("expected scan error, got nil")
	}
}
