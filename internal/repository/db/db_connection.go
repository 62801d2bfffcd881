package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// host, relay and HTTP handlers share one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaFocusSessions = `
CREATE TABLE IF NOT EXISTS focus_sessions (
    id TEXT PRIMARY KEY,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    duration_s REAL NOT NULL,
    mode TEXT NOT NULL,
    category_id TEXT NOT NULL,
    category_label TEXT NOT NULL,
    category_color TEXT,
    status TEXT NOT NULL,
    good_seconds REAL,
    sample_count INTEGER NOT NULL DEFAULT 0
);
`

const schemaPostureSamples = `
CREATE TABLE IF NOT EXISTS posture_samples (
    session_id TEXT NOT NULL REFERENCES focus_sessions(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    elapsed_s REAL NOT NULL,
    pitch_ratio REAL NOT NULL,
    is_good BOOLEAN NOT NULL,
    PRIMARY KEY (session_id, seq)
);
`

const schemaCommandSlot = `
CREATE TABLE IF NOT EXISTS command_slot (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    kind TEXT,
    issued_at TIMESTAMP,
    applied_at TIMESTAMP
);
`

const schemaFocusEvents = `
CREATE TABLE IF NOT EXISTS focus_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaCompanionDevices = `
CREATE TABLE IF NOT EXISTS companion_devices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    secret_hash TEXT NOT NULL
);
`

const indexSessionsStart = `CREATE INDEX IF NOT EXISTS idx_focus_sessions_start ON focus_sessions(start_time);`

const indexEventsOccurred = `CREATE INDEX IF NOT EXISTS idx_focus_events_occurred ON focus_events(occurred_at);`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaFocusSessions,
		schemaPostureSamples,
		schemaCommandSlot,
		schemaFocusEvents,
		schemaCompanionDevices,
		indexSessionsStart,
		indexEventsOccurred,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
