package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"study-scheduler/config"
)

// Connect opens the SQLite record store, applies pragmas, and ensures
// the schema exists. Path ":memory:" opens an in-memory database, used
// by tests.
func Connect(ctx context.Context, cfg config.StoreConfig) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		path = "./var/study-scheduler.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	// WAL for concurrent dispatch-cycle reads alongside API writes.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Disconnect closes the store.
func Disconnect(ctx context.Context, db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// Migrate applies all schema statements. Statements are idempotent so
// the full list re-runs on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS conflict_resolutions (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		pair_id         TEXT NOT NULL,
		item1_id        TEXT NOT NULL,
		item2_id        TEXT NOT NULL,
		resolution_type TEXT NOT NULL,
		resolved_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resolutions_user_type
		ON conflict_resolutions (user_id, resolution_type)`,

	`CREATE TABLE IF NOT EXISTS scheduled_notifications (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		title           TEXT NOT NULL,
		message         TEXT NOT NULL,
		type            TEXT NOT NULL,
		link            TEXT NOT NULL DEFAULT '',
		scheduled_for   TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'pending',
		recur_frequency TEXT,
		recur_end_date  TEXT,
		created_at      TEXT NOT NULL,
		modified_at     TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_status_due
		ON scheduled_notifications (status, scheduled_for)`,
	`CREATE INDEX IF NOT EXISTS idx_scheduled_user
		ON scheduled_notifications (user_id)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL,
		link       TEXT NOT NULL DEFAULT '',
		read       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user
		ON notifications (user_id, read)`,

	`CREATE TABLE IF NOT EXISTS device_tokens (
		token        TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		push_enabled INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_tokens_user
		ON device_tokens (user_id)`,
}
