package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillActivityNames(db); err != nil {
		return fmt.Errorf("backfilling activity names: %w", err)
	}
	return nil
}

// migrateBackfillActivityNames registers every activity that appears in a
// logged session but is missing from the name registry, e.g. after rows were
// copied in from another database.
func migrateBackfillActivityNames(db *sql.DB) error {
	ctx := context.Background()
	query := `INSERT OR IGNORE INTO activity_names (name, created_at)
		SELECT DISTINCT activity, ? FROM day_sessions WHERE TRIM(activity) != ''`
	if _, err := db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting missing activity names: %w", err)
	}
	return nil
}

var migrations = []string{
	// One row per logged segment. Segments never cross local midnight, so
	// date is the local calendar day of start_at. Instants are fixed-width
	// UTC strings, which keeps lexical and chronological order identical.
	`CREATE TABLE IF NOT EXISTS day_sessions (
		id         TEXT PRIMARY KEY,
		date       TEXT NOT NULL,
		start_at   TEXT NOT NULL,
		end_at     TEXT NOT NULL,
		activity   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		CHECK(end_at > start_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_day_sessions_date ON day_sessions(date)`,
	`CREATE INDEX IF NOT EXISTS idx_day_sessions_match ON day_sessions(date, start_at, end_at, activity)`,

	// Habit documents are stored whole; the document shape is owned by
	// domain.HabitDay's JSON encoding.
	`CREATE TABLE IF NOT EXISTS habit_days (
		date       TEXT PRIMARY KEY,
		doc        TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activity_names (
		name       TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS vacation_days (
		date TEXT PRIMARY KEY
	)`,

	// Small keyed values: the logger's last stop and its undo buffer.
	`CREATE TABLE IF NOT EXISTS app_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
