package store

import (
	"database/sql"
	"fmt"
)

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   INTEGER PRIMARY KEY,
		username             TEXT    NOT NULL DEFAULT '',
		first_name           TEXT    NOT NULL DEFAULT '',
		last_name            TEXT    NOT NULL DEFAULT '',
		language_code        TEXT    NOT NULL DEFAULT '',
		daily_goal           INTEGER NOT NULL DEFAULT 8,
		notification_enabled INTEGER NOT NULL DEFAULT 1,
		created_at           INTEGER NOT NULL,
		updated_at           INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pomodoros (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		mode         TEXT    NOT NULL CHECK(mode IN ('work', 'shortBreak', 'longBreak')),
		duration     INTEGER NOT NULL,
		completed    INTEGER NOT NULL DEFAULT 1,
		started_at   INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pomodoros_user_completed_at
		ON pomodoros(user_id, completed_at)`,
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   BIGINT PRIMARY KEY,
		username             TEXT    NOT NULL DEFAULT '',
		first_name           TEXT    NOT NULL DEFAULT '',
		last_name            TEXT    NOT NULL DEFAULT '',
		language_code        TEXT    NOT NULL DEFAULT '',
		daily_goal           INTEGER NOT NULL DEFAULT 8,
		notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at           BIGINT  NOT NULL,
		updated_at           BIGINT  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pomodoros (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT  NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		mode         TEXT    NOT NULL CHECK(mode IN ('work', 'shortBreak', 'longBreak')),
		duration     INTEGER NOT NULL,
		completed    BOOLEAN NOT NULL DEFAULT TRUE,
		started_at   BIGINT  NOT NULL,
		completed_at BIGINT  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pomodoros_user_completed_at
		ON pomodoros(user_id, completed_at)`,
}

// Migrate applies the schema for the given dialect. Statements are
// idempotent, so re-running on an existing database is safe.
func Migrate(db *sql.DB, dialect Dialect) error {
	migrations := sqliteMigrations
	if dialect == DialectPostgres {
		migrations = postgresMigrations
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}
