package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
)

// Dialect identifies the SQL backend a store runs on.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config holds configuration for the relational store.
type Config struct {
	// DatabaseURL selects the backend: a postgres:// URL opens a Postgres
	// connection via pgx, anything else is treated as a SQLite file path
	// (":memory:" for an in-memory database).
	DatabaseURL string `env:"DATABASE_URL" default:"var/storage/pomodoro.db"`
}

// Store is an explicitly constructed handle on the relational database.
// It is opened once at process startup, passed into services, and closed
// at shutdown.
type Store struct {
	DB      *sql.DB
	Dialect Dialect

	log logging.Logger
}

// Open connects to the configured database, applies connection settings and
// runs schema migrations. Returns an error if any step fails.
func Open(cfg Config) (*Store, error) {
	log := logging.GetLogger("store").With(
		logging.Group("db", "url", cfg.DatabaseURL),
	)

	dialect := dialectFor(cfg.DatabaseURL)

	db, err := open(cfg.DatabaseURL, dialect)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db, dialect); err != nil {
		db.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{
		DB:      db,
		Dialect: dialect,
		log:     log,
	}, nil
}

func dialectFor(databaseURL string) Dialect {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DialectPostgres
	}

	return DialectSQLite
}

func open(databaseURL string, dialect Dialect) (*sql.DB, error) {
	if dialect == DialectPostgres {
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres db: %w", err)
		}

		return db, nil
	}

	path := strings.TrimPrefix(databaseURL, "sqlite://")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()

			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return db, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
