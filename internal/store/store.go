// Package store provides transactional persistence over an embedded
// relational engine (SQLite), mirroring the reference server's own
// hand-rolled pool + transaction handle rather than reaching for an ORM.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Config selects the store's backing mode.
//
// Path == "" selects an in-memory, shared-cache database: always migrated,
// single connection, matching the reference implementation's test/dev mode.
// Path != "" selects an on-disk database; migrations only run when Migrate
// is true.
type Config struct {
	Path     string
	MaxConns int
	Migrate  bool
}

// Store wraps a *sql.DB configured for SQLite with foreign keys always on.
type Store struct {
	db *sql.DB
}

// Querier is satisfied by both *sql.DB and *sql.Tx, letting callers write
// one code path that works against either the pool or a request-scoped
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens the store according to cfg, applying foreign-key enforcement
// and running migrations when required.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn, memory := dataSourceName(cfg.Path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	if memory {
		// A shared-cache in-memory database is only shared across
		// connections that are actually kept alive; a single connection
		// is the simplest way to guarantee that.
		db.SetMaxOpenConns(1)
	} else {
		max := cfg.MaxConns
		if max <= 0 {
			max = 5
		}
		db.SetMaxOpenConns(max)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	migrate := memory || cfg.Migrate
	if migrate {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: migrate: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func dataSourceName(path string) (dsn string, memory bool) {
	if path == "" {
		return "file::memory:?cache=shared&_foreign_keys=1", true
	}
	return fmt.Sprintf("file:%s?_foreign_keys=1", path), false
}

// DB returns the underlying pool for work outside a request-scoped
// transaction (the background session sweep, the readiness ping, tests).
func (s *Store) DB() *sql.DB { return s.db }

// Begin opens a serializable transaction. SQLite's own writer lock already
// serializes conflicting writers; requesting LevelSerializable documents the
// intent the spec requires rather than changing SQLite's actual locking.
func (s *Store) Begin(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// Close closes the pool.
func (s *Store) Close() error { return s.db.Close() }
