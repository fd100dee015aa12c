package codex

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added partial UNIQUE index allowing a single global codex
const currentSchemaVersion = 1

// Store is the codex and article store.
// All methods are safe for concurrent use.
type Store struct {
	db    *sql.DB
	cfg   Config
	rules rules
}

// Open creates or opens the database at cfg.Path and bootstraps it.
//
// Bootstrap applies the schema script, runs migrations, and seeds the
// global fallback codex if it is missing. Any failure is returned as an
// INTERNAL error and leaves no open handle behind.
//
// Most callers should obtain the store through a Provider instead.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	const op = "open"

	r, err := compileRules(cfg.Naming)
	if err != nil {
		return nil, &Error{Code: ErrCodeInternal, Op: op, Message: "invalid naming rules", Err: err}
	}

	script, err := loadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, &Error{Code: ErrCodeInternal, Op: op, Message: "read schema script", Err: err}
	}

	dsn, err := cfg.dsn()
	if err != nil {
		return nil, &Error{Code: ErrCodeInternal, Op: op, Err: err}
	}

	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &Error{Code: ErrCodeInternal, Op: op, Message: "open database", Err: err}
	}

	// Verify connection works
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &Error{Code: ErrCodeInternal, Op: op, Message: "connect to database", Err: err}
	}

	configurePool(db, cfg.Pool)

	if err := applySchema(ctx, db, script); err != nil {
		db.Close()
		return nil, &Error{Code: ErrCodeInternal, Op: op, Message: "apply schema", Err: err}
	}

	s := &Store{db: db, cfg: cfg, rules: r}

	if err := s.seedGlobal(ctx); err != nil {
		db.Close()
		return nil, &Error{Code: ErrCodeInternal, Op: op, Message: "seed global codex", Err: err}
	}

	slog.Info("codex store ready",
		"path", cfg.Path,
		"schema_version", currentSchemaVersion,
		"max_open_conns", cfg.Pool.MaxOpenConns,
	)

	return s, nil
}

// Close closes the database and every pooled connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GlobalName returns the reserved name of the global codex.
func (s *Store) GlobalName() string {
	return s.rules.global
}

// Stats reports connection pool usage.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

func loadSchema(path string) (string, error) {
	if path == "" {
		return schemaSQL, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// configurePool bounds the pool. SQLite has a single writer; extra
// connections only serve concurrent WAL readers.
func configurePool(db *sql.DB, p PoolConfig) {
	maxOpen := p.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultConfig().Pool.MaxOpenConns
	}
	maxIdle := p.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(ctx context.Context, db *sql.DB, script string) error {
	if _, err := db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(ctx, db); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 limits the table to one chat-less codex. UNIQUE(chat_id, name)
// alone does not, because SQLite treats NULLs as distinct.
func migrateToV1(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_codex_single_global
		ON codex (ifnull(chat_id, 0))
		WHERE chat_id IS NULL
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// seedGlobal inserts the global codex if absent and verifies it exists.
func (s *Store) seedGlobal(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO codex (chat_id, name)
		SELECT NULL, ?
		WHERE NOT EXISTS (SELECT 1 FROM codex WHERE chat_id IS NULL)
	`, s.rules.global); err != nil {
		return fmt.Errorf("insert global codex: %w", err)
	}

	var name string
	if err := s.db.QueryRowContext(ctx,
		"SELECT name FROM codex WHERE chat_id IS NULL",
	).Scan(&name); err != nil {
		return fmt.Errorf("global codex missing after seed: %w", err)
	}

	// An existing database keeps the name it was seeded with; that name is
	// the one reserved from then on.
	if name != s.rules.global {
		slog.Warn("global codex was seeded under a different name",
			"stored", name,
			"configured", s.rules.global,
		)
		s.rules.global = name
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value on a
// pooled connection. Used for testing.
func (s *Store) verifyPragma(ctx context.Context, name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
