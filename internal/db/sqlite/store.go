// Package sqlite provides a single-file SQL store for blogs, used for local
// runs and the CLI when no Redis or Valkey server is available.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/devhabit/devhabit/internal/db"
)

// Store owns a SQLite connection pool with the blog schema applied.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies pending migrations.
// The special path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; one connection also keeps :memory: databases shared.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := migrate(ctx, conn, logger); err != nil {
		_ = conn.Close()
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}

	return &Store{db: conn}, nil
}

// DB returns the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
