package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type migration struct {
	version     int
	description string
	sql         string
}

// migrations is applied in order; each step runs once, tracked in schema_version.
var migrations = []migration{
	{
		version:     1,
		description: "blogs table",
		sql: `
		CREATE TABLE IF NOT EXISTS blogs (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL DEFAULT '',
			title         TEXT NOT NULL,
			summary       TEXT,
			content       TEXT NOT NULL,
			is_published  INTEGER NOT NULL DEFAULT 0,
			is_archived   INTEGER NOT NULL DEFAULT 0,
			published_at  TEXT,
			created_at    TEXT NOT NULL,
			updated_at    TEXT,
			tags          TEXT NOT NULL DEFAULT '[]'
		);
		CREATE INDEX IF NOT EXISTS idx_blogs_published ON blogs(is_published, is_archived);
		`,
	},
	{
		version:     2,
		description: "owner lookup index",
		sql:         `CREATE INDEX IF NOT EXISTS idx_blogs_user ON blogs(user_id);`,
	},
}

// SchemaVersion is the version reached after all migrations.
func SchemaVersion() int { return migrations[len(migrations)-1].version }

func migrate(ctx context.Context, conn *sql.DB, logger *zap.Logger) error {
	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version     INTEGER PRIMARY KEY,
			description TEXT,
			applied_at  TEXT DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	current, err := currentVersion(ctx, conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, conn, m); err != nil {
			return err
		}
		logger.Info("migration applied",
			zap.Int("version", m.version),
			zap.String("description", m.description),
		)
	}
	return nil
}

func currentVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	row := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&v); err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return v, nil
}

func apply(ctx context.Context, conn *sql.DB, m migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration v%d: %w", m.version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("migration v%d: %w", m.version, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, description) VALUES (?, ?)",
		m.version, m.description,
	); err != nil {
		return fmt.Errorf("record migration v%d: %w", m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration v%d: %w", m.version, err)
	}
	return nil
}
