package blog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/devhabit/devhabit/internal/db"
	"github.com/devhabit/devhabit/internal/domain"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

const blogColumns = `id, user_id, title, summary, content, is_published, is_archived,
	published_at, created_at, updated_at, tags`

// SQLRepo stores blogs in the SQLite "blogs" table.
type SQLRepo struct {
	db *sql.DB
}

// NewSQL creates a SQL-backed blog repository over a migrated database.
func NewSQL(conn *sql.DB) *SQLRepo {
	return &SQLRepo{db: conn}
}

// ListPublished returns a snapshot of all published blogs.
func (r *SQLRepo) ListPublished(ctx context.Context) ([]domblog.Blog, error) {
	return r.list(ctx, "SELECT "+blogColumns+" FROM blogs WHERE is_published = 1")
}

// ListAll returns every stored blog regardless of publication state.
func (r *SQLRepo) ListAll(ctx context.Context) ([]domblog.Blog, error) {
	return r.list(ctx, "SELECT "+blogColumns+" FROM blogs")
}

// Get returns a blog by id regardless of publication state.
func (r *SQLRepo) Get(ctx context.Context, id string) (domblog.Blog, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+blogColumns+" FROM blogs WHERE id = ?", id)
	b, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domblog.Blog{}, domain.ErrNotFound
		}
		return domblog.Blog{}, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("blog %s: %w", id, err)}
	}
	return b, nil
}

// Upsert creates or replaces a blog. Returns true if created.
func (r *SQLRepo) Upsert(ctx context.Context, b *domblog.Blog) (bool, error) {
	tags, err := json.Marshal(nonNilTags(b.Tags()))
	if err != nil {
		return false, fmt.Errorf("marshal tags: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM blogs WHERE id = ?)", b.ID()).
		Scan(&exists); err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blogs (`+blogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			title = excluded.title,
			summary = excluded.summary,
			content = excluded.content,
			is_published = excluded.is_published,
			is_archived = excluded.is_archived,
			published_at = excluded.published_at,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			tags = excluded.tags`,
		b.ID(), b.UserID(), b.Title(), nullString(b.Summary()), b.Content(),
		b.IsPublished(), b.IsArchived(),
		nullTime(b.PublishedAt()), formatTime(b.CreatedAt()), nullTime(b.UpdatedAt()),
		string(tags),
	)
	if err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("blog %s: %w", b.ID(), err)}
	}

	if err := tx.Commit(); err != nil {
		return false, &db.Error{Op: db.OpUpsert, Err: err}
	}
	return !exists, nil
}

// Delete removes a blog.
func (r *SQLRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blogs WHERE id = ?", id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SQLRepo) list(ctx context.Context, query string) ([]domblog.Blog, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var blogs []domblog.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return blogs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(s scanner) (domblog.Blog, error) {
	var (
		f                               domblog.Fields
		summary, publishedAt, updatedAt sql.NullString
		createdAt, tags                 string
	)
	if err := s.Scan(
		&f.ID, &f.UserID, &f.Title, &summary, &f.Content, &f.IsPublished, &f.IsArchived,
		&publishedAt, &createdAt, &updatedAt, &tags,
	); err != nil {
		return domblog.Blog{}, err
	}

	if summary.Valid {
		f.Summary = &summary.String
	}

	var err error
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return domblog.Blog{}, fmt.Errorf("blog %s created_at: %w", f.ID, err)
	}
	if f.PublishedAt, err = parseNullTime(publishedAt); err != nil {
		return domblog.Blog{}, fmt.Errorf("blog %s published_at: %w", f.ID, err)
	}
	if f.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return domblog.Blog{}, fmt.Errorf("blog %s updated_at: %w", f.ID, err)
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &f.Tags); err != nil {
			return domblog.Blog{}, fmt.Errorf("blog %s tags: %w", f.ID, err)
		}
	}

	return domblog.Reconstruct(f), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
