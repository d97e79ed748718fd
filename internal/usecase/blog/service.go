// Package blog maintains the blog catalog that the public search reads from.
package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devhabit/devhabit/internal/domain"
	dombatch "github.com/devhabit/devhabit/internal/domain/batch"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

// MaxImportSize is the maximum number of blogs per Import call.
const MaxImportSize = 1000

// Input is an author-supplied blog. Empty ID means "new blog".
// CreatedAt and PublishedAt are honoured only when creating (imports of existing content).
type Input struct {
	ID          string
	UserID      string
	Title       string
	Summary     *string
	Content     string
	IsPublished bool
	IsArchived  bool
	Tags        []string
	CreatedAt   *time.Time
	PublishedAt *time.Time
}

// Service writes blogs with the publish transitions applied.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Upsert creates a blog or updates an existing one and returns the stored state.
func (s *Service) Upsert(ctx context.Context, in *Input) (domblog.Blog, bool, error) {
	now := s.now()
	next := in.fields()

	if in.ID == "" {
		next.ID = domblog.NewID()
		return s.create(ctx, next, in, now)
	}

	cur, err := s.repo.Get(ctx, in.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.create(ctx, next, in, now)
	case err != nil:
		return domblog.Blog{}, false, fmt.Errorf("get blog %s: %w", in.ID, err)
	}

	b, err := domblog.New(cur.ApplyUpdate(next, now))
	if err != nil {
		return domblog.Blog{}, false, err
	}
	if _, err := s.repo.Upsert(ctx, &b); err != nil {
		return domblog.Blog{}, false, fmt.Errorf("upsert blog %s: %w", b.ID(), err)
	}
	return b, false, nil
}

// Import upserts every input, continuing past individual failures.
func (s *Service) Import(ctx context.Context, inputs []Input) []dombatch.Result {
	results := make([]dombatch.Result, len(inputs))

	if len(inputs) > MaxImportSize {
		err := fmt.Errorf("%w: import size exceeds %d", domain.ErrInvalidBlog, MaxImportSize)
		for i := range inputs {
			results[i] = dombatch.NewError(i, inputs[i].ID, err)
		}
		return results
	}

	for i := range inputs {
		if err := ctx.Err(); err != nil {
			results[i] = dombatch.NewError(i, inputs[i].ID, err)
			continue
		}
		b, created, err := s.Upsert(ctx, &inputs[i])
		if err != nil {
			results[i] = dombatch.NewError(i, inputs[i].ID, err)
			continue
		}
		results[i] = dombatch.NewWritten(i, b.ID(), created)
	}
	return results
}

// Delete removes a blog; domain.ErrNotFound when it does not exist.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete blog %s: %w", id, err)
	}
	return nil
}

func (s *Service) create(
	ctx context.Context, f domblog.Fields, in *Input, now time.Time,
) (domblog.Blog, bool, error) {
	f.CreatedAt = now
	if in.CreatedAt != nil {
		f.CreatedAt = in.CreatedAt.UTC()
	}
	if f.IsPublished {
		published := now
		if in.PublishedAt != nil {
			published = in.PublishedAt.UTC()
		}
		f.PublishedAt = &published
	}

	b, err := domblog.New(f)
	if err != nil {
		return domblog.Blog{}, false, err
	}
	if _, err := s.repo.Upsert(ctx, &b); err != nil {
		return domblog.Blog{}, false, fmt.Errorf("create blog %s: %w", b.ID(), err)
	}
	return b, true, nil
}

func (in *Input) fields() domblog.Fields {
	return domblog.Fields{
		ID:          in.ID,
		UserID:      in.UserID,
		Title:       in.Title,
		Summary:     in.Summary,
		Content:     in.Content,
		IsPublished: in.IsPublished,
		IsArchived:  in.IsArchived,
		Tags:        in.Tags,
	}
}
