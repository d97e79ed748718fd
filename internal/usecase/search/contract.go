package search

import (
	"context"

	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

// Repository defines the document store contract for public reads.
type Repository interface {
	// ListPublished returns a snapshot of every published blog.
	ListPublished(ctx context.Context) ([]domblog.Blog, error)
	// Get returns a blog by id regardless of publication state,
	// or domain.ErrNotFound when it does not exist.
	Get(ctx context.Context, id string) (domblog.Blog, error)
}
