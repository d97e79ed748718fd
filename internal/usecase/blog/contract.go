package blog

import (
	"context"

	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

// Repository is the write contract of the blog catalog.
type Repository interface {
	Get(ctx context.Context, id string) (domblog.Blog, error)
	Upsert(ctx context.Context, b *domblog.Blog) (created bool, err error)
	Delete(ctx context.Context, id string) error
}
