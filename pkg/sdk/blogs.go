package devhabit

import (
	"context"
	"fmt"
	"time"

	bloguc "github.com/devhabit/devhabit/internal/usecase/blog"
)

// BlogService maintains the blog catalog.
type BlogService struct {
	svc blogUseCase
	obs *observer
}

// Upsert creates or updates a blog and returns the stored state.
// created is true when the blog did not exist before.
func (s *BlogService) Upsert(ctx context.Context, in BlogInput) (_ Blog, created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opUpsert, start, err) }()

	internal := toInternalInput(&in)
	b, created, err := s.svc.Upsert(ctx, &internal)
	if err != nil {
		return Blog{}, false, fmt.Errorf("upsert blog: %w", err)
	}
	return fromInternalBlog(&b), created, nil
}

// Import upserts many blogs, continuing past individual failures.
// Per-item errors are reported in the result, never returned.
func (s *BlogService) Import(ctx context.Context, inputs []BlogInput) ImportResult {
	start := time.Now()

	internal := make([]bloguc.Input, len(inputs))
	for i := range inputs {
		internal[i] = toInternalInput(&inputs[i])
	}
	res := fromInternalImport(s.svc.Import(ctx, internal))

	var err error
	if res.Failed > 0 {
		err = fmt.Errorf("import: %d of %d blogs failed", res.Failed, len(inputs))
	}
	s.obs.observe(opImport, start, err)
	return res
}

// Delete removes a blog by ID. Returns ErrNotFound when it does not exist.
func (s *BlogService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe(opDelete, start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}
