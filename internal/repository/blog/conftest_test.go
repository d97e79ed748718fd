package blog

import (
	"context"
	"testing"
	"time"

	"github.com/devhabit/devhabit/internal/db"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn       func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn  func(ctx context.Context, keys []string) ([]map[string]string, error)
	smembersFn      func(ctx context.Context, key string) ([]string, error)
	writeIndexedFn  func(ctx context.Context, w db.HashWrite) (bool, error)
	deleteIndexedFn func(ctx context.Context, key, member string, sets ...string) (bool, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) WriteIndexed(ctx context.Context, w db.HashWrite) (bool, error) {
	if m.writeIndexedFn != nil {
		return m.writeIndexedFn(ctx, w)
	}
	return false, nil
}

func (m *mockStore) DeleteIndexed(ctx context.Context, key, member string, sets ...string) (bool, error) {
	if m.deleteIndexedFn != nil {
		return m.deleteIndexedFn(ctx, key, member, sets...)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func strPtr(s string) *string { return &s }

func testBlog(t *testing.T, id string, published bool) domblog.Blog {
	t.Helper()
	created := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	f := domblog.Fields{
		ID:          id,
		UserID:      "u_1",
		Title:       "Learning Rust",
		Summary:     strPtr("A beginner guide"),
		Content:     "Rust is great.",
		IsPublished: published,
		CreatedAt:   created,
		Tags:        []string{"rust", "beginner"},
	}
	if published {
		p := created.Add(time.Hour)
		f.PublishedAt = &p
	}
	b, err := domblog.New(f)
	if err != nil {
		t.Fatalf("build blog: %v", err)
	}
	return b
}
