package devhabit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func strPtr(s string) *string { return &s }

func newSQLiteClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devhabit.db")
	c, err := New(context.Background(), append([]Option{WithSQLite(path)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_BackendRequired(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error without backend")
	}
}

func TestNew_EmptyRedisAddr(t *testing.T) {
	_, err := New(context.Background(), WithRedis("", ""))
	if err == nil || !strings.Contains(err.Error(), "address required") {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_EmptySQLitePath(t *testing.T) {
	if _, err := New(context.Background(), WithSQLite("")); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestClient_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	rust, created, err := c.Blogs().Upsert(ctx, BlogInput{
		UserID:      "u_1",
		Title:       "Learning Rust",
		Summary:     strPtr("A beginner guide"),
		Content:     "Rust is great. Rust rocks. Learning Rust takes time.",
		IsPublished: true,
		Tags:        []string{"rust"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created || !strings.HasPrefix(rust.ID, "b_") || rust.PublishedAt == nil {
		t.Fatalf("unexpected blog: created=%v %+v", created, rust)
	}

	draft, _, err := c.Blogs().Upsert(ctx, BlogInput{
		UserID:  "u_1",
		Title:   "Rust draft",
		Content: "Rust everywhere",
	})
	if err != nil {
		t.Fatalf("Upsert draft: %v", err)
	}

	page, err := c.Search(ctx, "Rust", 0, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalCount != 1 || len(page.Items) != 1 {
		t.Fatalf("TotalCount = %d, items = %d", page.TotalCount, len(page.Items))
	}
	hit := page.Items[0]
	if hit.ID != rust.ID || hit.Relevance == nil || *hit.Relevance != 161.5 {
		t.Errorf("hit = %s relevance %v", hit.ID, hit.Relevance)
	}
	if page.Page != 1 || page.PageSize != 10 || page.TotalPages != 1 {
		t.Errorf("paging = %d/%d/%d", page.Page, page.PageSize, page.TotalPages)
	}

	got, err := c.Get(ctx, rust.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Learning Rust" || len(got.Tags) != 1 {
		t.Errorf("Get = %+v", got)
	}

	if _, err := c.Get(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft Get err = %v, want ErrNotFound", err)
	}

	if err := c.Blogs().Delete(ctx, rust.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, rust.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if err := c.Blogs().Delete(ctx, rust.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if h := c.Health(ctx); h.Status != "ok" || h.Checks["database"] != "ok" {
		t.Errorf("Health = %+v", h)
	}
}

func TestClient_EmptySearchOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	c := newSQLiteClient(t)

	base := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	res := c.Blogs().Import(ctx, []BlogInput{
		{ID: "b_old", UserID: "u_1", Title: "Old", Content: "x", IsPublished: true, CreatedAt: &base, PublishedAt: &base},
		{ID: "b_new", UserID: "u_1", Title: "New", Content: "x", IsPublished: true,
			CreatedAt: &base, PublishedAt: timePtr(base.Add(48 * time.Hour))},
		{ID: "b_bad", UserID: "u_1", Title: "", Content: "x"},
	})
	if res.Created != 2 || res.Failed != 1 {
		t.Fatalf("import = %+v", res)
	}
	if res.Items[2].Status != ImportError || !errors.Is(res.Items[2].Err, ErrInvalidBlog) {
		t.Errorf("item 2 = %+v", res.Items[2])
	}

	page, err := c.Search(ctx, "  ", 1, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "b_new" || page.Items[1].ID != "b_old" {
		t.Fatalf("order = %+v", page.Items)
	}
	if page.Items[0].Relevance != nil {
		t.Error("recency listing must not carry relevance")
	}
}

func TestClient_WithOwner(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "owner.db")

	writer, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := writer.Blogs().Import(ctx, []BlogInput{
		{ID: "b_mine", UserID: "u_owner", Title: "Go tips", Content: "go", IsPublished: true},
		{ID: "b_other", UserID: "u_other", Title: "Go tricks", Content: "go", IsPublished: true},
	})
	writer.Close()
	if res.Failed != 0 {
		t.Fatalf("import = %+v", res)
	}

	c := newSQLiteClientAt(t, path, WithOwner("u_owner"))
	page, err := c.Search(ctx, "go", 1, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].ID != "b_mine" {
		t.Errorf("owner search = %+v", page.Items)
	}
	if _, err := c.Get(ctx, "b_other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Get err = %v", err)
	}
}

func TestClient_InvalidPaging(t *testing.T) {
	c := newSQLiteClient(t)
	if _, err := c.Search(context.Background(), "go", -1, 10); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("err = %v, want ErrInvalidQuery", err)
	}
}

func TestClient_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newSQLiteClient(t, WithPrometheus(reg))

	if _, err := c.Search(context.Background(), "go", 1, 10); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := c.Get(context.Background(), "b_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err = %v", err)
	}

	if n := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues(opSearch, "ok")); n != 1 {
		t.Errorf("search ok = %v", n)
	}
	if n := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues(opGet, "not_found")); n != 1 {
		t.Errorf("get not_found = %v", n)
	}

	// A second client on the same registry reuses the collectors.
	c2 := newSQLiteClient(t, WithPrometheus(reg))
	if c2.obs.metrics.operations != c.obs.metrics.operations {
		t.Error("expected collectors to be reused")
	}
}

func TestClient_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newSQLiteClient(t, WithLogger(logger))

	_, _, _ = c.Blogs().Upsert(context.Background(), BlogInput{Title: "", Content: "x"})
	if !strings.Contains(buf.String(), "operation failed") || !strings.Contains(buf.String(), "op=upsert") {
		t.Errorf("log = %q", buf.String())
	}
}

func newSQLiteClientAt(t *testing.T, path string, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithSQLite(path)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func timePtr(t time.Time) *time.Time { return &t }
