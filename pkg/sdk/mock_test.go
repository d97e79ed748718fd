package devhabit

import (
	"context"
	"time"

	dombatch "github.com/devhabit/devhabit/internal/domain/batch"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
	"github.com/devhabit/devhabit/internal/domain/search/request"
	"github.com/devhabit/devhabit/internal/domain/search/result"
	bloguc "github.com/devhabit/devhabit/internal/usecase/blog"
	healthuc "github.com/devhabit/devhabit/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Page, error)
	getFn    func(ctx context.Context, id string) (domblog.Blog, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Get(ctx context.Context, id string) (domblog.Blog, error) {
	return m.getFn(ctx, id)
}

// --- blogUseCase mock ---

type mockBlogUC struct {
	upsertFn func(ctx context.Context, in *bloguc.Input) (domblog.Blog, bool, error)
	importFn func(ctx context.Context, inputs []bloguc.Input) []dombatch.Result
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockBlogUC) Upsert(ctx context.Context, in *bloguc.Input) (domblog.Blog, bool, error) {
	return m.upsertFn(ctx, in)
}

func (m *mockBlogUC) Import(ctx context.Context, inputs []bloguc.Input) []dombatch.Result {
	return m.importFn(ctx, inputs)
}

func (m *mockBlogUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- store mock ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) Close() { m.closed = true }

func (m *mockStore) WaitForReady(context.Context, time.Duration) error { return m.pingErr }
