package devhabit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/devhabit/devhabit/internal/db/redis"
	dbSQLite "github.com/devhabit/devhabit/internal/db/sqlite"
	dombatch "github.com/devhabit/devhabit/internal/domain/batch"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
	"github.com/devhabit/devhabit/internal/domain/search/request"
	"github.com/devhabit/devhabit/internal/domain/search/result"
	blogrepo "github.com/devhabit/devhabit/internal/repository/blog"
	bloguc "github.com/devhabit/devhabit/internal/usecase/blog"
	healthuc "github.com/devhabit/devhabit/internal/usecase/health"
	searchuc "github.com/devhabit/devhabit/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
	Get(ctx context.Context, id string) (domblog.Blog, error)
}

type blogUseCase interface {
	Upsert(ctx context.Context, in *bloguc.Input) (domblog.Blog, bool, error)
	Import(ctx context.Context, inputs []bloguc.Input) []dombatch.Result
	Delete(ctx context.Context, id string) error
}

// store is what the client needs from an opened backend.
type store interface {
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// catalog is satisfied by both blog repositories.
type catalog interface {
	searchuc.Repository
	bloguc.Repository
}

// Client is the devhabit SDK entry point.
type Client struct {
	store     store
	searchSvc searchUseCase
	blogSvc   blogUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the configured backend.
// The provided context is used for the initial readiness check and migrations.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: DefaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("devhabit: backend required (use WithRedis, WithValkey or WithSQLite)")
	}

	st, repo, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := st.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		st.Close()
		return nil, fmt.Errorf("devhabit: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, cfg.driver)
	if err != nil {
		st.Close()
		return nil, err
	}
	return wireClient(st, repo, cfg, obs), nil
}

func openBackend(ctx context.Context, cfg *clientConfig) (store, catalog, error) {
	switch cfg.driver {
	case driverRedis, driverValkey:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, nil, fmt.Errorf("devhabit: %s address required", cfg.driver)
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("devhabit: create %s store: %w", cfg.driver, err)
		}
		return s, blogrepo.New(s, cfg.keyPrefix), nil
	case driverSQLite:
		s, err := dbSQLite.Open(ctx, cfg.path, zap.NewNop())
		if err != nil {
			return nil, nil, fmt.Errorf("devhabit: open sqlite store: %w", err)
		}
		return s, blogrepo.NewSQL(s.DB()), nil
	default:
		return nil, nil, fmt.Errorf("devhabit: unknown driver %q", cfg.driver)
	}
}

func wireClient(st store, repo catalog, cfg *clientConfig, obs *observer) *Client {
	var searchOpts []searchuc.Option
	if cfg.owner != "" {
		searchOpts = append(searchOpts, searchuc.WithOwner(cfg.owner))
	}

	return &Client{
		store:     st,
		searchSvc: searchuc.New(repo, searchOpts...),
		blogSvc:   bloguc.New(repo),
		healthSvc: healthuc.New(st),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Blogs returns the catalog maintenance service.
func (c *Client) Blogs() *BlogService {
	return &BlogService{svc: c.blogSvc, obs: c.obs}
}
