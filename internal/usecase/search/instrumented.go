package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devhabit/devhabit/internal/domain"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
	"github.com/devhabit/devhabit/internal/domain/search/request"
	"github.com/devhabit/devhabit/internal/domain/search/result"
	"github.com/devhabit/devhabit/internal/metrics"
)

// Searcher is the read contract shared by Service and InstrumentedService.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
	Get(ctx context.Context, id string) (domblog.Blog, error)
}

// InstrumentedService wraps a Searcher with logging and Prometheus metrics.
// metrics.RegisterSearchMetrics must have been called.
type InstrumentedService struct {
	inner  Searcher
	logger *zap.Logger
}

// NewInstrumented wraps inner with observability.
func NewInstrumented(inner Searcher, logger *zap.Logger) *InstrumentedService {
	return &InstrumentedService{inner: inner, logger: logger}
}

// Search delegates to the inner service and records mode, outcome and latency.
func (s *InstrumentedService) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	mode := metrics.ModeRecent
	if req.HasSearch() {
		mode = metrics.ModeRanked
	}

	start := time.Now()
	page, err := s.inner.Search(ctx, req)
	duration := time.Since(start)

	metrics.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "error").Inc()
		s.logger.Error("Search failed",
			zap.String("mode", mode),
			zap.Int("page", req.Page()),
			zap.Int("page_size", req.PageSize()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return result.Page{}, fmt.Errorf("search: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.SearchCandidates.Observe(float64(page.TotalCount()))

	s.logger.Debug("Search completed",
		zap.String("mode", mode),
		zap.Int("query_len", len(req.Search())),
		zap.Int("page", req.Page()),
		zap.Int("page_size", req.PageSize()),
		zap.Int("total_count", page.TotalCount()),
		zap.Int("returned", len(page.Items())),
		zap.Duration("duration", duration),
	)
	return page, nil
}

// Get delegates to the inner service; not-found is expected and logged at debug.
func (s *InstrumentedService) Get(ctx context.Context, id string) (domblog.Blog, error) {
	b, err := s.inner.Get(ctx, id)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Debug("Blog not found", zap.String("id", id))
	default:
		s.logger.Error("Get blog failed", zap.String("id", id), zap.Error(err))
	}
	return domblog.Blog{}, err
}
