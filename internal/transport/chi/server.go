package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/devhabit/devhabit/internal/domain"
	"github.com/devhabit/devhabit/internal/domain/search/request"
	logpkg "github.com/devhabit/devhabit/internal/logger"
	healthuc "github.com/devhabit/devhabit/internal/usecase/health"
	searchuc "github.com/devhabit/devhabit/internal/usecase/search"
)

// Default paging limits of the public API.
const (
	DefaultPageSize = 10
	DefaultMaxPage  = 100
)

// searchParamNames are the accepted names of the search text, in priority order.
var searchParamNames = []string{"query", "search", "q"}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the anonymous, read-only blog API.
type Server struct {
	search          searchuc.Searcher
	health          HealthChecker
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searchuc.Searcher, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		search:          search,
		health:          health,
		logger:          logger,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     DefaultMaxPage,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
			sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		},
	}
}

// WithPagination overrides the default and maximum page size.
// Values outside 1..request.MaxPageSize are ignored.
func (s *Server) WithPagination(defaultSize, maxSize int) *Server {
	if maxSize > 0 && maxSize <= request.MaxPageSize {
		s.maxPageSize = maxSize
	}
	if defaultSize > 0 && defaultSize <= s.maxPageSize {
		s.defaultPageSize = defaultSize
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Route("/public", func(r gochi.Router) {
		r.Get("/search", s.SearchBlogs)
		r.Get("/blogs", s.SearchBlogs)
		r.Get("/documents/{id}", s.GetBlog)
		r.Get("/blogs/{id}", s.GetBlog)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Handler returns a router with the API mounted and no middleware.
func (s *Server) Handler() http.Handler {
	r := gochi.NewRouter()
	s.Routes(r)
	return r
}

// SearchBlogs handles GET /public/search and GET /public/blogs.
func (s *Server) SearchBlogs(w http.ResponseWriter, r *http.Request) {
	req, err := s.bindSearch(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(&page))
}

// GetBlog handles GET /public/documents/{id} and GET /public/blogs/{id}.
func (s *Server) GetBlog(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "id")
	b, err := s.search.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogToItem(&b, nil))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, reportToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindSearch reads query, page and pageSize. A pageSize above the configured
// maximum is clamped; malformed or non-positive numbers are rejected.
func (s *Server) bindSearch(r *http.Request) (request.Request, error) {
	params := r.URL.Query()

	var text string
	for _, name := range searchParamNames {
		var v *string
		if err := runtime.BindQueryParameter("form", true, false, name, params, &v); err != nil {
			return request.Request{}, invalidParam(name, err)
		}
		if v != nil && strings.TrimSpace(*v) != "" {
			text = *v
			break
		}
	}

	page := request.DefaultPage
	var pagePtr *int
	if err := runtime.BindQueryParameter("form", true, false, "page", params, &pagePtr); err != nil {
		return request.Request{}, invalidParam("page", err)
	}
	if pagePtr != nil {
		page = *pagePtr
	}

	pageSize := s.defaultPageSize
	var sizePtr *int
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", params, &sizePtr); err != nil {
		return request.Request{}, invalidParam("pageSize", err)
	}
	if sizePtr != nil {
		pageSize = min(*sizePtr, s.maxPageSize)
	}

	return request.New(text, page, pageSize)
}

func invalidParam(name string, err error) error {
	return fmt.Errorf("%w: parameter %s: %v", domain.ErrInvalidQuery, name, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrNotFound, domain.ErrInvalidQuery} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Debug("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
