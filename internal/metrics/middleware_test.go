package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/public/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/public/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/public/search", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
	if bytes := testutil.ToFloat64(httpResponseBytes.WithLabelValues("/public/search")); bytes < 2 {
		t.Errorf("expected response bytes >= 2, got %f", bytes)
	}
}

func TestMiddleware_RoutePatternLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/public/documents/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"b_1", "b_2"} {
		req := httptest.NewRequest(http.MethodGet, "/public/documents/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/public/documents/{id}", "404"))
	if val < 2 {
		t.Errorf("expected both requests under the route pattern, got %f", val)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/bad", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/error", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/silent", func(_ http.ResponseWriter, _ *http.Request) {})

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{"/ok", "200"},
		{"/bad", "400"},
		{"/error", "500"},
		{"/silent", "200"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.expectedStatus))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.path, tc.expectedStatus, val)
			}
		})
	}
}

func TestRouteLabel_OutsideRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
	if got := routeLabel(req); got != "unknown" {
		t.Errorf("routeLabel() = %q, want unknown", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/public/blogs/{id}", "/public/blogs/{id}"},
		{"/health", "/health"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()

	SearchRequestsTotal.WithLabelValues(ModeRanked, "ok").Inc()
	if v := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(ModeRanked, "ok")); v < 1 {
		t.Errorf("search_requests_total = %f", v)
	}
}
