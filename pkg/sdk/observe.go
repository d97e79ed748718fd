package devhabit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation label values.
const (
	opSearch = "search"
	opGet    = "get"
	opUpsert = "upsert"
	opImport = "import"
	opDelete = "delete"
	opPing   = "ping"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	hits       prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer, driver string) (*sdkMetrics, error) {
	constLabels := prometheus.Labels{"driver": driver}
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "devhabit",
			Subsystem:   "sdk",
			Name:        "operations_total",
			Help:        "Total SDK operations by type and status.",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "devhabit",
			Subsystem:   "sdk",
			Name:        "operation_duration_seconds",
			Help:        "SDK operation duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"operation"}),
		hits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "devhabit",
			Subsystem:   "sdk",
			Name:        "search_total_count",
			Help:        "Blogs matching a search before pagination.",
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
			ConstLabels: constLabels,
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.hits); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("devhabit: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("devhabit: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, driver string) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg, driver)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records one finished operation. Not-found is an expected outcome,
// counted as "not_found" and logged at debug.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	status := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	if status == "error" {
		o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
		return
	}
	o.logger.Debug("operation completed", "op", op, "status", status, "duration", dur)
}

func (o *observer) searched(totalCount int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.hits.Observe(float64(totalCount))
}

func (o *observer) warn(msg string, args ...any) {
	if o == nil || o.logger == nil {
		return
	}
	o.logger.Warn(msg, args...)
}
