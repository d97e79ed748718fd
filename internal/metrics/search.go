package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search mode label values.
const (
	ModeRanked = "ranked"
	ModeRecent = "recent"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devhabit",
			Name:      "search_requests_total",
			Help:      "Total number of public search requests",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "devhabit",
			Name:      "search_duration_seconds",
			Help:      "Public search duration in seconds, including the document fetch",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "devhabit",
			Name:      "search_candidates",
			Help:      "Number of blogs matching a search before pagination",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidates)
	searchMetricsRegistered = true
}
