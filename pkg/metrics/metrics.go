package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DirectoryMetrics instruments the provider search path.
type DirectoryMetrics struct {
	SearchQueries    prometheus.Counter
	SearchCacheHits  prometheus.Counter
	SearchResultSize prometheus.Histogram
}

// NewDirectoryMetrics creates and registers the search metrics.
func NewDirectoryMetrics(namespace, subsystem string) *DirectoryMetrics {
	return &DirectoryMetrics{
		SearchQueries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_queries_total",
			Help:      "Total number of directory search queries",
		}),
		SearchCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_cache_hits_total",
			Help:      "Total number of provider list cache hits",
		}),
		SearchResultSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_result_size",
			Help:      "Number of providers returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
}

// VerificationMetrics instruments the verification lifecycle.
type VerificationMetrics struct {
	Submissions prometheus.Counter
	Reviews     *prometheus.CounterVec
}

// NewVerificationMetrics creates and registers the verification metrics.
func NewVerificationMetrics(namespace, subsystem string) *VerificationMetrics {
	return &VerificationMetrics{
		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "verification_submissions_total",
			Help:      "Total number of verification requests submitted",
		}),
		Reviews: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "verification_reviews_total",
			Help:      "Total number of verification reviews by decision",
		}, []string{"decision"}),
	}
}

// OutboxMetrics instruments the outbox drain in the worker process.
type OutboxMetrics struct {
	EventsProcessed   prometheus.Counter
	EventsFailed      prometheus.Counter
	ProcessingLatency prometheus.Histogram
	Retries           *prometheus.CounterVec
	PollOperations    *prometheus.CounterVec
}

// NewOutboxMetrics creates and registers the outbox processor metrics.
func NewOutboxMetrics(namespace, subsystem string) *OutboxMetrics {
	return &OutboxMetrics{
		EventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		EventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		Retries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_retry_attempts_total",
			Help:      "Total number of retry attempts for outbox events",
		}, []string{"event_type"}),
		PollOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_poll_operations_total",
			Help:      "Outbox poll queries by status",
		}, []string{"operation", "status"}),
	}
}
