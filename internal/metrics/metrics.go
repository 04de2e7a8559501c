package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the recognition service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPRequestSize       prometheus.HistogramVec
	HTTPResponseSize      prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal         prometheus.CounterVec
	CacheMissesTotal       prometheus.CounterVec
	CacheOperationsTotal   prometheus.CounterVec
	CacheOperationDuration prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Database metrics
	DatabaseQueryDuration   prometheus.HistogramVec
	DatabaseQueriesTotal    prometheus.CounterVec
	DatabaseConnectionsOpen prometheus.GaugeVec

	// Redis metrics
	RedisOperationDuration prometheus.HistogramVec
	RedisOperationsTotal   prometheus.CounterVec

	// Recognition-domain metrics
	RecognitionRequestsTotal    prometheus.CounterVec
	RecognitionDuration         prometheus.HistogramVec
	RecognitionConfidence       prometheus.Histogram
	RecognitionNoMatchTotal     prometheus.Counter

	// Vector-index metrics
	VectorQueryDuration  prometheus.HistogramVec
	VectorUpsertDuration prometheus.HistogramVec
	VectorBackendErrors  prometheus.CounterVec

	// Ingestion metrics
	IngestionSongsTotal    prometheus.CounterVec
	IngestionBatchDuration prometheus.Histogram

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),
			CacheOperationsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_operations_total",
					Help: "Total number of cache operations",
				},
				[]string{"operation", "cache_name"},
			),
			CacheOperationDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "cache_operation_duration_seconds",
					Help:    "Cache operation latency in seconds",
					Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
				},
				[]string{"operation", "cache_name"},
			),

			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			DatabaseQueryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "database_query_duration_seconds",
					Help:    "Database query latency in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"query_type", "table"},
			),
			DatabaseQueriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "database_queries_total",
					Help: "Total number of database queries",
				},
				[]string{"query_type", "table", "status"},
			),
			DatabaseConnectionsOpen: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "database_connections_open",
					Help: "Number of currently open database connections",
				},
				[]string{"database"},
			),

			RedisOperationDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "redis_operation_duration_seconds",
					Help:    "Redis operation latency in seconds",
					Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
				},
				[]string{"operation", "key_pattern"},
			),
			RedisOperationsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "redis_operations_total",
					Help: "Total number of Redis operations",
				},
				[]string{"operation", "status"},
			),

			RecognitionRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recognition_requests_total",
					Help: "Total number of recognition attempts by outcome",
				},
				[]string{"outcome"}, // match, no_match, error
			),
			RecognitionDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "recognition_duration_seconds",
					Help:    "End-to-end recognition latency in seconds",
					Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
				},
				[]string{"outcome"},
			),
			RecognitionConfidence: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "recognition_confidence",
					Help:    "Confidence score of successful recognitions",
					Buckets: prometheus.LinearBuckets(0.8, 0.02, 10),
				},
			),
			RecognitionNoMatchTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "recognition_no_match_total",
					Help: "Total number of recognition attempts with no match above threshold",
				},
			),

			VectorQueryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "vector_query_duration_seconds",
					Help:    "Vector index query latency in seconds",
					Buckets: []float64{.01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"status"},
			),
			VectorUpsertDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "vector_upsert_duration_seconds",
					Help:    "Vector index upsert latency in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"status"},
			),
			VectorBackendErrors: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "vector_backend_errors_total",
					Help: "Total number of vector backend errors by operation",
				},
				[]string{"operation"},
			),

			IngestionSongsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ingestion_songs_total",
					Help: "Total number of songs ingested by outcome",
				},
				[]string{"outcome"},
			),
			IngestionBatchDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "ingestion_batch_duration_seconds",
					Help:    "Batch ingestion latency in seconds",
					Buckets: []float64{.5, 1, 5, 10, 30, 60},
				},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance, initializing it if needed.
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
