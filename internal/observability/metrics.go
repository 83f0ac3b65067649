// Package observability provides Prometheus metrics and OpenTelemetry tracing helpers.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glimpse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedBuilds counts feed assembly requests.
	FeedBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glimpse_feed_builds_total",
		Help: "Total number of feed assembly requests",
	})

	// BlobOperations counts blob store operations by backend and outcome.
	BlobOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_blob_operations_total",
		Help: "Total blob store operations by backend, operation and outcome",
	}, []string{"backend", "operation", "outcome"})

	// BlobSweepPurged counts soft-deleted posts fully purged by the sweeper.
	BlobSweepPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glimpse_blob_sweep_purged_total",
		Help: "Total number of soft-deleted posts purged by the blob sweeper",
	})
)

// InitMetrics creates the fiberprometheus middleware for HTTP metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
