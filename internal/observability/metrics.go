package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "togather_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "togather_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ServiceOperations counts workflow service calls by operation and outcome.
	ServiceOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "togather_service_operations_total",
		Help: "Total number of service operations by outcome",
	}, []string{"operation", "outcome"})

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "togather_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// RecordOperation increments the service counter. outcome is "ok" or an error code.
func RecordOperation(operation, outcome string) {
	ServiceOperations.WithLabelValues(operation, outcome).Inc()
}
