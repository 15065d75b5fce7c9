package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeTogglesTotal counts like toggles by target type and outcome.
	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mafather_like_toggles_total",
		Help: "Total number of like toggles by target type and outcome",
	}, []string{"target_type", "outcome"})

	// CommentsWrittenTotal counts comment mutations by kind.
	CommentsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mafather_comments_written_total",
		Help: "Total number of comment writes by kind",
	}, []string{"kind"})

	// PostViewsTotal counts post detail reads (each read increments the view counter).
	PostViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mafather_post_views_total",
		Help: "Total number of post detail reads",
	})

	// ChatTokensTotal counts chat tokens recorded against sessions.
	ChatTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mafather_chat_tokens_total",
		Help: "Total number of chat tokens recorded, by message role",
	}, []string{"role"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mafather_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mafather_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
