package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_matches_created_total",
			Help: "Total number of match rows created, by type",
		},
		[]string{"type"},
	)

	matchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_score",
			Help:    "Final weight of created matches",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	batchRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_batch_runs_total",
			Help: "Total number of batch matching runs started",
		},
	)

	batchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_batch_run_duration_seconds",
			Help:    "Wall time of a full batch matching run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	batchUserFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_batch_user_failures_total",
			Help: "Users whose match creation failed inside a batch run",
		},
	)

	batchPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matching_batch_pool_size",
			Help: "Number of eligible users in the most recent batch run",
		},
	)
)

func RecordMatchCreated(matchType MatchType, score float64) {
	matchesCreatedTotal.WithLabelValues(string(matchType)).Inc()
	matchScores.Observe(score)
}

func RecordBatchRun(poolSize int) {
	batchRunsTotal.Inc()
	batchPoolSize.Set(float64(poolSize))
}

func RecordBatchDuration(d time.Duration) {
	batchRunDuration.Observe(d.Seconds())
}

func RecordBatchUserFailure() {
	batchUserFailuresTotal.Inc()
}
