package purge

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purgeDuration      *prometheus.HistogramVec
	purgedCaseInstance *prometheus.CounterVec
	purgeErrors        *prometheus.CounterVec

	prometheusMetricsInitOnce sync.Once
)

// initPrometheusMetrics registers the purge metrics with the default registry
// exactly once, however many Purgers are created.
func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	purgeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "casehistory_purge_duration_seconds",
			Help:    "Duration of top-level purge calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"mode"}, // "single" or "bulk"
	)

	purgedCaseInstance = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casehistory_purged_case_instances_total",
			Help: "Number of case instances submitted for deletion, sub-cases included",
		},
		[]string{"mode"},
	)

	purgeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casehistory_purge_errors_total",
			Help: "Number of failed top-level purge calls",
		},
		[]string{"mode", "code"},
	)
}

// observe records the outcome of one top-level purge call.
func observe(mode Mode, started time.Time, purged int, err error) {
	purgeDuration.WithLabelValues(string(mode)).Observe(time.Since(started).Seconds())
	if purged > 0 {
		purgedCaseInstance.WithLabelValues(string(mode)).Add(float64(purged))
	}
	if err != nil {
		purgeErrors.WithLabelValues(string(mode), string(errorCode(err))).Inc()
	}
}
