package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions              *prometheus.CounterVec
	TrackedBuckets         prometheus.Gauge
	CleanupRunsTotal       *prometheus.CounterVec
	CleanupBucketsRemoved  prometheus.Counter
	CleanupDurationSeconds prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_ratelimit_decisions_total",
			Help: "Rate limit decisions by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		TrackedBuckets: f.NewGauge(prometheus.GaugeOpts{
			Name: "paraiso_ratelimit_tracked_buckets",
			Help: "Buckets held after the last cleanup run",
		}),
		CleanupRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paraiso_ratelimit_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		}, []string{"status"}),
		CleanupBucketsRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "paraiso_ratelimit_cleanup_buckets_removed_total",
			Help: "Idle buckets removed by the cleanup worker",
		}),
		CleanupDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name: "paraiso_ratelimit_cleanup_duration_seconds",
			Help: "Duration of cleanup runs in seconds",
		}),
	}
}

func (m *Metrics) RecordDecision(class string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	m.Decisions.WithLabelValues(class, outcome).Inc()
}
