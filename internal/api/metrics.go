package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered per server so tests can use private registries.
type metrics struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	points      prometheus.Counter
	limited     prometheus.Counter
	stored      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xckit_evaluations_total",
			Help: "Evaluation requests by result code",
		}, []string{"code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xckit_evaluation_duration_seconds",
			Help:    "Engine time per evaluation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"spin", "deriv"}),
		points: f.NewCounter(prometheus.CounterOpts{
			Name: "xckit_grid_points_total",
			Help: "Grid points evaluated",
		}),
		limited: f.NewCounter(prometheus.CounterOpts{
			Name: "xckit_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		stored: f.NewGauge(prometheus.GaugeOpts{
			Name: "xckit_stored_results",
			Help: "Evaluation results held for retrieval",
		}),
	}
}
