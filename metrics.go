package transmem

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for one Memory: a struct
// of pre-built collectors handed to promauto.With(registry) once at
// startup.
type Metrics struct {
	WritesAccepted  prometheus.Counter
	WritesRejected  *prometheus.CounterVec // reason: stale, self_loop
	Warnings        *prometheus.CounterVec // kind: non_normal_rotation
	Queries         *prometheus.CounterVec // op: transform_at, best_transform, chained_transform
	QueryErrors     *prometheus.CounterVec // reason: invalid_query, no_such_link
	BestTimeShiftMs prometheus.Histogram   // |chosen - requested| in milliseconds
}

// InitMetrics registers the transmem metrics against registry (or the
// default registerer when registry is nil) and returns the collectors
// to pass to WithMetrics. This should be called once at startup, before
// any Memory built with the resulting *Metrics starts serving traffic.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	return &Metrics{
		WritesAccepted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "transmem_writes_accepted_total",
			Help: "Total number of Connect calls that were accepted into an edge's history.",
		}),
		WritesRejected: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "transmem_writes_rejected_total",
			Help: "Total number of Connect calls rejected, by reason.",
		}, []string{"reason"}),
		Warnings: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "transmem_warnings_total",
			Help: "Total number of non-fatal ingress warnings, by kind.",
		}, []string{"kind"}),
		Queries: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "transmem_queries_total",
			Help: "Total number of read queries, by operation.",
		}, []string{"op"}),
		QueryErrors: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "transmem_query_errors_total",
			Help: "Total number of read queries that returned an error, by reason.",
		}, []string{"reason"}),
		BestTimeShiftMs: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "transmem_best_time_shift_milliseconds",
			Help:    "Absolute difference between the requested and chosen timestamp in BestTransform.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
	}
}
