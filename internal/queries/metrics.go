package queries

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the dispatch and batch collectors.
type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
	batches    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		dispatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "queries_dispatch_total",
			Help: "Query dispatches by query type and outcome.",
		}, []string{"query_type", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "queries_dispatch_duration_seconds",
			Help:    "Wall-clock duration of query dispatches.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"query_type"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "queries_completion_in_flight",
			Help: "Completion calls currently in flight.",
		}),
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "queries_batch_total",
			Help: "Batches run by execution mode.",
		}, []string{"mode"}),
	}
}

func (m *Metrics) observe(r Result, elapsed time.Duration) {
	outcome := "success"
	if r.Failed() {
		outcome = "error"
	}
	m.dispatches.WithLabelValues(string(r.QueryType), outcome).Inc()
	m.duration.WithLabelValues(string(r.QueryType)).Observe(elapsed.Seconds())
}
