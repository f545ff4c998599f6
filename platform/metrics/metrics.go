// Package metrics provides Prometheus instrumentation for MPIN evaluation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Evaluation outcomes by strength and code length
	Outcomes *prometheus.CounterVec

	// Triggered weakness reasons
	Reasons *prometheus.CounterVec

	// Candidates rejected by the format gate
	InvalidFormat prometheus.Counter

	// Per-candidate evaluation latency
	EvaluateLatency prometheus.Histogram

	// Batch sizes accepted by the batch endpoint
	BatchSize prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mpin_evaluations_total",
			Help: "Total MPIN evaluations by resulting strength and code length",
		}, []string{"strength", "length"}),

		Reasons: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mpin_weakness_reasons_total",
			Help: "Total weakness reasons triggered, by reason",
		}, []string{"reason"}),

		InvalidFormat: factory.NewCounter(prometheus.CounterOpts{
			Name: "mpin_invalid_format_total",
			Help: "Total candidates rejected because they are not 4 or 6 digits",
		}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mpin_evaluate_duration_seconds",
			Help:    "Duration of a single MPIN evaluation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mpin_batch_size",
			Help:    "Number of candidates per batch evaluation request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// IncrementOutcome records a completed evaluation and its reasons.
func (m *Metrics) IncrementOutcome(strength, length string, reasons []string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(strength, length).Inc()
	for _, reason := range reasons {
		m.Reasons.WithLabelValues(reason).Inc()
	}
}

// IncrementInvalidFormat records a format-gate rejection.
func (m *Metrics) IncrementInvalidFormat() {
	if m != nil {
		m.InvalidFormat.Inc()
	}
}

// ObserveEvaluateLatency records a single evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveBatchSize records how many candidates a batch carried.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
