package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VariantBatchMetrics records the outcome of variant persistence batches and of
// each create/update/delete call inside them.
type VariantBatchMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	batches  *prometheus.CounterVec
}

// NewVariantBatchMetrics registers the variant batch metrics on the provided registerer.
func NewVariantBatchMetrics(reg prometheus.Registerer) *VariantBatchMetrics {
	if reg == nil {
		return &VariantBatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "variant_operation_duration_seconds",
		Help:    "Duration of individual variant persistence calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variant_operation_success",
		Help: "Successful variant persistence calls.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variant_operation_failure",
		Help: "Failed variant persistence calls.",
	}, []string{"op"})
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variant_batch_total",
		Help: "Variant batches by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, success, failure, batches)
	return &VariantBatchMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		batches:  batches,
	}
}

// ObserveDuration records the duration of one call.
func (m *VariantBatchMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func (m *VariantBatchMetrics) IncSuccess(op string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *VariantBatchMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncBatch counts a finished batch; outcome is "success" or "failure".
func (m *VariantBatchMetrics) IncBatch(outcome string) {
	if m == nil || m.batches == nil {
		return
	}
	m.batches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
