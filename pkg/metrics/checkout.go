package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order-placement outcomes and collaborator latency.
type CheckoutMetrics struct {
	submissions    *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"result"})
	backendLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of grocery backend calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(submissions, backendLatency)
	return &CheckoutMetrics{
		submissions:    submissions,
		backendLatency: backendLatency,
	}
}

// IncSubmission increments the submission counter for the given outcome.
func (c *CheckoutMetrics) IncSubmission(result string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveBackend records the duration of a backend call.
func (c *CheckoutMetrics) ObserveBackend(operation string, duration time.Duration) {
	if c == nil || c.backendLatency == nil {
		return
	}
	c.backendLatency.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
