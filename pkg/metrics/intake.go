package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IntakeMetrics records the public order submission pipeline.
type IntakeMetrics struct {
	submitted *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	uploads   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewIntakeMetrics registers the order intake metrics on the provided registerer.
func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	if reg == nil {
		return &IntakeMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders accepted through the public intake endpoint.",
	}, []string{"session_code"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order submissions rejected before persistence.",
	}, []string{"reason"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_image_uploads_total",
		Help: "Order image upload attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_submit_duration_seconds",
		Help:    "End-to-end duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(submitted, rejected, uploads, duration)
	return &IntakeMetrics{
		submitted: submitted,
		rejected:  rejected,
		uploads:   uploads,
		duration:  duration,
	}
}

// IncSubmitted increments the accepted order counter for a session code.
func (m *IntakeMetrics) IncSubmitted(sessionCode string) {
	if m == nil || m.submitted == nil {
		return
	}
	m.submitted.WithLabelValues(normalizeLabel(sessionCode)).Inc()
}

// IncRejected increments the rejection counter with the given reason.
func (m *IntakeMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncUpload records an image upload attempt outcome ("ok" or "failed").
func (m *IntakeMetrics) IncUpload(outcome string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSubmitDuration records how long a submission took.
func (m *IntakeMetrics) ObserveSubmitDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
