package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records settlement attempts by outcome.
type PaymentMetrics struct {
	duration *prometheus.HistogramVec
	attempts *prometheus.CounterVec
}

// NewPaymentMetrics registers the settlement metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of payment settlement attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_attempts_total",
		Help: "Payment settlement attempts by outcome code.",
	}, []string{"outcome"})
	reg.MustRegister(duration, attempts)
	return &PaymentMetrics{
		duration: duration,
		attempts: attempts,
	}
}

// ObserveSettlement records one settlement attempt with its outcome label.
func (p *PaymentMetrics) ObserveSettlement(outcome string, elapsed time.Duration) {
	if p == nil {
		return
	}
	label := normalizeLabel(outcome)
	if p.attempts != nil {
		p.attempts.WithLabelValues(label).Inc()
	}
	if p.duration != nil {
		p.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	}
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
