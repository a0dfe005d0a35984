package service

import (
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts payment lifecycle events. A nil *Metrics records nothing.
type Metrics struct {
	submitted   *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetrics registers the payment collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "payments",
			Name:      "submitted_total",
			Help:      "Payment claims submitted, by category.",
		}, []string{"category"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "payments",
			Name:      "transitions_total",
			Help:      "Adjudication attempts, by target status and outcome.",
		}, []string{"to", "outcome"}),
	}
	reg.MustRegister(m.submitted, m.transitions)
	return m
}

func (m *Metrics) paymentSubmitted(c domain.PaymentCategory) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) paymentTransitioned(to domain.PaymentStatus, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(to), outcome).Inc()
}
