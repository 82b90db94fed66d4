// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters the payment flow emits. All methods are
// nil-receiver safe so tests can wire a coordinator without a registry.
type Metrics struct {
	initiated         *prometheus.CounterVec
	reconciliations   *prometheus.CounterVec
	sideEffects       *prometheus.CounterVec
	signatureFailures prometheus.Counter
	verifyFailures    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		initiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpay",
			Name:      "payments_initiated_total",
			Help:      "Payment intents initiated, by resource kind.",
		}, []string{"kind"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpay",
			Name:      "reconciliations_total",
			Help:      "Reconciliation attempts, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		sideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpay",
			Name:      "side_effects_applied_total",
			Help:      "Side-effect applications that won the conditional write, by kind.",
		}, []string{"kind"}),
		signatureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventpay",
			Name:      "webhook_signature_failures_total",
			Help:      "Webhook deliveries rejected for an invalid signature.",
		}),
		verifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventpay",
			Name:      "gateway_verify_failures_total",
			Help:      "Verify calls that failed or timed out and were reported as pending.",
		}),
	}

	reg.MustRegister(m.initiated, m.reconciliations, m.sideEffects, m.signatureFailures, m.verifyFailures)
	return m
}

func (m *Metrics) PaymentInitiated(kind string) {
	if m == nil {
		return
	}
	m.initiated.WithLabelValues(kind).Inc()
}

func (m *Metrics) Reconciled(channel, outcome string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) SideEffectsApplied(kind string) {
	if m == nil {
		return
	}
	m.sideEffects.WithLabelValues(kind).Inc()
}

func (m *Metrics) SignatureFailure() {
	if m == nil {
		return
	}
	m.signatureFailures.Inc()
}

func (m *Metrics) VerifyFailure() {
	if m == nil {
		return
	}
	m.verifyFailures.Inc()
}
