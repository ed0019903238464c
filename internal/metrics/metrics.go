package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gate decisions
const (
	DecisionVerified = "verified"
	DecisionPublic   = "public"
	DecisionRejected = "rejected"
)

// Login results
const (
	LoginSucceeded = "succeeded"
	LoginFailed    = "failed"
	LoginError     = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	gateDecisions *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// New registers collectors on a private registry, so several instances may live in one process
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		gateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_gate_decisions_total",
				Help: "Authentication gate decisions by outcome and token failure reason.",
			},
			[]string{"decision", "reason"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Login attempts by result.",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.gateDecisions,
		m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) ObserveGate(decision string, reason string) {
	m.gateDecisions.WithLabelValues(decision, reason).Inc()
}

func (m *Metrics) ObserveLogin(result string) {
	m.logins.WithLabelValues(result).Inc()
}

// Handler exposes collected metrics in prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
