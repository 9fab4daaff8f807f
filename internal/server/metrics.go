package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stableex/sx.dmdvaults/internal/core/vault"
)

const metricsNamespace = "dmdvaults"

// Metrics holds the request and gate collectors of one server. Each
// server owns its registry so several can live in one process.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	gate      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Total oracle requests by method, transport and result code.",
		}, []string{"method", "transport", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of oracle requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "gate_decisions_total",
			Help:      "Quotes by vault and withdrawal gate outcome.",
		}, []string{"vault", "reason"}),
	}
	registry.MustRegister(
		m.requests,
		m.durations,
		m.gate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observeRequest(method, transport, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, transport, code).Inc()
	m.durations.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeGate(id vault.ID, reason vault.GateReason) {
	m.gate.WithLabelValues(id.String(), string(reason)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
