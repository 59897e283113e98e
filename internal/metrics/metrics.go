// Package metrics exposes Prometheus instrumentation for authentication,
// authorization checks and store queries.
//
// All recording methods are nil-safe: a nil *Metrics is a no-op, so
// components take an optional *Metrics without branching.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sqlauth"

// Query outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Metrics struct {
	// authentications counts Authenticate calls by result.
	// Labels: result=[success, invalid_credentials, missing_field,
	// ambiguous_identity, backend_unavailable]
	authentications *prometheus.CounterVec

	// checks counts role/permission checks.
	// Labels: kind=[role, permission, query], result=[granted, denied, error]
	checks *prometheus.CounterVec

	// queryDuration observes executor round trips.
	// Labels: outcome=[ok, error]
	queryDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. If reg is nil the
// collectors are created but not registered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authentications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authentications_total",
			Help:      "Total authentication attempts by result",
		}, []string{"result"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_checks_total",
			Help:      "Total role and permission checks by kind and result",
		}, []string{"kind", "result"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Store query latency including connection acquisition",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.authentications, m.checks, m.queryDuration)
	}

	return m
}

// ObserveAuthentication records one Authenticate outcome.
func (m *Metrics) ObserveAuthentication(result string) {
	if m == nil {
		return
	}
	m.authentications.WithLabelValues(result).Inc()
}

// ObserveCheck records one authorization check outcome.
func (m *Metrics) ObserveCheck(kind, result string) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(kind, result).Inc()
}

// ObserveQuery records the duration of one executor call.
func (m *Metrics) ObserveQuery(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
