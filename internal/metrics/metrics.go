// Package metrics exposes prometheus counters for persistence and view events.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application counters and the registry they live in.
type Metrics struct {
	Registry            *prometheus.Registry
	Saves               prometheus.Counter
	PersistenceFailures *prometheus.CounterVec
	Actions             *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planerly",
			Name:      "document_saves_total",
			Help:      "Projects documents written to storage.",
		}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planerly",
			Name:      "persistence_failures_total",
			Help:      "Persistence operations that degraded, by operation and reason.",
		}, []string{"operation", "reason"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planerly",
			Name:      "view_actions_total",
			Help:      "View events handled, by action and outcome.",
		}, []string{"action", "outcome"}),
	}
	m.Registry.MustRegister(m.Saves, m.PersistenceFailures, m.Actions)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveSave counts a successful save.
func (m *Metrics) ObserveSave() {
	if m == nil {
		return
	}
	m.Saves.Inc()
}

// ObservePersistenceFailure counts a degraded save, load or clear.
func (m *Metrics) ObservePersistenceFailure(operation, reason string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(operation, reason).Inc()
}

// ObserveAction counts a handled view event.
func (m *Metrics) ObserveAction(action, outcome string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(action, outcome).Inc()
}
