// Package metrics exposes Prometheus collectors for the HTTP API and the
// inventory operations behind it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "instantbox"

// Metrics owns a private registry so several servers (and tests) can run
// in one process.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	events          *prometheus.CounterVec
	shots           prometheus.Counter
	syncs           *prometheus.CounterVec
	realtimeClients *prometheus.GaugeVec
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_milliseconds",
			Help:      "Time taken to serve an API request.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"route", "method", "code"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_events_total",
			Help:      "Entity change events published to realtime clients.",
		}, []string{"type"}),
		shots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shots_consumed_total",
			Help:      "Exposures recorded through the API.",
		}),
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Sync runs requested through the API, by outcome.",
		}, []string{"outcome"}),
		realtimeClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_clients",
			Help:      "Connected realtime clients by transport.",
		}, []string{"transport"}),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.events,
		m.shots,
		m.syncs,
		m.realtimeClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	m.requestDuration.
		WithLabelValues(route, method, strconv.Itoa(code)).
		Observe(float64(d) / float64(time.Millisecond))
}

// Event counts a published realtime event.
func (m *Metrics) Event(eventType string) {
	m.events.WithLabelValues(eventType).Inc()
}

// Shots counts consumed exposures.
func (m *Metrics) Shots(n int) {
	m.shots.Add(float64(n))
}

// Sync counts a sync run by outcome ("ok", "disabled", "error").
func (m *Metrics) Sync(outcome string) {
	m.syncs.WithLabelValues(outcome).Inc()
}

// RealtimeClients sets the connected client gauge for a transport.
func (m *Metrics) RealtimeClients(transport string, n int) {
	m.realtimeClients.WithLabelValues(transport).Set(float64(n))
}
