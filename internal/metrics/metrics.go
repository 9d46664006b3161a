// Package metrics exposes Prometheus collectors for the HTTP server and the
// reservation ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Breyner794/barber-shop/internal/reservation"
)

const namespace = "barbershop"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	reservations *prometheus.CounterVec
	conflicts    *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	removals     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "reservations_created_total",
			Help:      "Reservations created by site.",
		}, []string{"site_id"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "slot_conflicts_total",
			Help:      "Writes rejected because the slot was taken, by barber.",
		}, []string{"resource_id"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "state_transitions_total",
			Help:      "Reservation state changes.",
		}, []string{"from", "to"}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "reservations_removed_total",
			Help:      "Reservations deleted by an administrator.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration,
		m.reservations, m.conflicts, m.transitions, m.removals,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency. Unmatched routes are
// grouped under one label value.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Ledger returns an observer feeding the ledger counters.
func (m *Metrics) Ledger() reservation.Observer {
	return ledgerObserver{m}
}

type ledgerObserver struct {
	m *Metrics
}

func (o ledgerObserver) Created(r *reservation.Reservation) {
	o.m.reservations.WithLabelValues(r.SiteID).Inc()
}

func (o ledgerObserver) Conflict(resourceID string) {
	o.m.conflicts.WithLabelValues(resourceID).Inc()
}

func (o ledgerObserver) Transitioned(from, to reservation.State) {
	o.m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (o ledgerObserver) Removed() {
	o.m.removals.Inc()
}
