// Package metrics exposes game outcome and session counters in the
// Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	outcomes       *prometheus.CounterVec
	reaction       *prometheus.HistogramVec
	badges         *prometheus.CounterVec
	activeSessions prometheus.Gauge
	droppedWrites  prometheus.Counter
}

// New builds a Metrics on its own registry, so several servers in one
// process do not collide.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmofox_outcomes_total",
			Help: "Finished targets by kind and outcome.",
		}, []string{"kind", "outcome"}),
		reaction: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cosmofox_reaction_seconds",
			Help:    "Time from target creation to a hit.",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 1, 1.5, 2, 3},
		}, []string{"kind"}),
		badges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmofox_badges_total",
			Help: "Badges awarded by id.",
		}, []string{"badge"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cosmofox_active_sessions",
			Help: "Connected game sessions.",
		}),
		droppedWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cosmofox_outcome_writes_dropped_total",
			Help: "Outcomes dropped because the database buffer was full.",
		}),
	}
	m.reg.MustRegister(
		m.outcomes,
		m.reaction,
		m.badges,
		m.activeSessions,
		m.droppedWrites,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveOutcome(ev events.OutcomeEvent) {
	m.outcomes.WithLabelValues(ev.Kind, ev.Outcome).Inc()
	if ev.Outcome == "hit" && ev.Reaction > 0 {
		m.reaction.WithLabelValues(ev.Kind).Observe(ev.Reaction.Seconds())
	}
}

func (m *Metrics) BadgeAwarded(id string) {
	m.badges.WithLabelValues(id).Inc()
}

func (m *Metrics) SessionOpened() { m.activeSessions.Inc() }
func (m *Metrics) SessionClosed() { m.activeSessions.Dec() }

func (m *Metrics) OutcomeWriteDropped() { m.droppedWrites.Inc() }

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
