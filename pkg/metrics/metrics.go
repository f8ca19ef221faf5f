// Package metrics exposes link activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "paneldue"

// Metrics holds the link collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Requests       *prometheus.CounterVec
	Responses      *prometheus.CounterVec
	Telegrams      prometheus.Counter
	UnknownFields  prometheus.Counter
	Resyncs        prometheus.Counter
	Latency        prometheus.Histogram
	LinkState      *prometheus.GaugeVec
	DirtySubsystem *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Requests sent to the controller by kind.",
			},
			[]string{"kind"},
		),
		Responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "responses_total",
				Help:      "Complete responses received by subsystem key.",
			},
			[]string{"subsystem"},
		),
		Telegrams: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "telegrams_total",
			Help:      "Telegrams applied to the object model.",
		}),
		UnknownFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "unknown_fields_total",
			Help:      "Values whose path did not resolve to a field.",
		}),
		Resyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "resyncs_total",
			Help:      "Controller restarts detected from an uptime rollback.",
		}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "response_latency_seconds",
			Help:      "Time from request to complete response.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 4},
		}),
		LinkState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "link_state",
				Help:      "1 for the current connection state.",
			},
			[]string{"state"},
		),
		DirtySubsystem: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "subsystem_dirty",
				Help:      "1 while a subsystem waits for a scoped fetch.",
			},
			[]string{"subsystem"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Responses, m.Telegrams, m.UnknownFields,
			m.Resyncs, m.Latency, m.LinkState, m.DirtySubsystem)
	}
	return m
}

// Request counts a sent request.
func (m *Metrics) Request(kind string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(kind).Inc()
}

// Response counts a complete response with its value counts.
func (m *Metrics) Response(subsystem string, values, unknown int) {
	if m == nil {
		return
	}
	m.Responses.WithLabelValues(subsystem).Inc()
	m.Telegrams.Add(float64(values))
	m.UnknownFields.Add(float64(unknown))
}

// ObserveLatency records a response latency in seconds.
func (m *Metrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.Latency.Observe(seconds)
}

// Resync counts a detected controller restart.
func (m *Metrics) Resync() {
	if m == nil {
		return
	}
	m.Resyncs.Inc()
}

// SetLinkState marks state as the current connection state.
func (m *Metrics) SetLinkState(state string) {
	if m == nil {
		return
	}
	m.LinkState.Reset()
	m.LinkState.WithLabelValues(state).Set(1)
}

// SetDirty records the dirty flag of a subsystem.
func (m *Metrics) SetDirty(subsystem string, dirty bool) {
	if m == nil {
		return
	}
	v := 0.0
	if dirty {
		v = 1
	}
	m.DirtySubsystem.WithLabelValues(subsystem).Set(v)
}
