/*
The metrics package defines the prometheus collectors trailhead records to.

A nil *Metrics records nothing, so callers never need to check whether metrics are enabled.
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trailhead"

// Transports label what kind of connection a metric describes.
const (
	TransportHTTP   = "http"
	TransportSocket = "socket"
)

// Metrics holds the collectors trailhead records to.
type Metrics struct {
	Dispatched      *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	Reloads         *prometheus.CounterVec
	Sessions        prometheus.Gauge
	UnhandledErrors *prometheus.CounterVec
}

// New constructs a *Metrics, registering every collector with reg.
// A nil reg leaves the collectors unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatched_total",
			Help:      "Requests dispatched to a handler module, by role and method.",
		}, []string{"role", "method"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in handler module operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"role", "method"}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_reloads_total",
			Help:      "Handler modules reloaded after their file changed.",
		}, []string{"result"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "socket_sessions",
			Help:      "Open WebSocket sessions.",
		}),
		UnhandledErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unhandled_errors_total",
			Help:      "Unhandled errors reported to error listeners, by transport.",
		}, []string{"transport"}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.Dispatched, m.Duration, m.Reloads, m.Sessions, m.UnhandledErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Dispatch records one call to a handler module operation that began at start.
func (m *Metrics) Dispatch(role, method string, start time.Time) {
	if m == nil {
		return
	}

	m.Dispatched.WithLabelValues(role, method).Inc()
	m.Duration.WithLabelValues(role, method).Observe(time.Since(start).Seconds())
}

// Reload records a reload attempt.
func (m *Metrics) Reload(err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.Reloads.WithLabelValues(result).Inc()
}

// SessionOpened records a new WebSocket session.
// The returned func records it closing.
func (m *Metrics) SessionOpened() func() {
	if m == nil {
		return func() {}
	}

	m.Sessions.Inc()
	return m.Sessions.Dec
}

// Unhandled records an unhandled error on transport.
func (m *Metrics) Unhandled(transport string) {
	if m == nil {
		return
	}

	m.UnhandledErrors.WithLabelValues(transport).Inc()
}
