// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studyhub"

// Metrics groups every collector the service updates. A nil *Metrics is a no-op.
type Metrics struct {
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
	sweepRuns            *prometheus.CounterVec
	sweepChanged         *prometheus.CounterVec
	sweepLastSuccess     prometheus.Gauge
	notificationMutation *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "sweeps_total",
			Help:      "Program lifecycle sweeps by outcome.",
		}, []string{"result"}),
		sweepChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "programs_changed_total",
			Help:      "Programs whose active flag was flipped, by sweep step.",
		}, []string{"step"}),
		sweepLastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sweep.",
		}),
		notificationMutation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "mutations_total",
			Help:      "Notification mutations by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.sweepRuns,
		m.sweepChanged,
		m.sweepLastSuccess,
		m.notificationMutation,
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// SweepSucceeded records a completed sweep and how many rows each step changed.
func (m *Metrics) SweepSucceeded(deactivated, activated int64, at time.Time) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues("success").Inc()
	m.sweepChanged.WithLabelValues("deactivate").Add(float64(deactivated))
	m.sweepChanged.WithLabelValues("activate").Add(float64(activated))
	m.sweepLastSuccess.Set(float64(at.Unix()))
}

// SweepFailed records a sweep that returned an error or panicked.
func (m *Metrics) SweepFailed() {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues("failure").Inc()
}

// NotificationMutated counts one mark-read, mark-all-read, archive or create.
func (m *Metrics) NotificationMutated(op string) {
	if m == nil {
		return
	}
	m.notificationMutation.WithLabelValues(op).Inc()
}
