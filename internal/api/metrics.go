package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records dispatcher activity.
type Metrics struct {
	requests *prometheus.CounterVec
	inflight prometheus.Gauge
	duration *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them with reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "servicepro",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API calls by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "servicepro",
				Subsystem: "api",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight API calls.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "servicepro",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of API calls that reached the network.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"method"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.inflight, m.duration)
	}
	return m
}

func (m *Metrics) observe(method, outcome string, took time.Duration) {
	m.requests.WithLabelValues(method, outcome).Inc()
	if took > 0 {
		m.duration.WithLabelValues(method).Observe(took.Seconds())
	}
}
