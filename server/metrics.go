package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes recorded on the request counter.
const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

type metrics struct {
	requests  *prometheus.CounterVec
	fallbacks prometheus.Counter
	duration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "complydesk",
			Name:      "generate_requests_total",
			Help:      "Kit generation requests by outcome.",
		}, []string{"outcome"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "complydesk",
			Name:      "outline_fallbacks_total",
			Help:      "Model replies that could not be parsed and were wrapped in the fallback outline.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "complydesk",
			Name:      "generate_duration_seconds",
			Help:      "Time spent generating an outline and document, model call included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
	}
	reg.MustRegister(m.requests, m.fallbacks, m.duration)
	return m
}
