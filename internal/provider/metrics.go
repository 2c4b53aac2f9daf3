package provider

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marginalia",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Routed generation requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	fallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marginalia",
			Subsystem: "provider",
			Name:      "fallback_total",
			Help:      "On-device failures retried against the cloud provider",
		},
	)

	chunkedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marginalia",
			Subsystem: "provider",
			Name:      "chunked_requests_total",
			Help:      "Requests submitted as section-scoped excerpts",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, fallbackTotal, chunkedTotal)
}
