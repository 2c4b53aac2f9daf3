package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marginalia",
			Subsystem: "engine",
			Name:      "generations_total",
			Help:      "On-device generations by outcome",
		},
		[]string{"outcome"},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marginalia",
			Subsystem: "engine",
			Name:      "generation_duration_seconds",
			Help:      "Duration of successful on-device generations in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, generationDuration)
}
