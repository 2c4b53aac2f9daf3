package lifecycle

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marginalia",
			Subsystem: "lifecycle",
			Name:      "model_loads_total",
			Help:      "Total model load attempts by outcome",
		},
		[]string{"outcome"},
	)

	loadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marginalia",
			Subsystem: "lifecycle",
			Name:      "model_load_duration_seconds",
			Help:      "Duration of successful model loads in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, loadDuration)
}
