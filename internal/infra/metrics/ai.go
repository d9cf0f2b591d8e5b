package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCallsLatencyMs,
		aiFallbacksTotal,
	)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 20000},
		},
		[]string{"backend", "success"},
	)

	aiFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Turns answered by a canned fallback line instead of the completion service.",
		},
		[]string{"surface"},
	)
)

func ObserveCompletion(backend string, latencyMs int, success bool) {
	aiCallsLatencyMs.WithLabelValues(norm(backend), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncFallback(surface string) {
	aiFallbacksTotal.WithLabelValues(norm(surface)).Inc()
}
