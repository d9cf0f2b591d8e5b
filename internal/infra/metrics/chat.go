package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		chatTurnsTotal,
		quotaBlocksTotal,
		demoTamperTotal,
		searchLookupsTotal,
	)
}

var (
	chatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Resolved chat turns by surface (auth/demo) and outcome (completed/limited/fallback/noop).",
		},
		[]string{"surface", "outcome"},
	)

	quotaBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_blocks_total",
			Help: "Turns rejected by the quota gate, labeled by which cap fired.",
		},
		[]string{"cap"}, // 'text', 'voice', 'demo'
	)

	demoTamperTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "demo_tamper_total",
			Help: "Demo records that failed the signature check.",
		},
	)

	searchLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_lookups_total",
			Help: "Instant-answer lookups by result (hit/miss/error).",
		},
		[]string{"result"},
	)
)

func IncTurn(surface, outcome string) {
	chatTurnsTotal.WithLabelValues(norm(surface), norm(outcome)).Inc()
}

func IncQuotaBlock(cap string) {
	quotaBlocksTotal.WithLabelValues(norm(cap)).Inc()
}

func IncDemoTamper() { demoTamperTotal.Inc() }

func IncSearchLookup(result string) {
	searchLookupsTotal.WithLabelValues(norm(result)).Inc()
}
