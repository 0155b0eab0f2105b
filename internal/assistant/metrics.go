package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conciergeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fgperfume_concierge_requests_total",
		Help: "Concierge queries by outcome",
	}, []string{"outcome"})

	conciergeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fgperfume_concierge_request_duration_seconds",
		Help:    "Concierge pipeline latency in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
	})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fgperfume_provider_failures_total",
		Help: "Failed provider calls by provider and stage",
	}, []string{"provider", "stage"})
)
