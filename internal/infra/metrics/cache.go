package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequests) }

var cacheRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Cache lookups by entity and outcome.",
	},
	[]string{"entity", "outcome"}, // outcome: 'hit' | 'miss'
)

func IncCacheRequest(entity, outcome string) {
	cacheRequests.WithLabelValues(entity, outcome).Inc()
}
