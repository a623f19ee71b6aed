package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequests) }

var cacheRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "privacy_cache_requests_total",
		Help: "Cache lookups by entity and result.",
	},
	[]string{"entity", "result"}, // 'hit', 'miss'
)

func IncCacheRequest(entity, result string) {
	cacheRequests.WithLabelValues(norm(entity), norm(result)).Inc()
}
