// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "citydirectory"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RankedEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ranked_entities_total", Help: "Entities passed through proximity ranking"},
		[]string{"kind", "located"},
	)
	RankLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "rank_duration_seconds", Help: "Proximity ranking latency", Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8)},
		[]string{"kind"},
	)

	ReferenceCacheHits   = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reference_cache_hits_total", Help: "Reference table reads served from cache"})
	ReferenceCacheLoads  = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reference_cache_loads_total", Help: "Reference table loads from the database"})
	ReferenceCacheErrors = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reference_cache_load_errors_total", Help: "Failed reference table loads"})
	ReferenceShops       = promauto.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "reference_shops", Help: "Entries in the cached reference table"})

	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "geocode_requests_total", Help: "Reverse geocode lookups by outcome"},
		[]string{"outcome"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total", Help: "Change events published"},
		[]string{"collection"},
	)
)

// ObserveRanking records how many entities of a kind were located.
func ObserveRanking(kind string, located, unlocated int, seconds float64) {
	RankedEntities.WithLabelValues(kind, "true").Add(float64(located))
	RankedEntities.WithLabelValues(kind, "false").Add(float64(unlocated))
	RankLatency.WithLabelValues(kind).Observe(seconds)
}
