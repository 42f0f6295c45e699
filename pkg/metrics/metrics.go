// Package metrics exposes the Prometheus collectors shared by the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts third-party calls by provider and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "briefing",
			Name:      "upstream_requests_total",
			Help:      "Total number of third-party provider requests",
		},
		[]string{"provider", "outcome"},
	)

	// UpstreamDuration measures third-party call latency.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "briefing",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of third-party provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// CacheLookups counts response cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "briefing",
			Name:      "cache_lookups_total",
			Help:      "Total number of response cache lookups",
		},
		[]string{"cache", "result"},
	)

	// SectionRenders counts briefing sections by status.
	SectionRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "briefing",
			Name:      "section_renders_total",
			Help:      "Total number of briefing sections rendered, by status",
		},
		[]string{"section", "status"},
	)
)

// RecordUpstream records one provider call.
func RecordUpstream(provider, outcome string, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	UpstreamDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordSection records how a briefing section rendered.
func RecordSection(section, status string) {
	SectionRenders.WithLabelValues(section, status).Inc()
}
