// Package observability defines the Prometheus metrics for both planes.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace is the global prefix for all metrics (offerlock_...).
const namespace = "offerlock"

var (
	// -------------------------------------------------------------------------
	// ADMIN PLANE (HTTP)
	// -------------------------------------------------------------------------

	// AdminReqDuration measures the latency of admin HTTP requests.
	// Metric: offerlock_admin_plane_http_handling_seconds
	AdminReqDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "admin_plane",
		Name:      "http_handling_seconds",
		Help:      "Time taken to handle HTTP requests in the admin plane",
		Buckets:   prometheus.DefBuckets, // admin APIs run at human speed
	}, []string{"method", "path"})

	// AdminReqTotal counts admin HTTP requests.
	// Metric: offerlock_admin_plane_http_requests_total
	AdminReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "admin_plane",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests in the admin plane",
	}, []string{"method", "path", "code"})

	// -------------------------------------------------------------------------
	// STOREFRONT PLANE (HTTP + evaluation)
	// -------------------------------------------------------------------------

	// StorefrontReqDuration measures the latency of storefront price lookups.
	// Metric: offerlock_storefront_plane_http_handling_seconds
	StorefrontReqDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "storefront_plane",
		Name:      "http_handling_seconds",
		Help:      "Time taken to handle storefront price requests",
		// price lookups sit on the product page critical path, so add
		// millisecond resolution below the default 5ms bucket
		Buckets: []float64{.001, .002, .005, .010, .025, .050, .100, .250, .500},
	}, []string{"method", "path"})

	// StorefrontReqTotal counts storefront HTTP requests.
	// Metric: offerlock_storefront_plane_http_requests_total
	StorefrontReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storefront_plane",
		Name:      "http_requests_total",
		Help:      "Total storefront HTTP requests",
	}, []string{"method", "path", "code"})

	// EvaluationsTotal counts rule evaluations by outcome state
	// (inactive, not_resolvable, invalid, active).
	// Metric: offerlock_storefront_plane_rule_evaluations_total
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storefront_plane",
		Name:      "rule_evaluations_total",
		Help:      "Total rule evaluations by outcome state",
	}, []string{"state"})

	// --- Catalog picker cache ---

	// CatalogCacheHits counts picker display-data cache hits.
	CatalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "lookup_cache_hits_total",
		Help:      "Total product lookup cache hits (in-memory)",
	})

	// CatalogCacheMisses counts picker display-data cache misses.
	CatalogCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "lookup_cache_misses_total",
		Help:      "Total product lookup cache misses (in-memory)",
	})
)
