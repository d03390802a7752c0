// Package metrics exposes Prometheus collectors for price fetches, the
// historical price cache, projections and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "drawsentinel"

const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultNoData      = "no_data"
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultInvalid     = "invalid"
	ResultBusy        = "busy"
	ResultUnavailable = "unavailable"
)

var (
	// Registry holds every collector of this process.
	Registry = prometheus.NewRegistry()

	priceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_fetch_total",
			Help:      "Price fetches by source, kind and result.",
		},
		[]string{"source", "kind", "result"},
	)

	priceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "price_fetch_duration_seconds",
			Help:      "Duration of price fetches.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"source", "kind"},
	)

	priceCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_cache_total",
			Help:      "Historical price cache lookups by result.",
		},
		[]string{"result"},
	)

	projections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Submitted projections by result.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		priceFetches,
		priceFetchDuration,
		priceCache,
		projections,
		httpRequests,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObservePriceFetch records one fetch against an upstream source.
func ObservePriceFetch(source, kind, result string, d time.Duration) {
	priceFetches.WithLabelValues(source, kind, result).Inc()
	priceFetchDuration.WithLabelValues(source, kind).Observe(d.Seconds())
}

// ObserveCache records a historical price cache lookup.
func ObserveCache(result string) {
	priceCache.WithLabelValues(result).Inc()
}

// ObserveProjection records the outcome of a submit.
func ObserveProjection(result string) {
	projections.WithLabelValues(result).Inc()
}

// ObserveHTTP records a served request.
func ObserveHTTP(method, route string, status int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
