// Package observability registers the service's Prometheus metrics.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// cover outcomes, by the tier that answered
const (
	CoverLRUHit   = "lru_hit"
	CoverStoreHit = "store_hit"
	CoverComputed = "computed"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	storeOpTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cover_store_op_total",
			Help: "Cover store operations by op and result.",
		},
		[]string{"op", "result"},
	)

	storeOpDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cover_store_op_duration_seconds",
			Help:    "Latency of cover store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"op"},
	)

	coverResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cover_results_total",
			Help: "Envelope cover lookups by answering tier.",
		},
		[]string{"outcome"},
	)

	coverCells = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cover_cells",
			Help:    "Number of H3 cells returned per cover.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to 16384
		},
	)

	coverCoarsened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cover_coarsened_total",
			Help: "Covers that were coarsened to stay under the cell limit.",
		},
	)

	envelopeOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envelope_ops_total",
			Help: "Envelope computations served, by operation and whether the result was null.",
		},
		[]string{"op", "null"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveStoreOp(op string, err error, durationSeconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOpTotal.WithLabelValues(op, result).Inc()
	storeOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func IncCoverResult(outcome string) {
	coverResults.WithLabelValues(outcome).Inc()
}

func ObserveCoverCells(n int) {
	coverCells.Observe(float64(n))
}

func IncCoverCoarsened() {
	coverCoarsened.Inc()
}

func IncEnvelopeOp(op string, null bool) {
	envelopeOps.WithLabelValues(op, strconv.FormatBool(null)).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
