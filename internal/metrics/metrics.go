// Package metrics defines the Prometheus collectors for the votes backend
// and the Fiber plumbing to record and expose them.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all collectors. They are built at package load so library
// code can record before (or without) registration; Register exports them
// once from main. Tests exercise unregistered collectors freely.
var Metrics = struct {
	VotesTotal           *prometheus.CounterVec
	RejectedVotes        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	RequestsInFlight     prometheus.Gauge
	CacheHits            prometheus.Counter
	CacheMisses          prometheus.Counter
	RankingsScanDuration prometheus.Histogram
}{
	VotesTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsvotes_votes_total",
			Help: "Accepted votes, by vote type.",
		},
		[]string{"vote_type"},
	),
	RejectedVotes: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsvotes_rejected_votes_total",
			Help: "Votes rejected before counting, by reason.",
		},
		[]string{"reason"},
	),
	RequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsvotes_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	),
	RequestsInFlight: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsvotes_requests_in_flight",
			Help: "HTTP requests currently being served.",
		},
	),
	CacheHits: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newsvotes_cache_hits_total",
			Help: "Summary reads served from the cache.",
		},
	),
	CacheMisses: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newsvotes_cache_misses_total",
			Help: "Summary reads recomputed from the counter store.",
		},
	),
	RankingsScanDuration: prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsvotes_rankings_scan_duration_seconds",
			Help:    "Duration of full ranking and stats scans.",
			Buckets: prometheus.DefBuckets,
		},
	),
}

// Register exports all collectors to the default registry. Call once at
// startup.
func Register() {
	prometheus.MustRegister(
		Metrics.VotesTotal,
		Metrics.RejectedVotes,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.RankingsScanDuration,
	)
}

// Middleware records request duration and the in-flight gauge for every
// request except the exposition endpoint itself.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings before c.Next(): Fiber
		// hands out slices backed by the fasthttp buffer, which handlers
		// may overwrite.
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint collapses per-item paths so label cardinality stays
// bounded.
func sanitizeEndpoint(path string) string {
	if strings.HasPrefix(path, "/api/votes/") {
		return "/api/votes/:itemId"
	}
	return path
}

// Handler serves the Prometheus exposition format through Fiber by
// adapting the stock net/http handler onto fasthttp.
func Handler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
