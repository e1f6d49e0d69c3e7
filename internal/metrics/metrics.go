package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts full mirror refreshes by result (ok, error).
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_fetch_total",
			Help: "Total number of full mirror refreshes",
		},
		[]string{"result"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_fetch_duration_seconds",
			Help:    "Duration of full mirror refreshes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	MutationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_mutation_total",
			Help: "Total number of remote writes issued by the store",
		},
		[]string{"table", "op", "result"},
	)

	ExternalChangeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_external_change_total",
			Help: "Total number of change notifications received",
		},
		[]string{"table"},
	)

	MirrorVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_mirror_version",
			Help: "Version of the currently published mirror snapshot",
		},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func ObserveFetch(start time.Time, err error) {
	FetchDuration.Observe(time.Since(start).Seconds())
	FetchTotal.WithLabelValues(result(err)).Inc()
}

func ObserveMutation(table, op string, err error) {
	MutationTotal.WithLabelValues(table, op, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Middleware records request count and latency per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		RequestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
