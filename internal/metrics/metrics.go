// Package metrics provides Prometheus metrics for the dashboard.
// Labels stay low-cardinality: no asset ids, emails or client addresses.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthEventsTotal counts login, logout and reset attempts by outcome.
	AuthEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airstream_auth_events_total",
		Help: "Total number of authentication events, by event and outcome.",
	}, []string{"event", "outcome"})

	// AssetOperationsTotal counts directory mutations by result.
	AssetOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airstream_asset_operations_total",
		Help: "Total number of asset directory operations, by operation and result.",
	}, []string{"operation", "result"})

	// AssetRecords tracks the number of real records in the directory.
	AssetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "airstream_asset_records",
		Help: "Current number of asset records, placeholders excluded.",
	})

	// AutoSaveTotal counts auto-save ticks by result (saved/skipped/error).
	AutoSaveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airstream_autosave_total",
		Help: "Total number of auto-save ticks, by result.",
	}, []string{"result"})

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airstream_http_request_duration_seconds",
		Help:    "HTTP request latency, by method, route pattern and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

const (
	ResultOK    = "ok"
	ResultError = "error"

	AutoSaveSaved   = "saved"
	AutoSaveSkipped = "skipped"
	AutoSaveError   = "error"
)

// RecordAssetOperation counts one directory operation.
func RecordAssetOperation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	AssetOperationsTotal.WithLabelValues(operation, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithRequestMetrics observes latency once chi has resolved the route, so the
// label is the pattern and never the raw path.
func WithRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
