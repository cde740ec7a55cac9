// Package metrics provides Prometheus metrics for fsorg.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsorg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fsorg_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Tree cache metrics
	directoryReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsorg_directory_reads_total",
			Help: "Directories read from disk into the tree cache",
		},
		[]string{"status"},
	)

	// Rule engine metrics
	organizeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsorg_organize_runs_total",
			Help: "Organizing actions by rule shape and outcome",
		},
		[]string{"operation", "shape", "status"},
	)

	filesMovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fsorg_files_moved_total",
			Help: "Files renamed on disk",
		},
	)

	moveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fsorg_move_duration_seconds",
			Help:    "Duration of one mover pass",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDirectoryRead records one read of a directory listing.
func RecordDirectoryRead(success bool) {
	directoryReadsTotal.WithLabelValues(status(success)).Inc()
}

// RecordOrganize records one organizing action.
func RecordOrganize(operation, shape string, success bool) {
	organizeRunsTotal.WithLabelValues(operation, shape, status(success)).Inc()
}

// RecordMove records a mover pass that renamed moved files.
func RecordMove(moved int, duration time.Duration) {
	filesMovedTotal.Add(float64(moved))
	moveDuration.Observe(duration.Seconds())
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
