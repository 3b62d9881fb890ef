package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the inspection server
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recordsReadTotal prometheus.Counter
	recordReadErrors prometheus.Counter
	readDuration     prometheus.Histogram
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fortrec_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fortrec_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		recordsReadTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fortrec_records_read_total",
				Help: "Total number of records decoded for API responses",
			},
		),
		recordReadErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fortrec_record_read_errors_total",
				Help: "Total number of record decode failures",
			},
		),
		readDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fortrec_read_duration_seconds",
				Help:    "Duration of whole-file record scans in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordScan tracks one completed scan over a record file
func (m *Metrics) RecordScan(records int64, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.recordsReadTotal.Add(float64(records))
	if failed {
		m.recordReadErrors.Inc()
	}
	m.readDuration.Observe(elapsed.Seconds())
}

// InstrumentHandler wraps an HTTP handler with request metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			handler(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		handler(sw, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(sw.status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// statusWriter captures the response status for metrics
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
