package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
	grpcRequests *prometheus.CounterVec
	grpcErrors   *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter registered on reg.
// Pass a fresh prometheus.NewRegistry() in tests to avoid duplicate
// registration panics.
func NewPrometheusExporter(reg *prometheus.Registry) *PrometheusExporter {
	factory := promauto.With(reg)
	return &PrometheusExporter{
		gatherer: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiban_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kiban_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"route"},
		),
		httpErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiban_http_errors_total",
				Help: "Total number of HTTP responses with status >= 400",
			},
			[]string{"route", "status"},
		),
		grpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiban_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method"},
		),
		grpcErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiban_grpc_errors_total",
				Help: "Total number of gRPC errors",
			},
			[]string{"method"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{})
}

// RecordHTTP records one HTTP request.
func (e *PrometheusExporter) RecordHTTP(route string, status int, durationSeconds float64) {
	code := strconv.Itoa(status)
	e.httpRequests.WithLabelValues(route, code).Inc()
	e.httpDuration.WithLabelValues(route).Observe(durationSeconds)
	if status >= http.StatusBadRequest {
		e.httpErrors.WithLabelValues(route, code).Inc()
	}
}

// RecordGRPC records one gRPC request.
func (e *PrometheusExporter) RecordGRPC(method string, failed bool) {
	e.grpcRequests.WithLabelValues(method).Inc()
	if failed {
		e.grpcErrors.WithLabelValues(method).Inc()
	}
}
