package metrics

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/grpc"
)

// UnaryServerInterceptor returns a gRPC interceptor that records metrics for each request.
func UnaryServerInterceptor(collector *Collector, exporter *PrometheusExporter) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		method := info.FullMethod

		resp, err := handler(ctx, req)
		collector.Observe(method, time.Since(start).Seconds(), err != nil)

		if exporter != nil {
			exporter.RecordGRPC(method, err != nil)
		}

		return resp, err
	}
}

// HTTPMiddleware records metrics for each HTTP request, labelled by the
// ServeMux pattern that matched (e.g. "POST /api/{entity}").
func HTTPMiddleware(collector *Collector, exporter *PrometheusExporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			// ServeMux sets r.Pattern on the request it dispatches
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			duration := time.Since(start).Seconds()

			collector.Observe(route, duration, sw.status >= http.StatusBadRequest)
			if exporter != nil {
				exporter.RecordHTTP(route, sw.status, duration)
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
