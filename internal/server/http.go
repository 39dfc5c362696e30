// Package server assembles the HTTP API from its handlers and middleware.
package server

import (
	"net/http"

	"github.com/asakaida/kiban/internal/handlers"
	"github.com/asakaida/kiban/internal/infrastructure/metrics"
	"github.com/asakaida/kiban/internal/middleware"
	"github.com/asakaida/kiban/internal/services"
	"go.uber.org/zap"
)

// Options holds everything the HTTP API is built from
type Options struct {
	SchemaService services.SchemaServiceInterface
	EntryService  services.EntryServiceInterface
	DB            handlers.Pinger

	Version            string
	Env                string
	CORSAllowedOrigins []string

	Logger    *zap.Logger
	Collector *metrics.Collector
	Exporter  *metrics.PrometheusExporter
}

// NewHTTPHandler returns the API handler: routes plus the middleware chain
// request id -> access log -> CORS -> metrics -> mux.
func NewHTTPHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := opts.Collector
	if collector == nil {
		collector = metrics.NewCollector()
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(opts.DB, opts.Version, opts.Env, logger).RegisterRoutes(mux)
	handlers.NewEntityHandler(opts.SchemaService, logger.Named("http")).RegisterRoutes(mux)
	handlers.NewEntryHandler(opts.EntryService, logger.Named("http")).RegisterRoutes(mux)

	// The metrics middleware reads the matched pattern, so it sits directly
	// on the mux.
	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.RequestLogger(logger.Named("access")),
		middleware.CORS(opts.CORSAllowedOrigins),
		metrics.HTTPMiddleware(collector, opts.Exporter),
	)
}
