// Package api provides a read-only HTTP inspection service over a
// directory of unformatted sequential record files.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP routes for the inspection server
func Router(server *Server, metrics *Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", metrics.InstrumentHandler("GET", "/healthz", server.handleHealth))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/files/{name}/records", metrics.InstrumentHandler("GET", "/v1/files/{name}/records", server.handleRecords))
		r.Get("/files/{name}/stat", metrics.InstrumentHandler("GET", "/v1/files/{name}/stat", server.handleStat))
	})

	return r
}

// StartServer starts the inspection server and blocks until it exits
func StartServer(config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(config, metrics)

	fmt.Printf("Starting fortrec inspection server on %s\n", config.Listen)
	fmt.Printf("Metrics available at: http://%s/metrics\n", config.Listen)
	return http.ListenAndServe(config.Listen, Router(server, metrics))
}
