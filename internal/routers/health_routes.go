package routers

import (
	"net/http"

	"quizadmin/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// HealthRoutes mounts the probes and the Prometheus scrape endpoint.
func HealthRoutes(r chi.Router, healthHandler *handlers.HealthHandler, metricsHandler http.Handler) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	r.Method(http.MethodGet, "/metrics", metricsHandler)
}
