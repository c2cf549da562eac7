package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes возвращает router со всеми маршрутами API.
func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware stack
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(Logging(h.logger))
	router.Use(Recovery(h.logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, "route "+r.URL.Path+" not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		MethodNotAllowed(w)
	})

	router.Get("/", h.Banner)
	router.Get("/status", h.Status)
	router.Get("/healthz", h.Healthz)
	router.Get("/readyz", h.Readyz)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}
