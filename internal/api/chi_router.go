// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/kinograph/internal/middleware"
)

// Router configures the HTTP routes.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a new router.
func NewRouter(h *Handler, m *Middleware) *Router {
	return &Router{
		handler:    h,
		middleware: m,
	}
}

// Setup builds the route tree.
//
// Operational endpoints (health, metrics, swagger) sit outside the rate
// limiter; the movie routes carry the limiter and the per-route metrics.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.middleware.CORS())

	r.Get("/health/live", rt.handler.HealthLive)
	r.Get("/health/ready", rt.handler.HealthReady)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	))

	r.Route("/movies", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", rt.handler.ListMovies)
		r.Post("/", rt.handler.CreateMovie)
		r.Get("/{id}", rt.handler.GetMovie)
		r.Patch("/{id}", rt.handler.UpdateMovie)
		r.Delete("/{id}", rt.handler.DeleteMovie)
	})

	return r
}
