// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/kinograph/internal/config"
	"github.com/tomtom215/kinograph/internal/logging"
)

// Middleware builds the request middleware from configuration.
type Middleware struct {
	config *config.Config
}

// NewMiddleware creates a middleware factory.
func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{config: cfg}
}

// CORS returns the cross-origin middleware. Only origins on the configured
// allow-list receive CORS headers; browsers enforce the rejection, the
// server still answers the request itself.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.config.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit returns the per-IP rate limiter, or a no-op when disabled.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is disabled")
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.LimitByIP(
		m.config.Security.RateLimitReqs,
		m.config.Security.RateLimitWindow,
	)
}
