// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

// Package api provides the HTTP layer: handlers, routing and middleware.
//
// Handlers do protocol-level adaptation only. Mutating operations validate
// the payload first and never touch the store on a validation failure; the
// store's not-found signal maps to a 404, everything else to a 500. All
// domain behavior lives in the store package.
package api

import (
	"time"

	"github.com/tomtom215/kinograph/internal/config"
	"github.com/tomtom215/kinograph/internal/store"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_movies.go: Movie CRUD endpoints (5 methods)
//   - handlers_health.go: Health endpoints (2 methods)
//   - handlers_helpers.go: Shared response helpers
type Handler struct {
	store     store.MovieStore
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. The store is injected already
// constructed; the handler never builds or owns store clients.
func NewHandler(st store.MovieStore, cfg *config.Config) *Handler {
	return &Handler{
		store:     st,
		config:    cfg,
		startTime: time.Now(),
	}
}
