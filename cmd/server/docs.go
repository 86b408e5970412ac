// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

// Package main provides the Kinograph HTTP server
//
// Kinograph is a movie catalog REST API backed by either MySQL or MongoDB,
// selected at startup.
//
// @title Kinograph API
// @version 1.0
// @description Movie catalog REST API with interchangeable document and relational storage backends
// @description
// @description ## Backends
// @description
// @description The active backend is selected at startup via `STORE_BACKEND` (`mysql` or `mongo`).
// @description Both backends expose the same routes and the same record shape; movie ids are
// @description opaque strings whose format depends on the backend.
// @description
// @description ## Validation
// @description
// @description Create requests are validated before any storage work happens. A failed
// @description validation answers 400 with a per-field violation list.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address on the /movies routes.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/kinograph/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:1234
// @BasePath /
// @schemes http
//
// @tag.name movies
// @tag.description Movie catalog CRUD endpoints
//
// @tag.name health
// @tag.description Liveness and readiness probes
package main
