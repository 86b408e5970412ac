// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

// Package store provides persistence for movie records against one of two
// interchangeable backends: MySQL (relational) or MongoDB (document).
//
// Both backends implement the MovieStore interface with identical result
// semantics, so callers never know which one is active. The backend is
// selected once at process start and its client is owned by the store,
// constructed explicitly and released on shutdown.
//
// Two behaviors differ by design and are kept separate on purpose:
//
//   - Identifier format: MySQL stores ids as 16-byte binary UUIDs and
//     translates to/from canonical UUID text on every boundary crossing;
//     MongoDB uses its native ObjectID directly.
//   - Partial updates: MySQL restricts the change set to scalar columns;
//     MongoDB also applies a genre list when one is present.
package store

import (
	"context"
	"errors"

	"github.com/tomtom215/kinograph/internal/models"
)

// ErrNotFound signals that no movie exists for the requested identifier.
// A malformed identifier is reported the same way; callers cannot tell the
// two apart, and map both to a 404.
var ErrNotFound = errors.New("movie not found")

// Filter narrows GetAll results. A Genre that matches no vocabulary entry
// (case-insensitively) yields an empty result, not an error.
type Filter struct {
	Genre string
}

// MovieStore is the operation contract shared by both backends.
type MovieStore interface {
	// GetAll returns every movie, optionally narrowed by filter. Order is
	// store-defined. The returned slice is non-nil even when empty.
	GetAll(ctx context.Context, filter Filter) ([]models.Movie, error)

	// GetByID returns the movie with the given identifier, or ErrNotFound
	// when it does not exist or the id is malformed for the active backend.
	GetByID(ctx context.Context, id string) (*models.Movie, error)

	// Create persists a new movie with a store-generated id and returns the
	// record as stored, read back after the insert. Genre names resolve
	// case-insensitively against the vocabulary; unmatched names are skipped
	// silently and link failures are best-effort (logged, never surfaced).
	Create(ctx context.Context, input *models.MovieInput) (*models.Movie, error)

	// Update applies a partial change set and returns the post-update
	// record. An empty scalar change set returns ErrNotFound without
	// touching the store; this shortcut is part of the public contract.
	Update(ctx context.Context, id string, update *models.MovieUpdate) (*models.Movie, error)

	// Delete removes the movie with the given identifier and reports
	// whether a record was actually removed. A nonexistent or malformed id
	// yields false, never an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
