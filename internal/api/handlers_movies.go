// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/kinograph/internal/logging"
	"github.com/tomtom215/kinograph/internal/models"
	"github.com/tomtom215/kinograph/internal/store"
	"github.com/tomtom215/kinograph/internal/validation"
)

// movieNotFoundMessage is the fixed 404 body text; "record absent" and
// "nothing to delete" are deliberately indistinguishable to clients.
const movieNotFoundMessage = "Movie not found"

// ListMovies returns all movies, optionally filtered by genre.
//
// @Summary List movies
// @Description Returns every movie in the catalog, optionally narrowed to a single genre (case-insensitive). An unknown genre yields an empty list.
// @Tags movies
// @Produce json
// @Param genre query string false "Genre to filter by" example("Sci-Fi")
// @Success 200 {array} models.Movie
// @Router /movies [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{Genre: r.URL.Query().Get("genre")}

	movies, err := h.store.GetAll(r.Context(), filter)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, movies)
}

// GetMovie returns one movie by id.
//
// @Summary Get a movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie id"
// @Success 200 {object} models.Movie
// @Failure 404 {object} messageResponse
// @Router /movies/{id} [get]
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	movie, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, movie)
}

// CreateMovie validates and persists a new movie.
//
// @Summary Create a movie
// @Description Validates the payload and persists a new movie. The response is the record as stored, including the generated id.
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body models.MovieInput true "Movie to create"
// @Success 201 {object} models.Movie
// @Failure 400 {object} validationErrorResponse
// @Router /movies [post]
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input models.MovieInput
	if err := decodeJSON(r, &input); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if verr := validation.ValidateStruct(&input); verr != nil {
		respondValidationError(w, verr)
		return
	}

	movie, err := h.store.Create(r.Context(), &input)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, movie)
}

// UpdateMovie applies a partial update to one movie.
//
// @Summary Update a movie
// @Description Applies a partial update. An empty change set answers 404; this boundary behavior is part of the public contract.
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie id"
// @Param movie body models.MovieUpdate true "Fields to change"
// @Success 200 {object} models.Movie
// @Failure 400 {object} validationErrorResponse
// @Failure 404 {object} messageResponse
// @Router /movies/{id} [patch]
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var update models.MovieUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if verr := validation.ValidateStruct(&update); verr != nil {
		respondValidationError(w, verr)
		return
	}

	id := chi.URLParam(r, "id")

	movie, err := h.store.Update(r.Context(), id, &update)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, movie)
}

// DeleteMovie removes one movie by id.
//
// @Summary Delete a movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Router /movies/{id} [delete]
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	if !deleted {
		respondMessage(w, http.StatusNotFound, movieNotFoundMessage)
		return
	}

	respondMessage(w, http.StatusOK, "Movie deleted")
}

// respondStoreError maps a store failure onto the HTTP surface: the
// not-found signal becomes a 404, anything else a logged 500.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondMessage(w, http.StatusNotFound, movieNotFoundMessage)
		return
	}

	logging.Error().Err(err).Msg("store operation failed")
	respondMessage(w, http.StatusInternalServerError, "Internal server error")
}
