// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

// Package models defines the movie record schema shared by the HTTP layer
// and both storage backends.
//
// The package has no dependencies on either store. The MySQL backend maps
// Movie onto a movie/genre/movie_genres relational layout; the MongoDB
// backend maps it onto an embedded document. Both return the same shape.
package models

import "strings"

// DefaultRate is applied when a create request omits the rate field.
const DefaultRate = 5.5

// GenreVocabulary is the closed set of permitted genre labels, in canonical
// casing. Genre matching anywhere in the system is case-insensitive against
// this list; names that resolve to no entry are dropped, never stored.
var GenreVocabulary = []string{
	"Action",
	"Adventure",
	"Fantasy",
	"Drama",
	"Romance",
	"Sci-Fi",
	"Animation",
	"Crime",
}

// CanonicalGenre resolves a genre name to its canonical vocabulary label
// using a case-insensitive lookup. It returns the empty string when the name
// is not part of the vocabulary.
func CanonicalGenre(name string) string {
	for _, g := range GenreVocabulary {
		if strings.EqualFold(g, name) {
			return g
		}
	}
	return ""
}

// Movie is a single catalog record as returned by every read operation.
//
// ID is the externally visible identifier: the canonical UUID text form for
// the MySQL backend, the ObjectID hex form for the MongoDB backend. It is
// immutable once assigned.
type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Director string   `json:"director"`
	Duration int      `json:"duration"`
	Rate     float64  `json:"rate"`
	Poster   string   `json:"poster"`
	Genres   []string `json:"genres"`
}

// MovieInput is the create payload. The wire format carries the genre list
// under "genre" (singular) while stored records expose "genres"; this matches
// the public API contract.
//
// Rate is a pointer so an omitted field can be distinguished from an explicit
// zero; use RateOrDefault after validation.
type MovieInput struct {
	Title    string   `json:"title" validate:"required"`
	Year     int      `json:"year" validate:"required,gte=1900,lte=2024"`
	Director string   `json:"director" validate:"required"`
	Duration int      `json:"duration" validate:"required,gt=0"`
	Rate     *float64 `json:"rate" validate:"omitempty,gte=0,lte=10"`
	Poster   string   `json:"poster" validate:"required,url"`
	Genre    []string `json:"genre" validate:"required,min=1,dive,oneof=Action Adventure Fantasy Drama Romance 'Sci-Fi' Animation Crime"`
}

// RateOrDefault returns the requested rate, or DefaultRate when the field
// was absent from the payload.
func (in *MovieInput) RateOrDefault() float64 {
	if in.Rate == nil {
		return DefaultRate
	}
	return *in.Rate
}

// MovieUpdate is the partial-update payload. Every field is optional; a
// present field is validated with the same rule as on create.
//
// Genre is part of the payload but only the MongoDB backend applies it; the
// MySQL backend restricts updates to scalar columns. The two behaviors are
// deliberately kept separate rather than unified.
type MovieUpdate struct {
	Title    *string  `json:"title" validate:"omitempty,min=1"`
	Year     *int     `json:"year" validate:"omitempty,gte=1900,lte=2024"`
	Director *string  `json:"director" validate:"omitempty"`
	Duration *int     `json:"duration" validate:"omitempty,gt=0"`
	Rate     *float64 `json:"rate" validate:"omitempty,gte=0,lte=10"`
	Poster   *string  `json:"poster" validate:"omitempty,url"`
	Genre    []string `json:"genre" validate:"omitempty,min=1,dive,oneof=Action Adventure Fantasy Drama Romance 'Sci-Fi' Animation Crime"`
}

// HasScalarChanges reports whether any of the updatable scalar fields
// (title, year, director, duration, rate, poster) is present. The genre list
// is excluded on purpose: an update carrying only genres counts as an empty
// change set, and both backends answer it with the not-found signal.
func (u *MovieUpdate) HasScalarChanges() bool {
	return u.Title != nil || u.Year != nil || u.Director != nil ||
		u.Duration != nil || u.Rate != nil || u.Poster != nil
}
