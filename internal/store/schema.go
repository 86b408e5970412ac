// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/kinograph/internal/logging"
	"github.com/tomtom215/kinograph/internal/models"
)

// schemaStatements create the relational layout. All statements are
// idempotent so the bootstrap can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movie (
		id BINARY(16) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		year INT NOT NULL,
		director VARCHAR(255) NOT NULL,
		duration INT NOT NULL,
		poster TEXT NOT NULL,
		rate DECIMAL(3,1) NOT NULL DEFAULT 5.5
	)`,
	`CREATE TABLE IF NOT EXISTS genre (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BINARY(16) NOT NULL,
		genre_id INT NOT NULL,
		PRIMARY KEY (movie_id, genre_id),
		FOREIGN KEY (movie_id) REFERENCES movie(id) ON DELETE CASCADE,
		FOREIGN KEY (genre_id) REFERENCES genre(id) ON DELETE CASCADE
	)`,
}

// EnsureSchema creates the movie, genre and movie_genres tables when they
// do not exist yet and seeds the genre vocabulary. It runs on every start;
// existing rows are left untouched.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	for _, name := range models.GenreVocabulary {
		if _, err := s.db.ExecContext(ctx,
			`INSERT IGNORE INTO genre (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("seeding genre %q: %w", name, err)
		}
	}

	logging.Debug().Int("genres", len(models.GenreVocabulary)).Msg("schema bootstrap complete")
	return nil
}
