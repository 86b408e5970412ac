// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // register the mysql driver
	"github.com/google/uuid"

	"github.com/tomtom215/kinograph/internal/logging"
	"github.com/tomtom215/kinograph/internal/models"
)

// MySQLStore persists movies in a relational layout: a movie table keyed by
// a BINARY(16) UUID, a genre table holding the vocabulary, and a
// movie_genres join table. A movie's genre list is a projection of that
// relationship assembled at read time with a GROUP_CONCAT aggregation and
// split back into a slice while scanning.
//
// The multi-statement create (base insert + per-genre link inserts) and
// update (write + read-back) sequences are not wrapped in a transaction; a
// failure partway through leaves partial state and no rollback is attempted.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore wraps an open database handle. The caller owns the handle
// and closes it on shutdown.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// OpenMySQL opens and verifies a MySQL connection for the given DSN.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// genreSeparator joins genre names in the GROUP_CONCAT projection.
const genreSeparator = ", "

// movieSelect is the shared read query. Every read path goes through it so
// all results carry the same denormalized genre projection.
const movieSelect = `
SELECT m.id, m.title, m.year, m.director, m.duration, m.poster, m.rate,
       GROUP_CONCAT(g.name ORDER BY g.id SEPARATOR ', ') AS genres
  FROM movie m
  LEFT JOIN movie_genres mg ON m.id = mg.movie_id
  LEFT JOIN genre g ON mg.genre_id = g.id`

// GetAll returns every movie, optionally narrowed to a single genre. The
// genre filter resolves case-insensitively against the genre table; an
// unknown genre yields an empty slice.
func (s *MySQLStore) GetAll(ctx context.Context, filter Filter) ([]models.Movie, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if filter.Genre != "" {
		genreID, ok, lookupErr := s.lookupGenre(ctx, filter.Genre)
		if lookupErr != nil {
			return nil, fmt.Errorf("resolving genre filter: %w", lookupErr)
		}
		if !ok {
			return []models.Movie{}, nil
		}

		rows, err = s.db.QueryContext(ctx, movieSelect+`
 WHERE m.id IN (SELECT movie_id FROM movie_genres WHERE genre_id = ?)
 GROUP BY m.id`, genreID)
	} else {
		rows, err = s.db.QueryContext(ctx, movieSelect+`
 GROUP BY m.id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}

	return movies, nil
}

// GetByID returns the movie with the given canonical UUID text id.
// Malformed id text is treated as not-found, never as a decode error.
func (s *MySQLStore) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.getByBinaryID(ctx, uid[:])
}

// Create inserts the movie under a freshly generated UUID, links each
// recognized genre best-effort, and reads the stored record back.
func (s *MySQLStore) Create(ctx context.Context, input *models.MovieInput) (*models.Movie, error) {
	id := uuid.New()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO movie (id, title, year, director, duration, poster, rate)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id[:], input.Title, input.Year, input.Director, input.Duration,
		input.Poster, input.RateOrDefault())
	if err != nil {
		return nil, fmt.Errorf("creating movie: %w", err)
	}

	s.linkGenres(ctx, id, input.Genre)

	return s.getByBinaryID(ctx, id[:])
}

// linkGenres resolves each requested genre name case-insensitively and
// inserts the join rows. The whole step is a best-effort side effect: names
// outside the vocabulary are skipped silently and insert failures are
// logged, never surfaced to the caller.
func (s *MySQLStore) linkGenres(ctx context.Context, movieID uuid.UUID, names []string) {
	for _, name := range names {
		canonical := models.CanonicalGenre(name)
		if canonical == "" {
			continue
		}

		genreID, ok, err := s.lookupGenre(ctx, canonical)
		if err != nil || !ok {
			if err != nil {
				logging.Warn().Err(err).Str("genre", canonical).Msg("genre lookup failed during create")
			}
			continue
		}

		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)`,
			movieID[:], genreID); err != nil {
			logging.Warn().Err(err).Str("genre", canonical).Msg("failed to link genre")
		}
	}
}

// lookupGenre finds a genre id by case-insensitive name match.
func (s *MySQLStore) lookupGenre(ctx context.Context, name string) (int64, bool, error) {
	var genreID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM genre WHERE LOWER(name) = ?`,
		strings.ToLower(name)).Scan(&genreID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return genreID, true, nil
}

// Update applies the scalar change set and returns the post-update record.
// An empty change set returns ErrNotFound without issuing a query; genre
// reassignment is excluded from updates on this backend.
func (s *MySQLStore) Update(ctx context.Context, id string, update *models.MovieUpdate) (*models.Movie, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	assignments, args := buildUpdateAssignments(update)
	if len(assignments) == 0 {
		return nil, ErrNotFound
	}

	query := "UPDATE movie SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	args = append(args, uid[:])

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating movie: %w", err)
	}

	return s.getByBinaryID(ctx, uid[:])
}

// buildUpdateAssignments turns the present scalar fields of a partial
// update into SET assignments and their bind arguments, in a fixed column
// order.
func buildUpdateAssignments(update *models.MovieUpdate) ([]string, []interface{}) {
	var (
		assignments []string
		args        []interface{}
	)

	if update.Title != nil {
		assignments = append(assignments, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Year != nil {
		assignments = append(assignments, "year = ?")
		args = append(args, *update.Year)
	}
	if update.Director != nil {
		assignments = append(assignments, "director = ?")
		args = append(args, *update.Director)
	}
	if update.Duration != nil {
		assignments = append(assignments, "duration = ?")
		args = append(args, *update.Duration)
	}
	if update.Rate != nil {
		assignments = append(assignments, "rate = ?")
		args = append(args, *update.Rate)
	}
	if update.Poster != nil {
		assignments = append(assignments, "poster = ?")
		args = append(args, *update.Poster)
	}

	return assignments, args
}

// Delete removes the movie and reports whether a row was deleted. Join rows
// go with it via ON DELETE CASCADE. Malformed ids yield false, not an error.
func (s *MySQLStore) Delete(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM movie WHERE id = ?`, uid[:])
	if err != nil {
		return false, fmt.Errorf("deleting movie: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading delete result: %w", err)
	}

	return affected > 0, nil
}

// Ping verifies the database connection.
func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// getByBinaryID fetches one movie by its 16-byte binary id.
func (s *MySQLStore) getByBinaryID(ctx context.Context, rawID []byte) (*models.Movie, error) {
	row := s.db.QueryRowContext(ctx, movieSelect+`
 WHERE m.id = ?
 GROUP BY m.id`, rawID)

	m, err := scanMovie(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching movie: %w", err)
	}

	return m, nil
}

// scanMovie reads one movieSelect row, translating the binary id to its
// canonical UUID text form and splitting the aggregated genre projection.
func scanMovie(scan func(dest ...interface{}) error) (*models.Movie, error) {
	var (
		rawID  []byte
		m      models.Movie
		genres sql.NullString
	)

	if err := scan(&rawID, &m.Title, &m.Year, &m.Director, &m.Duration,
		&m.Poster, &m.Rate, &genres); err != nil {
		return nil, err
	}

	uid, err := uuid.FromBytes(rawID)
	if err != nil {
		return nil, fmt.Errorf("decoding stored id: %w", err)
	}
	m.ID = uid.String()
	m.Genres = splitGenres(genres)

	return &m, nil
}

// splitGenres converts the comma-joined GROUP_CONCAT projection back into a
// genre slice. Movies without any genre link come back as an empty slice.
func splitGenres(genres sql.NullString) []string {
	if !genres.Valid || genres.String == "" {
		return []string{}
	}
	return strings.Split(genres.String, genreSeparator)
}
