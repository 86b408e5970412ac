// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/kinograph/internal/config"
	"github.com/tomtom215/kinograph/internal/models"
	"github.com/tomtom215/kinograph/internal/store"
)

// ===================================================================================================
// Test Fixtures
// ===================================================================================================

// fakeStore is an in-memory MovieStore with the same boundary semantics as
// the real backends: malformed or unknown ids map to the not-found signal
// and an empty scalar change set never reaches storage.
type fakeStore struct {
	movies map[string]models.Movie
	nextID int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{movies: map[string]models.Movie{}}
}

func (f *fakeStore) GetAll(_ context.Context, filter store.Filter) ([]models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}

	movies := []models.Movie{}
	for _, m := range f.movies {
		if filter.Genre != "" {
			canonical := models.CanonicalGenre(filter.Genre)
			if canonical == "" {
				continue
			}
			found := false
			for _, g := range m.Genres {
				if g == canonical {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		movies = append(movies, m)
	}
	return movies, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (f *fakeStore) Create(_ context.Context, input *models.MovieInput) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.nextID++
	m := models.Movie{
		ID:       fmt.Sprintf("id-%d", f.nextID),
		Title:    input.Title,
		Year:     input.Year,
		Director: input.Director,
		Duration: input.Duration,
		Rate:     input.RateOrDefault(),
		Poster:   input.Poster,
		Genres:   append([]string{}, input.Genre...),
	}
	f.movies[m.ID] = m
	return &m, nil
}

func (f *fakeStore) Update(_ context.Context, id string, update *models.MovieUpdate) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !update.HasScalarChanges() {
		return nil, store.ErrNotFound
	}

	m, ok := f.movies[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	if update.Title != nil {
		m.Title = *update.Title
	}
	if update.Year != nil {
		m.Year = *update.Year
	}
	if update.Director != nil {
		m.Director = *update.Director
	}
	if update.Duration != nil {
		m.Duration = *update.Duration
	}
	if update.Rate != nil {
		m.Rate = *update.Rate
	}
	if update.Poster != nil {
		m.Poster = *update.Poster
	}

	f.movies[id] = m
	return &m, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.movies[id]; !ok {
		return false, nil
	}
	delete(f.movies, id)
	return true, nil
}

func (f *fakeStore) Ping(_ context.Context) error {
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 1234, Host: "127.0.0.1", Timeout: 30 * time.Second},
		Store:  config.StoreConfig{Backend: config.BackendMySQL},
		Security: config.SecurityConfig{
			CORSOrigins:     []string{"http://127.0.0.1:5500"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

func newTestServer(t *testing.T, fs *fakeStore) http.Handler {
	t.Helper()

	cfg := testConfig()
	handler := NewHandler(fs, cfg)
	middleware := NewMiddleware(cfg)
	return NewRouter(handler, middleware).Setup()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const validMovieBody = `{
	"title": "The Matrix",
	"year": 1999,
	"director": "Lana Wachowski",
	"duration": 136,
	"poster": "https://example.com/matrix.jpg",
	"genre": ["Action", "Sci-Fi"]
}`

// ===================================================================================================
// Create Tests
// ===================================================================================================

func TestCreateMovie(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodPost, "/movies", validMovieBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var movie models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &movie); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if movie.ID == "" {
		t.Error("created movie has no id")
	}
	if movie.Rate != models.DefaultRate {
		t.Errorf("Rate = %v, want default %v", movie.Rate, models.DefaultRate)
	}
	if len(movie.Genres) != 2 {
		t.Errorf("Genres = %v, want 2 entries", movie.Genres)
	}
}

func TestCreateMovie_ValidationFailure(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	body := `{"year": 1899, "poster": "not-a-url", "genre": ["Western"]}`
	rec := doRequest(t, h, http.MethodPost, "/movies", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error []struct {
			Field   string `json:"field"`
			Tag     string `json:"tag"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(resp.Error) == 0 {
		t.Fatal("want per-field violations, got none")
	}

	foundTitle := false
	for _, v := range resp.Error {
		if v.Field == "title" && v.Tag == "required" {
			foundTitle = true
		}
	}
	if !foundTitle {
		t.Errorf("violations = %+v, want a required violation for title", resp.Error)
	}
}

func TestCreateMovie_MalformedJSON(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodPost, "/movies", `{"title": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateMovie_ValidationBeforeStore(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(t, fs)

	doRequest(t, h, http.MethodPost, "/movies", `{"title": ""}`)
	if len(fs.movies) != 0 {
		t.Error("invalid payload reached the store")
	}
}

// ===================================================================================================
// Read Tests
// ===================================================================================================

func TestListMovies_Empty(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodGet, "/movies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestListMovies_GenreFilter(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(t, fs)

	doRequest(t, h, http.MethodPost, "/movies", validMovieBody)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "canonical genre", query: "?genre=Sci-Fi", want: 1},
		{name: "case-insensitive genre", query: "?genre=sci-fi", want: 1},
		{name: "unmatched genre", query: "?genre=Drama", want: 0},
		{name: "unknown genre", query: "?genre=Western", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, "/movies"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var movies []models.Movie
			if err := json.Unmarshal(rec.Body.Bytes(), &movies); err != nil {
				t.Fatalf("unmarshaling response: %v", err)
			}
			if len(movies) != tt.want {
				t.Errorf("len(movies) = %d, want %d", len(movies), tt.want)
			}
		})
	}
}

func TestGetMovie(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(t, fs)

	rec := doRequest(t, h, http.MethodPost, "/movies", validMovieBody)
	var created models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshaling create response: %v", err)
	}

	rec = doRequest(t, h, http.MethodGet, "/movies/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var fetched models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if fetched.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", fetched.Title, "The Matrix")
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodGet, "/movies/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Movie not found") {
		t.Errorf("body = %s, want the not-found message", rec.Body.String())
	}
}

// ===================================================================================================
// Update Tests
// ===================================================================================================

func TestUpdateMovie_PartialChange(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(t, fs)

	rec := doRequest(t, h, http.MethodPost, "/movies", validMovieBody)
	var created models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshaling create response: %v", err)
	}

	rec = doRequest(t, h, http.MethodPatch, "/movies/"+created.ID, `{"year": 2011}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var updated models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if updated.Year != 2011 {
		t.Errorf("Year = %d, want 2011", updated.Year)
	}
	if updated.Title != created.Title {
		t.Errorf("Title = %q, want unchanged %q", updated.Title, created.Title)
	}
}

func TestUpdateMovie_EmptyChangeSet(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(t, fs)

	rec := doRequest(t, h, http.MethodPost, "/movies", validMovieBody)
	var created models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshaling create response: %v", err)
	}

	rec = doRequest(t, h, http.MethodPatch, "/movies/"+created.ID, `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for empty change set", rec.Code)
	}
}

func TestUpdateMovie_InvalidField(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodPatch, "/movies/some-id", `{"year": 1899}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// ===================================================================================================
// Delete Tests
// ===================================================================================================

func TestDeleteMovie(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(t, fs)

	rec := doRequest(t, h, http.MethodPost, "/movies", validMovieBody)
	var created models.Movie
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshaling create response: %v", err)
	}

	rec = doRequest(t, h, http.MethodDelete, "/movies/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Movie deleted") {
		t.Errorf("body = %s, want the deleted message", rec.Body.String())
	}

	// Second delete reports not-found
	rec = doRequest(t, h, http.MethodDelete, "/movies/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 on repeat delete", rec.Code)
	}

	// Record is gone
	rec = doRequest(t, h, http.MethodGet, "/movies/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after delete", rec.Code)
	}
}

// ===================================================================================================
// Error Mapping Tests
// ===================================================================================================

func TestStoreFailure_MapsTo500(t *testing.T) {
	fs := newFakeStore()
	fs.err = fmt.Errorf("connection refused")
	h := newTestServer(t, fs)

	rec := doRequest(t, h, http.MethodGet, "/movies", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal server error") {
		t.Errorf("body = %s, want the opaque server error message", rec.Body.String())
	}
}

// ===================================================================================================
// CORS Tests
// ===================================================================================================

func TestCORS_Preflight(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	tests := []struct {
		name      string
		origin    string
		wantAllow bool
	}{
		{name: "allowed origin", origin: "http://127.0.0.1:5500", wantAllow: true},
		{name: "disallowed origin", origin: "http://evil.example.com", wantAllow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/movies", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			allowed := rec.Header().Get("Access-Control-Allow-Origin") != ""
			if allowed != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin present = %v, want %v", allowed, tt.wantAllow)
			}
		})
	}
}

// ===================================================================================================
// Routing Tests
// ===================================================================================================

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodPut, "/movies", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

// ===================================================================================================
// Health Tests
// ===================================================================================================

func TestHealthLive(t *testing.T) {
	h := newTestServer(t, newFakeStore())

	rec := doRequest(t, h, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
}

func TestHealthReady_StoreDown(t *testing.T) {
	fs := newFakeStore()
	fs.err = fmt.Errorf("connection refused")
	h := newTestServer(t, fs)

	rec := doRequest(t, h, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
