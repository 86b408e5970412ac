// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/kinograph/internal/models"
)

// MongoStore persists movies as documents with an embedded genre list.
// Ids are the collection's native ObjectIDs used directly; there is no
// translation layer beyond hex encoding, and no read-time aggregation.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore wraps a collection handle on an already connected client.
// The caller owns the client and disconnects it on shutdown.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{coll: client.Database(database).Collection(collection)}
}

// OpenMongo connects to MongoDB and verifies the connection.
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return client, nil
}

// movieDocument is the stored document shape. The model's string id maps to
// the native ObjectID at this boundary only.
type movieDocument struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Title    string        `bson:"title"`
	Year     int           `bson:"year"`
	Director string        `bson:"director"`
	Duration int           `bson:"duration"`
	Rate     float64       `bson:"rate"`
	Poster   string        `bson:"poster"`
	Genres   []string      `bson:"genres"`
}

func (d *movieDocument) toModel() *models.Movie {
	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}
	return &models.Movie{
		ID:       d.ID.Hex(),
		Title:    d.Title,
		Year:     d.Year,
		Director: d.Director,
		Duration: d.Duration,
		Rate:     d.Rate,
		Poster:   d.Poster,
		Genres:   genres,
	}
}

// GetAll returns every movie, optionally narrowed to a single genre. The
// genre resolves case-insensitively against the vocabulary before querying;
// an unknown genre yields an empty slice without touching the collection.
func (s *MongoStore) GetAll(ctx context.Context, filter Filter) ([]models.Movie, error) {
	query := bson.D{}
	if filter.Genre != "" {
		canonical := models.CanonicalGenre(filter.Genre)
		if canonical == "" {
			return []models.Movie{}, nil
		}
		query = bson.D{{Key: "genres", Value: canonical}}
	}

	cursor, err := s.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding movies: %w", err)
	}

	movies := make([]models.Movie, 0, len(docs))
	for i := range docs {
		movies = append(movies, *docs[i].toModel())
	}

	return movies, nil
}

// GetByID returns the movie with the given ObjectID hex id. Malformed hex
// is treated as not-found.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc movieDocument
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching movie: %w", err)
	}

	return doc.toModel(), nil
}

// Create inserts the movie and reads the stored document back. Genre names
// resolve case-insensitively against the vocabulary; unmatched names are
// skipped silently before the insert.
func (s *MongoStore) Create(ctx context.Context, input *models.MovieInput) (*models.Movie, error) {
	doc := movieDocument{
		Title:    input.Title,
		Year:     input.Year,
		Director: input.Director,
		Duration: input.Duration,
		Rate:     input.RateOrDefault(),
		Poster:   input.Poster,
		Genres:   normalizeGenres(input.Genre),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("creating movie: %w", err)
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return s.GetByID(ctx, oid.Hex())
}

// Update applies the change set and returns the post-update document. An
// empty scalar change set returns ErrNotFound without issuing a query.
// Unlike the relational backend, a genre list present in the change set is
// applied here; the asymmetry is documented, not unified.
func (s *MongoStore) Update(ctx context.Context, id string, update *models.MovieUpdate) (*models.Movie, error) {
	if !update.HasScalarChanges() {
		return nil, ErrNotFound
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc movieDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: buildUpdateDocument(update)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating movie: %w", err)
	}

	return doc.toModel(), nil
}

// buildUpdateDocument turns the present fields of a partial update into a
// $set document, genre list included.
func buildUpdateDocument(update *models.MovieUpdate) bson.D {
	set := bson.D{}

	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Year != nil {
		set = append(set, bson.E{Key: "year", Value: *update.Year})
	}
	if update.Director != nil {
		set = append(set, bson.E{Key: "director", Value: *update.Director})
	}
	if update.Duration != nil {
		set = append(set, bson.E{Key: "duration", Value: *update.Duration})
	}
	if update.Rate != nil {
		set = append(set, bson.E{Key: "rate", Value: *update.Rate})
	}
	if update.Poster != nil {
		set = append(set, bson.E{Key: "poster", Value: *update.Poster})
	}
	if update.Genre != nil {
		set = append(set, bson.E{Key: "genres", Value: normalizeGenres(update.Genre)})
	}

	return set
}

// Delete removes the movie and reports whether a document was deleted.
// Malformed ids yield false, not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, fmt.Errorf("deleting movie: %w", err)
	}

	return res.DeletedCount > 0, nil
}

// Ping verifies the client connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// normalizeGenres maps genre names onto their canonical vocabulary labels,
// dropping names that resolve to no entry.
func normalizeGenres(names []string) []string {
	genres := make([]string, 0, len(names))
	for _, name := range names {
		if canonical := models.CanonicalGenre(name); canonical != "" {
			genres = append(genres, canonical)
		}
	}
	return genres
}
