// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

// Package main is the entry point for the Kinograph server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Store: MySQL or MongoDB, selected by STORE_BACKEND
//  4. HTTP server: chi router with CRUD, health, metrics and Swagger routes
//
// # Backend Selection
//
// MySQL (default):
//
//	export STORE_BACKEND=mysql
//	export DB_HOST=localhost DB_PORT=3306
//	export DB_USER=root DB_PASSWORD=secret DB_NAME=moviesdb
//	./kinograph
//
// MongoDB:
//
//	export STORE_BACKEND=mongo
//	export MONGO_URI=mongodb://localhost:27017/movies
//	./kinograph
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, waits up to 10s for in-flight requests, then closes the
// backend client.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/kinograph/docs" // Import generated swagger docs
	"github.com/tomtom215/kinograph/internal/api"
	"github.com/tomtom215/kinograph/internal/config"
	"github.com/tomtom215/kinograph/internal/logging"
	"github.com/tomtom215/kinograph/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("backend", cfg.Store.Backend).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Kinograph")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	movieStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer closeStore()
	logging.Info().Str("backend", cfg.Store.Backend).Msg("Store initialized successfully")

	handler := api.NewHandler(movieStore, cfg)
	middleware := api.NewMiddleware(cfg)
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openStore builds the configured backend and returns it with its cleanup
// function. The cleanup is safe to call after a partial failure.
func openStore(ctx context.Context, cfg *config.Config) (store.MovieStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMySQL:
		db, err := store.OpenMySQL(ctx, cfg.Store.MySQL.DSN())
		if err != nil {
			return nil, func() {}, err
		}

		st := store.NewMySQLStore(db)
		if err := st.EnsureSchema(ctx); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			return nil, func() {}, err
		}

		cleanup := func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}
		return st, cleanup, nil

	case config.BackendMongo:
		client, err := store.OpenMongo(ctx, cfg.Store.Mongo.URI)
		if err != nil {
			return nil, func() {}, err
		}

		st := store.NewMongoStore(client, cfg.Store.Mongo.Database, cfg.Store.Mongo.Collection)

		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logging.Error().Err(err).Msg("Error disconnecting MongoDB client")
			}
		}
		return st, cleanup, nil

	default:
		return nil, func() {}, errors.New("unknown store backend: " + cfg.Store.Backend)
	}
}
