// Kinograph - Movie Catalog REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinograph

// Package config loads and validates application configuration using
// Koanf v2 with layered sources: built-in defaults, an optional YAML config
// file, and environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Backend names accepted by store.backend.
const (
	BackendMySQL = "mysql"
	BackendMongo = "mongo"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selects and configures the active storage backend.
type StoreConfig struct {
	// Backend is "mysql" or "mongo".
	Backend string      `koanf:"backend"`
	MySQL   MySQLConfig `koanf:"mysql"`
	Mongo   MongoConfig `koanf:"mongo"`
}

// MySQLConfig holds relational backend settings, sourced from the classic
// DB_HOST / DB_PORT / DB_USER / DB_PASSWORD / DB_NAME environment variables.
type MySQLConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	Params   string `koanf:"params"`
}

// DSN builds the go-sql-driver/mysql data source name.
func (c MySQLConfig) DSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", c.User, c.Password, c.Host, c.Port, c.Name)
	if c.Params != "" {
		dsn += "?" + c.Params
	}
	return dsn
}

// MongoConfig holds document backend settings. The URI default is the fixed
// local connection string; it can still be overridden via MONGO_URI.
type MongoConfig struct {
	URI        string        `koanf:"uri"`
	Database   string        `koanf:"database"`
	Collection string        `koanf:"collection"`
	Timeout    time.Duration `koanf:"timeout"`
}

// SecurityConfig holds the CORS allow-list and rate limiting knobs.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case BackendMySQL:
		if c.Store.MySQL.Host == "" {
			return fmt.Errorf("store.mysql.host is required for the mysql backend")
		}
		if c.Store.MySQL.Name == "" {
			return fmt.Errorf("store.mysql.name is required for the mysql backend")
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("store.mongo.uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q",
			BackendMySQL, BackendMongo, c.Store.Backend)
	}

	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}

	return nil
}
