// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load(constants.ServiceTasks)
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Shared Session Settings: JWT_SECRET and REDIS_URL must be identical for both
    services so that tokens and revocations are honoured everywhere.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/tasktrack/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for one Tasktrack service.
type Config struct {

	// Service is the name of the running service. Set by [Load], not by the environment.
	Service string

	// Server settings
	ServerPort  string `env:"SERVER_PORT"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH"`

	// MigrationTable is the per-service version table. Set by [Load].
	MigrationTable string

	// Key-Value Store (Redis), shared by both services
	RedisURL       string        `env:"REDIS_URL,required,notEmpty"`
	RedisOpTimeout time.Duration `env:"REDIS_OP_TIMEOUT" envDefault:"500ms"`

	// Session token signing, shared by both services
	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	TokenLifetime time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
	TokenLeeway   time.Duration `env:"JWT_LEEWAY"     envDefault:"30s"`

	// RevocationFailClosed denies every request while the registry is unreachable.
	RevocationFailClosed bool `env:"REVOCATION_FAIL_CLOSED" envDefault:"false"`

	// Password hashing cost for new registrations
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// TaskCacheTTL is the safety-net expiry of cached task lists.
	TaskCacheTTL time.Duration `env:"TASK_CACHE_TTL" envDefault:"300s"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// # Per-service Defaults

type serviceDefaults struct {
	port           string
	migrationPath  string
	migrationTable string
}

var defaultsByService = map[string]serviceDefaults{
	constants.ServiceAuth:  {port: "3000", migrationPath: "./migrations/auth", migrationTable: "schema_migrations_auth"},
	constants.ServiceTasks: {port: "3001", migrationPath: "./migrations/tasks", migrationTable: "schema_migrations_tasks"},
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct for the named service.
func Load(service string) (*Config, error) {

	defaults, ok := defaultsByService[service]
	if !ok {
		return nil, fmt.Errorf("config: unknown service %q", service)
	}

	cfg := &Config{Service: service, MigrationTable: defaults.migrationTable}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = defaults.port
	}
	if cfg.MigrationPath == "" {
		cfg.MigrationPath = defaults.migrationPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects settings that would break or expose the session contract.
func (c *Config) validate() error {
	if len(c.JWTSecret) < constants.MinSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d characters", constants.MinSecretLength)
	}
	if c.TokenLifetime <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_IN must be positive")
	}
	if c.TaskCacheTTL <= 0 {
		return fmt.Errorf("config: TASK_CACHE_TTL must be positive")
	}
	if c.RedisOpTimeout <= 0 {
		return fmt.Errorf("config: REDIS_OP_TIMEOUT must be positive")
	}
	for _, origin := range c.AllowedOrigins {
		// Allowed origins are echoed back with credentials.
		if strings.TrimSpace(origin) == "*" {
			return fmt.Errorf("config: ALLOWED_ORIGINS must list explicit origins, not *")
		}
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginAllowed reports whether a browser origin may call the API with credentials.
func (c *Config) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}
