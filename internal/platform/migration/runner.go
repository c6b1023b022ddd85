// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies each service's SQL schema at startup using
// golang-migrate. The auth service owns migrations/auth and the task service
// owns migrations/tasks; each tracks its own version table so both can share
// one database.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies all pending migrations for one service.
//
// # Parameters
//   - dsn: postgres:// URL of the shared database.
//   - migrationsPath: Filesystem path to the service's migrations directory.
//   - versionTable: Name of the golang-migrate bookkeeping table for this service.
//   - logger: Structured logger for migration events.
func RunUp(dsn, migrationsPath, versionTable string, logger *slog.Logger) error {
	databaseURL, err := migrateURL(dsn, versionTable)
	if err != nil {
		return err
	}

	migrator, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if err := errors.Join(sourceError, dbError); err != nil {
			logger.Error("migration_close_failed", slog.Any("error", err))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	fromVersion, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: %s is dirty at version %d", versionTable, fromVersion)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.String("table", versionTable), slog.Uint64("version", uint64(fromVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	toVersion, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.String("table", versionTable),
		slog.Uint64("from_version", uint64(fromVersion)),
		slog.Uint64("to_version", uint64(toVersion)),
	)

	return nil
}

// migrateURL rewrites a postgres DSN to the pgx5:// scheme and pins the version table.
func migrateURL(dsn, versionTable string) (string, error) {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			dsn = "pgx5://" + strings.TrimPrefix(dsn, prefix)
			break
		}
	}

	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Scheme != "pgx5" {
		return "", fmt.Errorf("migration: DATABASE_URL must be a postgres:// URL")
	}

	query := parsed.Query()
	query.Set("x-migrations-table", versionTable)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool { return false }
