// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration brings the reference store schema up to date at startup.
//
// The schema is one table, reference.document, holding every reference
// collection as JSONB rows. Both binaries run [RunUp] before the first lookup
// or sync, so a fresh database is usable without a separate migration step.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// driverScheme is the URL scheme golang-migrate registers for pgx v5.
const driverScheme = "pgx5://"

/*
RunUp applies every pending migration found under migrationsPath.

Parameters:
  - dsn: string (postgres:// or postgresql:// URL, as in DATABASE_URL)
  - migrationsPath: string (directory of NNNNNN_name.up.sql files)
  - logger: *slog.Logger

Returns:
  - error: Source, connection or migration failures, or a dirty schema
*/
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, DriverURL(dsn))
	if err != nil {
		return fmt.Errorf("migration: open %s: %w", migrationsPath, err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if err := errors.Join(sourceErr, databaseErr); err != nil {
			logger.Warn("reference_schema_close_failed", slog.Any("error", err))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration: schema version %d is dirty; fix it by hand and force the version", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("reference_schema_current", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: apply: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("reference_schema_migrated",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// DriverURL rewrites a PostgreSQL URL to the pgx5 scheme the migrate driver expects.
// Other inputs are returned unchanged.
func DriverURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return driverScheme + rest
		}
	}
	return dsn
}

// migrateLogger routes golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("reference_schema_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
