package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"github.com/jmoiron/sqlx"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) NOT NULL,
    applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    PRIMARY KEY (version)
)`

// Migrate applies every *.sql file in migrations that is not yet recorded in
// schema_migrations, in lexical order. It returns the applied versions.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("db.ExecContext(create schema_migrations) > %w", err)
	}

	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob(migrations) > %w", err)
	}
	sort.Strings(files)

	var applied []string
	if err := db.SelectContext(ctx, &applied, "SELECT version FROM schema_migrations ORDER BY version"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(schema_migrations) > %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	var versions []string
	for _, file := range files {
		version := path.Base(file)
		if done[version] {
			continue
		}
		body, err := fs.ReadFile(migrations, file)
		if err != nil {
			return versions, fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}

		if err := RunInTx(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return fmt.Errorf("tx.ExecContext(%s) > %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
				return fmt.Errorf("tx.ExecContext(record %s) > %w", version, err)
			}
			return nil
		}); err != nil {
			return versions, err
		}
		slog.Default().Info("applied migration", "version", version)
		versions = append(versions, version)
	}
	return versions, nil
}
