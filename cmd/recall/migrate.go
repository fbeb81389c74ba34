package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/database"
	"github.com/at-ishikawa/recall/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd)
		},
	}
}

func runMigrations(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != config.StorageDriverMySQL {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Nothing to migrate for the %s storage driver\n", cfg.Storage.Driver)
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	applied, err := database.Migrate(cmd.Context(), db, schemas.Migrations)
	if err != nil {
		return fmt.Errorf("database.Migrate > %w", err)
	}
	if len(applied) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return err
	}
	for _, version := range applied {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version); err != nil {
			return err
		}
	}
	return nil
}
