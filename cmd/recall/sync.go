package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/datasync"
	"github.com/at-ishikawa/recall/internal/learning"
)

func newSyncCommand() *cobra.Command {
	var from, to string
	var fromDirectory, toDirectory string
	var opts datasync.ImportOptions

	command := &cobra.Command{
		Use:   "sync",
		Short: "Copy items, review history and preferences from one storage driver to another",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if fromDirectory == "" {
				fromDirectory = cfg.Storage.YAMLDirectory
			}
			if toDirectory == "" {
				toDirectory = cfg.Storage.YAMLDirectory
			}
			if from == to && (from != config.StorageDriverYAML || fromDirectory == toDirectory) {
				return fmt.Errorf("%w: source and target are the same %s storage", learning.ErrInvalidInput, from)
			}

			source, err := openDriver(cfg, from, fromDirectory)
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			defer func() {
				err = errors.Join(err, source.close())
			}()
			target, err := openDriver(cfg, to, toDirectory)
			if err != nil {
				return fmt.Errorf("target: %w", err)
			}
			defer func() {
				err = errors.Join(err, target.close())
			}()

			data, err := datasync.NewExporter(source.items, source.reviewLogs, source.preferences).Export(ctx, userID)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(target.items, target.reviewLogs, target.preferences, out)
			result, err := importer.Import(ctx, data, opts)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return printImportSummary(out, result, opts)
		},
	}

	flags := command.Flags()
	flags.StringVar(&from, "from", config.StorageDriverYAML, "Storage driver to read from. Options: yaml, mysql")
	flags.StringVar(&to, "to", config.StorageDriverMySQL, "Storage driver to write to. Options: yaml, mysql")
	flags.StringVar(&fromDirectory, "from-directory", "", "YAML directory to read from. Defaults to storage.yaml_directory")
	flags.StringVar(&toDirectory, "to-directory", "", "YAML directory to write to. Defaults to storage.yaml_directory")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Preview changes without modifying the target")
	flags.BoolVar(&opts.UpdateExisting, "update-existing", false, "Update existing records with new data")
	return command
}

func printImportSummary(w io.Writer, result *datasync.ImportResult, opts datasync.ImportOptions) error {
	lines := []string{"\nImport Summary:"}
	if opts.DryRun {
		lines = append(lines, "  (dry-run mode, no changes made)")
	}
	lines = append(lines,
		fmt.Sprintf("  Items:        %d new, %d skipped, %d updated", result.ItemsNew, result.ItemsSkipped, result.ItemsUpdated),
		fmt.Sprintf("  Review logs:  %d new, %d skipped, %d warnings", result.ReviewLogsNew, result.ReviewLogsSkipped, result.ReviewLogsWarnings),
		fmt.Sprintf("  Preferences:  %d new, %d skipped, %d updated", result.PreferencesNew, result.PreferencesSkipped, result.PreferencesUpdated),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
