package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/datasync"
	"github.com/at-ishikawa/recall/internal/learning"
)

func newItemCommand() *cobra.Command {
	itemCommand := &cobra.Command{
		Use:   "items",
		Short: "Manage learning items",
	}
	itemCommand.AddCommand(newItemAddCommand(), newItemListCommand(), newItemImportCommand(), newItemExportCommand())
	return itemCommand
}

func newItemAddCommand() *cobra.Command {
	var params learning.NewItemParams
	var kind string
	var folderID int64

	command := &cobra.Command{
		Use:   "add",
		Short: "Add a recall card or a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			params.UserID = userID
			params.Kind = learning.Kind(kind)
			if cmd.Flags().Changed("folder") {
				params.FolderID = &folderID
			}

			return withRepositories(func(_ *config.Config, repos *repositories) error {
				item, err := learning.NewItem(params, now())
				if err != nil {
					return err
				}
				if err := repos.items.Create(cmd.Context(), &item); err != nil {
					return fmt.Errorf("items.Create > %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added item %d, due %s\n", item.ID, item.NextReviewAt.Format("2006-01-02 15:04"))
				return err
			})
		},
	}

	flags := command.Flags()
	flags.StringVar(&kind, "kind", string(learning.KindRecall), "Kind of the item. Options: recall, note")
	flags.StringVar(&params.Prompt, "prompt", "", "Question of a recall card or the text of a note")
	flags.StringVar(&params.Answer, "answer", "", "Answer of a recall card")
	flags.StringVar(&params.Subject, "subject", "", "Optional label")
	flags.Int64Var(&folderID, "folder", 0, "Folder the item belongs to")
	return command
}

func newItemListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learning items with their schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepositories(func(_ *config.Config, repos *repositories) error {
				items, err := repos.items.FindByUser(cmd.Context(), userID)
				if err != nil {
					return fmt.Errorf("items.FindByUser > %w", err)
				}

				out := cmd.OutOrStdout()
				due := color.New(color.FgYellow)
				current := now()
				for _, item := range items {
					line := fmt.Sprintf("%4d  %-6s %-9s next %s  interval %3dd  ease %.2f  %s",
						item.ID, item.Kind, item.Stage(), item.NextReviewAt.Local().Format("2006-01-02 15:04"),
						item.IntervalDays, item.EaseFactor, item.Prompt)
					if item.IsDue(current) {
						if _, err := due.Fprintln(out, line); err != nil {
							return err
						}
						continue
					}
					if _, err := fmt.Fprintln(out, line); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newItemImportCommand() *cobra.Command {
	var opts datasync.ImportOptions

	command := &cobra.Command{
		Use:   "import <file>",
		Short: "Import items from a CSV file with front, back, subject and folder columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				err = errors.Join(err, file.Close())
			}()

			items, rowErrs, err := datasync.ReadCSV(file, userID, now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			warning := color.New(color.FgYellow)
			for _, rowErr := range rowErrs {
				if _, err := warning.Fprintf(out, "  [WARN]  %v\n", rowErr); err != nil {
					return err
				}
			}

			return withRepositories(func(_ *config.Config, repos *repositories) error {
				importer := datasync.NewImporter(repos.items, repos.reviewLogs, repos.preferences, out)
				result, err := importer.ImportItems(cmd.Context(), userID, items, opts)
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				if opts.DryRun {
					if _, err := fmt.Fprintln(out, "(dry-run mode, no changes made)"); err != nil {
						return err
					}
				}
				_, err = fmt.Fprintf(out, "Items: %d new, %d skipped, %d updated, %d invalid row(s)\n",
					result.ItemsNew, result.ItemsSkipped, result.ItemsUpdated, len(rowErrs))
				return err
			})
		},
	}

	flags := command.Flags()
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Preview changes without storing items")
	flags.BoolVar(&opts.UpdateExisting, "update-existing", false, "Overwrite items with the same kind and prompt")
	return command
}

func newItemExportCommand() *cobra.Command {
	var output string

	command := &cobra.Command{
		Use:   "export",
		Short: "Export items to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepositories(func(_ *config.Config, repos *repositories) (err error) {
				items, err := repos.items.FindByUser(cmd.Context(), userID)
				if err != nil {
					return fmt.Errorf("items.FindByUser > %w", err)
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					file, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("os.Create(%s) > %w", output, err)
					}
					defer func() {
						err = errors.Join(err, file.Close())
					}()
					w = file
				}
				return datasync.WriteCSV(w, items)
			})
		},
	}

	command.Flags().StringVarP(&output, "output", "o", "", "File to write. Defaults to stdout")
	return command
}
