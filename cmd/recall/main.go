package main

import (
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var (
	configFile string
	userID     int64
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "recall",
		Short:         "Spaced repetition reviews and reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.PersistentFlags().Int64Var(&userID, "user", 1, "ID of the user to act as")

	rootCommand.AddCommand(
		newItemCommand(),
		newSessionCommand(),
		newReviewCommand(),
		newStatsCommand(),
		newStatusCommand(),
		newPauseCommand(),
		newResumeCommand(),
		newPreferencesCommand(),
		newDispatchCommand(),
		newMigrateCommand(),
		newSyncCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}
