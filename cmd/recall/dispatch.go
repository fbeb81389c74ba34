package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/bootstrap"
	"github.com/at-ishikawa/recall/internal/dispatch"
)

func newDispatchCommand() *cobra.Command {
	var once bool

	command := &cobra.Command{
		Use:   "dispatch",
		Short: "Send reminders to available users on the configured interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repos, err := openRepositories(cfg)
			if err != nil {
				return err
			}

			sink := newSink(cfg.Dispatch.Webhook)
			dispatcher := dispatch.NewDispatcher(repos.preferences, repos.items, repos.dispatches, sink, cfg.Dispatch.Concurrency)

			app := newDispatchApp(repos, sink)
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				if !once {
					return dispatcher.Run(ctx, cfg.Dispatch.Interval)
				}
				decisions, err := dispatcher.RunOnce(ctx, now())
				if printErr := printDecisions(cmd.OutOrStdout(), decisions); printErr != nil {
					return errors.Join(err, printErr)
				}
				return err
			})
		},
	}
	command.Flags().BoolVar(&once, "once", false, "Run a single dispatch round and exit")
	return command
}

// newDispatchApp closes the storage and the sink once the dispatcher stops.
func newDispatchApp(repos *repositories, sink dispatch.Sink) *bootstrap.App {
	app := bootstrap.New()
	app.AddShutdownHook(func(ctx context.Context) error {
		return repos.close()
	})
	if closer, ok := sink.(io.Closer); ok {
		app.AddShutdownHook(func(ctx context.Context) error {
			return closer.Close()
		})
	}
	return app
}

func printDecisions(out io.Writer, decisions []dispatch.Decision) error {
	for _, decision := range decisions {
		var line string
		switch {
		case decision.Sent():
			line = fmt.Sprintf("user %d: sent item %d (event %s)", decision.UserID, decision.Event.ItemID, decision.Event.ID)
		case len(decision.Reasons) > 0:
			reasons := make([]string, 0, len(decision.Reasons))
			for _, reason := range decision.Reasons {
				reasons = append(reasons, string(reason))
			}
			line = fmt.Sprintf("user %d: skipped (%s)", decision.UserID, strings.Join(reasons, ", "))
		default:
			line = fmt.Sprintf("user %d: failed", decision.UserID)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
