package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/schedule"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a reminder could be sent now and why not",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepositories(func(_ *config.Config, repos *repositories) error {
				ctx := cmd.Context()
				current := now()

				prefs, err := repos.preferences.FindByUser(ctx, userID)
				if err != nil {
					return fmt.Errorf("preferences.FindByUser > %w", err)
				}
				items, err := repos.items.FindByUser(ctx, userID)
				if err != nil {
					return fmt.Errorf("items.FindByUser > %w", err)
				}
				sentToday, err := repos.dispatches.CountSince(ctx, userID, schedule.StartOfDay(prefs, current))
				if err != nil {
					return fmt.Errorf("dispatches.CountSince > %w", err)
				}

				status := schedule.BuildStatus(prefs, schedule.EligiblePool(items, prefs, current), sentToday, current)
				return printStatus(cmd.OutOrStdout(), prefs, status)
			})
		},
	}
}

func printStatus(out io.Writer, prefs schedule.Preferences, status schedule.Status) error {
	if status.Available {
		if _, err := color.New(color.FgGreen).Fprintln(out, "Reminders: available"); err != nil {
			return err
		}
	} else {
		reasons := make([]string, 0, len(status.Reasons))
		for _, reason := range status.Reasons {
			reasons = append(reasons, string(reason))
		}
		if _, err := color.New(color.FgRed).Fprintf(out, "Reminders: unavailable (%s)\n", strings.Join(reasons, ", ")); err != nil {
			return err
		}
	}

	limit := "no limit"
	if status.MaxDailyRecalls > 0 {
		limit = fmt.Sprintf("%d", status.MaxDailyRecalls)
	}
	_, err := fmt.Fprintf(out, "Due items:      %d of %d eligible\nRecalls today:  %d / %s\nNext allowed:   %s\n",
		status.DueCount, status.EligibleCount,
		status.RecallsToday, limit,
		prefs.Local(status.NextNotificationAt).Format(time.DateTime))
	return err
}

func newPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause reminders until resumed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPaused(cmd, true)
		},
	}
}

func newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume paused reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPaused(cmd, false)
		},
	}
}

func setPaused(cmd *cobra.Command, paused bool) error {
	return withRepositories(func(_ *config.Config, repos *repositories) error {
		if err := repos.preferences.SetPaused(cmd.Context(), userID, paused); err != nil {
			return fmt.Errorf("preferences.SetPaused > %w", err)
		}
		state := "resumed"
		if paused {
			state = "paused"
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Reminders %s\n", state)
		return err
	})
}
