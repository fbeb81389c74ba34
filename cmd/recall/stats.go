package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var year, month int

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show item stages and monthly review history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year")
			}
			return withRepositories(func(_ *config.Config, repos *repositories) error {
				service := newStudyService(repos)
				summary, err := service.Stats(cmd.Context(), userID, now())
				if err != nil {
					return err
				}
				history, err := service.History(cmd.Context(), userID, year, month)
				if err != nil {
					return err
				}
				return printStatistics(cmd.OutOrStdout(), summary, history)
			})
		},
	}

	command.Flags().IntVar(&year, "year", 0, "Only show this year")
	command.Flags().IntVar(&month, "month", 0, "Only show this month of --year")
	return command
}

func printStatistics(out io.Writer, summary statistics.Summary, history statistics.StatisticsResult) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(out, "Items"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "  Total: %d  Due: %d  New: %d  Learning: %d  Mature: %d\n\n",
		summary.Total, summary.Due, summary.New, summary.Learning, summary.Mature); err != nil {
		return err
	}

	if _, err := bold.Fprintln(out, "Reviews"); err != nil {
		return err
	}
	if len(history.Periods) == 0 {
		_, err := fmt.Fprintln(out, "  No reviews yet")
		return err
	}
	if _, err := fmt.Fprintf(out, "  %-8s %8s %9s %7s\n", "Period", "Learned", "Relearns", "Lapses"); err != nil {
		return err
	}
	for _, period := range history.Periods {
		if _, err := fmt.Fprintf(out, "  %-8s %8d %9d %7d\n",
			period.Period, period.LearnedCount, period.RelearnsCount, period.LapsesCount); err != nil {
			return err
		}
	}
	aggregate := history.Aggregate
	_, err := fmt.Fprintf(out, "  %-8s %8d %9d %7d\n", "Total", aggregate.LearnedCount, aggregate.RelearnsCount, aggregate.LapsesCount)
	return err
}
