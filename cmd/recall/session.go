package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/study"
)

func newSessionCommand() *cobra.Command {
	var batchSize int

	command := &cobra.Command{
		Use:   "session",
		Short: "Study the items due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepositories(func(cfg *config.Config, repos *repositories) error {
				size := cfg.Session.BatchSize
				if cmd.Flags().Changed("size") {
					size = batchSize
				}
				service := newStudyService(repos)
				items, err := service.NextReviewBatch(cmd.Context(), userID, size, now())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Nothing to review. Come back later.")
					return err
				}

				s := &sessionCLI{
					service: service,
					scanner: bufio.NewScanner(cmd.InOrStdin()),
					out:     cmd.OutOrStdout(),
					bold:    color.New(color.Bold),
					correct: color.New(color.FgGreen),
					wrong:   color.New(color.FgRed),
				}
				return s.run(cmd, items)
			})
		},
	}
	command.Flags().IntVar(&batchSize, "size", 0, "Number of items in the session (default from config)")
	return command
}

type sessionCLI struct {
	service *study.Service
	scanner *bufio.Scanner
	out     io.Writer
	bold    *color.Color
	correct *color.Color
	wrong   *color.Color
}

func (s *sessionCLI) run(cmd *cobra.Command, items []learning.Item) error {
	for i, item := range items {
		if _, err := s.bold.Fprintf(s.out, "[%d/%d] %s\n", i+1, len(items), item.Prompt); err != nil {
			return err
		}
		if item.Kind == learning.KindRecall {
			if _, err := fmt.Fprint(s.out, "Press Enter to show the answer"); err != nil {
				return err
			}
			if _, ok := s.readLine(); !ok {
				return nil
			}
			if _, err := fmt.Fprintf(s.out, "Answer: %s\n", item.Answer); err != nil {
				return err
			}
		}

		quality, ok, err := s.readQuality()
		if err != nil || !ok {
			return err
		}
		reviewed, err := s.service.Review(cmd.Context(), item.ID, quality, now())
		if err != nil {
			return err
		}
		if err := s.printResult(reviewed, quality); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.out, "Session finished: %d item(s) reviewed.\n", len(items))
	return err
}

// readQuality asks until a grade between 0 and 5 is entered. ok is false at
// the end of input.
func (s *sessionCLI) readQuality() (int, bool, error) {
	for {
		if _, err := fmt.Fprintf(s.out, "How well did you recall it? (%d-%d): ", learning.MinQuality, learning.MaxQuality); err != nil {
			return 0, false, err
		}
		line, ok := s.readLine()
		if !ok {
			return 0, false, nil
		}
		quality, err := strconv.Atoi(line)
		if err == nil && learning.ValidateQuality(quality) == nil {
			return quality, true, nil
		}
		if _, err := s.wrong.Fprintf(s.out, "%q is not a grade between %d and %d\n", line, learning.MinQuality, learning.MaxQuality); err != nil {
			return 0, false, err
		}
	}
}

func (s *sessionCLI) readLine() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *sessionCLI) printResult(item learning.Item, quality int) error {
	next := fmt.Sprintf("next review in %d day(s) at %s", item.IntervalDays, item.NextReviewAt.Local().Format("2006-01-02 15:04"))
	if quality >= learning.PassingQuality {
		_, err := s.correct.Fprintf(s.out, "Recalled, %s\n\n", next)
		return err
	}
	_, err := s.wrong.Fprintf(s.out, "Forgotten, %s\n\n", next)
	return err
}

func newReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review <item id> <quality>",
		Short: "Record the recall quality (0-5) of one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q: %w", args[0], err)
			}
			quality, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quality %q: %w", args[1], err)
			}

			return withRepositories(func(_ *config.Config, repos *repositories) error {
				reviewed, err := newStudyService(repos).Review(cmd.Context(), itemID, quality, now())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Item %d: interval %d day(s), ease %.2f, next review %s\n",
					reviewed.ID, reviewed.IntervalDays, reviewed.EaseFactor, reviewed.NextReviewAt.Format(time.RFC3339))
				return err
			})
		},
	}
}
