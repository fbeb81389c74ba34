package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/schedule"
)

// WindowFlag is a time window written as "HH:MM-HH:MM", or "off" to clear it.
type WindowFlag struct {
	Window *schedule.TimeWindow
}

// Set implements pflag.Value.
func (f *WindowFlag) Set(v string) error {
	if v == "off" {
		f.Window = nil
		return nil
	}
	start, end, ok := strings.Cut(v, "-")
	if !ok {
		return fmt.Errorf("invalid window %q, expected HH:MM-HH:MM or off", v)
	}
	window, err := schedule.ParseTimeWindow(&start, &end)
	if err != nil {
		return err
	}
	f.Window = window
	return nil
}

// String implements pflag.Value.
func (f *WindowFlag) String() string {
	if f == nil || f.Window == nil {
		return "off"
	}
	return f.Window.String()
}

// Type implements pflag.Value.
func (f *WindowFlag) Type() string {
	return "WindowFlag"
}

// DaysFlag is a comma separated list of ISO weekdays.
type DaysFlag []int

// Set implements pflag.Value.
func (f *DaysFlag) Set(v string) error {
	var days []int
	for _, field := range strings.Split(v, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || day < 1 || day > 7 {
			return fmt.Errorf("invalid weekday %q, valid values are 1 (Monday) to 7 (Sunday)", field)
		}
		days = append(days, day)
	}
	*f = days
	return nil
}

// String implements pflag.Value.
func (f *DaysFlag) String() string {
	if f == nil {
		return ""
	}
	fields := make([]string, 0, len(*f))
	for _, day := range *f {
		fields = append(fields, strconv.Itoa(day))
	}
	return strings.Join(fields, ",")
}

// Type implements pflag.Value.
func (f *DaysFlag) Type() string {
	return "DaysFlag"
}

var (
	_ pflag.Value = (*WindowFlag)(nil)
	_ pflag.Value = (*DaysFlag)(nil)
)

func newPreferencesCommand() *cobra.Command {
	preferencesCommand := &cobra.Command{
		Use:   "preferences",
		Short: "Show or change reminder preferences",
	}
	preferencesCommand.AddCommand(newPreferencesShowCommand(), newPreferencesSetCommand())
	return preferencesCommand
}

func newPreferencesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show reminder preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepositories(func(_ *config.Config, repos *repositories) error {
				prefs, err := repos.preferences.FindByUser(cmd.Context(), userID)
				if err != nil {
					return fmt.Errorf("preferences.FindByUser > %w", err)
				}
				return printPreferences(cmd.OutOrStdout(), prefs)
			})
		},
	}
}

func newPreferencesSetCommand() *cobra.Command {
	var (
		enabled   bool
		focus     bool
		sleep     WindowFlag
		active    WindowFlag
		days      DaysFlag
		frequency int
		maxDaily  int
		folders   []int64
		timezone  string
	)

	command := &cobra.Command{
		Use:   "set",
		Short: "Change reminder preferences. Only the given flags are changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return withRepositories(func(_ *config.Config, repos *repositories) error {
				prefs, err := repos.preferences.FindByUser(cmd.Context(), userID)
				if err != nil {
					return fmt.Errorf("preferences.FindByUser > %w", err)
				}

				if flags.Changed("enabled") {
					prefs.RecallEnabled = enabled
				}
				if flags.Changed("focus") {
					prefs.FocusMode = focus
				}
				if flags.Changed("sleep") {
					prefs.SleepWindow = sleep.Window
				}
				if flags.Changed("active") {
					prefs.ActiveWindow = active.Window
				}
				if flags.Changed("days") {
					prefs.ActiveDays = days
				}
				if flags.Changed("frequency") {
					prefs.FrequencyMinutes = frequency
				}
				if flags.Changed("max-daily") {
					prefs.MaxDailyRecalls = maxDaily
				}
				if flags.Changed("folders") {
					prefs.ScopeFolderIDs = folders
				}
				if flags.Changed("timezone") {
					location, err := time.LoadLocation(timezone)
					if err != nil {
						return fmt.Errorf("invalid timezone %q: %w", timezone, err)
					}
					prefs.Location = location
				}

				// Round trip through the stored form to validate the result
				validated, err := schedule.NewPreferences(prefs.Record())
				if err != nil {
					return err
				}
				if err := repos.preferences.Save(cmd.Context(), validated); err != nil {
					return fmt.Errorf("preferences.Save > %w", err)
				}
				return printPreferences(cmd.OutOrStdout(), validated)
			})
		},
	}

	flags := command.Flags()
	flags.BoolVar(&enabled, "enabled", true, "Enable reminders")
	flags.BoolVar(&focus, "focus", false, "Suppress reminders while focusing")
	flags.Var(&sleep, "sleep", "Sleep window, e.g. 22:00-07:00, or off")
	flags.Var(&active, "active", "Active hours, e.g. 09:00-18:00, or off")
	flags.Var(&days, "days", "Active weekdays, 1 (Monday) to 7 (Sunday), e.g. 1,2,3,4,5")
	flags.IntVar(&frequency, "frequency", schedule.DefaultFrequencyMinutes, "Minimum minutes between reminders")
	flags.IntVar(&maxDaily, "max-daily", schedule.DefaultMaxDailyRecalls, "Maximum reminders per day, 0 for no limit")
	flags.Int64SliceVar(&folders, "folders", nil, "Only remind items of these folders")
	flags.StringVar(&timezone, "timezone", schedule.DefaultTimezone, "IANA timezone of the hours and weekdays")
	return command
}

func printPreferences(out io.Writer, prefs schedule.Preferences) error {
	window := func(w *schedule.TimeWindow) string {
		if w == nil {
			return "off"
		}
		return w.String()
	}
	record := prefs.Record()
	folders := "all"
	if record.ScopeFolderIDs != nil {
		folders = *record.ScopeFolderIDs
	}
	_, err := fmt.Fprintf(out,
		"Enabled:     %t\nPaused:      %t\nFocus mode:  %t\nSleep:       %s\nActive:      %s\nDays:        %s\nFrequency:   %d min\nDaily limit: %d\nFolders:     %s\nTimezone:    %s\n",
		prefs.RecallEnabled, prefs.RecallPaused, prefs.FocusMode,
		window(prefs.SleepWindow), window(prefs.ActiveWindow),
		record.ActiveDays, prefs.FrequencyMinutes, prefs.MaxDailyRecalls,
		folders, record.Timezone,
	)
	return err
}
