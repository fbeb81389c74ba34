package schedule

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
)

const clockLayout = "15:04"

// ClockTime is a time of day, the elapsed time since midnight.
// Configured bounds have minute resolution; times taken from a clock keep
// their seconds, so an end bound of 07:00 does not cover 07:00:30.
type ClockTime time.Duration

// ParseClockTime parses "HH:MM" on a 24 hour clock.
func ParseClockTime(value string) (ClockTime, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: time of day %q must be in HH:MM format", learning.ErrInvalidInput, value)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

// NewClockTime returns the clock time hour:minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ClockOf returns the time of day of t in its own location.
func ClockOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute()) +
		ClockTime(time.Duration(t.Second())*time.Second+time.Duration(t.Nanosecond()))
}

// String formats the clock time as "HH:MM", dropping seconds.
func (c ClockTime) String() string {
	minutes := int(time.Duration(c) / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// TimeWindow is an inclusive range of times of day.
// A window whose start is after its end spans midnight.
type TimeWindow struct {
	Start ClockTime
	End   ClockTime
}

// ParseTimeWindow builds a window from two optional "HH:MM" bounds.
// It returns nil when both bounds are absent and ErrInvalidInput when only
// one is set or either cannot be parsed.
func ParseTimeWindow(start, end *string) (*TimeWindow, error) {
	if start == nil && end == nil {
		return nil, nil
	}
	if start == nil || end == nil {
		return nil, fmt.Errorf("%w: time window needs both a start and an end", learning.ErrInvalidInput)
	}
	startClock, err := ParseClockTime(*start)
	if err != nil {
		return nil, err
	}
	endClock, err := ParseClockTime(*end)
	if err != nil {
		return nil, err
	}
	return &TimeWindow{Start: startClock, End: endClock}, nil
}

// WrapsMidnight reports whether the window spans midnight.
func (w TimeWindow) WrapsMidnight() bool {
	return w.Start > w.End
}

// Contains reports whether c is inside the window, bounds included.
func (w TimeWindow) Contains(c ClockTime) bool {
	if w.WrapsMidnight() {
		return c >= w.Start || c <= w.End
	}
	return w.Start <= c && c <= w.End
}

// Bounds returns the window as "HH:MM" strings.
func (w TimeWindow) Bounds() (string, string) {
	return w.Start.String(), w.End.String()
}

func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
