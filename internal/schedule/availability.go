package schedule

import (
	"slices"
	"time"
)

// Reason explains why a user does not receive a reminder.
type Reason string

const (
	ReasonPaused             Reason = "paused"
	ReasonDisabled           Reason = "disabled"
	ReasonFocusMode          Reason = "focus mode"
	ReasonSleepSchedule      Reason = "sleep schedule"
	ReasonOutsideActiveHours Reason = "outside active hours"
	ReasonInactiveDay        Reason = "inactive day"
	ReasonRateLimited        Reason = "rate limited"
	ReasonDailyLimitReached  Reason = "daily limit reached"
	ReasonNothingDue         Reason = "nothing due"
)

// IsAvailable reports whether the user may be reminded at now and, when not,
// every reason that applies.
func IsAvailable(prefs Preferences, now time.Time) (bool, []Reason) {
	var reasons []Reason
	if prefs.RecallPaused {
		reasons = append(reasons, ReasonPaused)
	}
	if !prefs.RecallEnabled {
		reasons = append(reasons, ReasonDisabled)
	}
	if prefs.FocusMode {
		reasons = append(reasons, ReasonFocusMode)
	}

	local := prefs.Local(now)
	clock := ClockOf(local)
	if prefs.SleepWindow != nil && prefs.SleepWindow.Contains(clock) {
		reasons = append(reasons, ReasonSleepSchedule)
	}
	if prefs.ActiveWindow != nil && !prefs.ActiveWindow.Contains(clock) {
		reasons = append(reasons, ReasonOutsideActiveHours)
	}
	if len(prefs.ActiveDays) > 0 && !slices.Contains(prefs.ActiveDays, ISOWeekday(local)) {
		reasons = append(reasons, ReasonInactiveDay)
	}
	return len(reasons) == 0, reasons
}

// ISOWeekday returns the weekday of t with Monday = 1 and Sunday = 7.
func ISOWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// IsRateLimited reports whether the last reminder was sent less than
// FrequencyMinutes before now.
func IsRateLimited(prefs Preferences, now time.Time) bool {
	if prefs.LastNotificationAt == nil {
		return false
	}
	frequency := time.Duration(prefs.FrequencyMinutes) * time.Minute
	return now.Sub(*prefs.LastNotificationAt) < frequency
}

// NextNotificationAt returns the earliest time the rate limit allows the next
// reminder. It returns now when the user was never reminded.
func NextNotificationAt(prefs Preferences, now time.Time) time.Time {
	if prefs.LastNotificationAt == nil {
		return now
	}
	next := prefs.LastNotificationAt.Add(time.Duration(prefs.FrequencyMinutes) * time.Minute)
	if next.Before(now) {
		return now
	}
	return next
}

// IsDailyCapReached reports whether sentToday reminders exhaust the daily cap.
func IsDailyCapReached(prefs Preferences, sentToday int) bool {
	return prefs.MaxDailyRecalls > 0 && sentToday >= prefs.MaxDailyRecalls
}

// StartOfDay returns local midnight of now in the user's timezone.
func StartOfDay(prefs Preferences, now time.Time) time.Time {
	local := prefs.Local(now)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
