package schedule

import "time"

// Status summarizes the reminder state of a user.
type Status struct {
	UserID          int64
	Available       bool
	Reasons         []Reason
	DueCount        int
	EligibleCount   int
	RecallsToday    int
	MaxDailyRecalls int
	// NextNotificationAt is the earliest time the rate limit allows a reminder.
	NextNotificationAt time.Time
}

// BuildStatus reports whether a reminder could be sent at now. Unlike
// IsAvailable it also accounts for the rate limit, the daily cap and due items.
func BuildStatus(prefs Preferences, pool Pool, sentToday int, now time.Time) Status {
	available, reasons := IsAvailable(prefs, now)
	if IsRateLimited(prefs, now) {
		reasons = append(reasons, ReasonRateLimited)
	}
	if IsDailyCapReached(prefs, sentToday) {
		reasons = append(reasons, ReasonDailyLimitReached)
	}
	if len(pool.Due) == 0 {
		reasons = append(reasons, ReasonNothingDue)
	}
	return Status{
		UserID:             prefs.UserID,
		Available:          available && len(reasons) == 0,
		Reasons:            reasons,
		DueCount:           len(pool.Due),
		EligibleCount:      pool.Len(),
		RecallsToday:       sentToday,
		MaxDailyRecalls:    prefs.MaxDailyRecalls,
		NextNotificationAt: NextNotificationAt(prefs, now),
	}
}
