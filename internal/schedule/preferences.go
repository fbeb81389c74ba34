// Package schedule decides when a user may be reminded and which learning
// items are selected for a reminder or a study session.
package schedule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/validation"
)

const (
	DefaultFrequencyMinutes = 30
	DefaultMaxDailyRecalls  = 20
	DefaultTimezone         = "UTC"
)

// AllDays lists ISO weekdays, 1 = Monday through 7 = Sunday.
var AllDays = []int{1, 2, 3, 4, 5, 6, 7}

// Preferences are the scheduling preferences of one user.
type Preferences struct {
	UserID        int64
	RecallEnabled bool
	// RecallPaused overrides RecallEnabled.
	RecallPaused bool
	FocusMode    bool
	SleepWindow  *TimeWindow
	ActiveWindow *TimeWindow
	// ActiveDays holds ISO weekdays; empty means every day.
	ActiveDays       []int
	FrequencyMinutes int
	// MaxDailyRecalls of zero disables the daily cap.
	MaxDailyRecalls int
	// ScopeFolderIDs restricts eligible items when non-empty.
	ScopeFolderIDs     []int64
	Location           *time.Location
	LastNotificationAt *time.Time
}

// DefaultPreferences returns the preferences of a user who never changed them.
func DefaultPreferences(userID int64) Preferences {
	return Preferences{
		UserID:           userID,
		RecallEnabled:    true,
		ActiveDays:       slices.Clone(AllDays),
		FrequencyMinutes: DefaultFrequencyMinutes,
		MaxDailyRecalls:  DefaultMaxDailyRecalls,
		Location:         time.UTC,
	}
}

// Record is the stored form of Preferences.
type Record struct {
	UserID             int64      `db:"user_id" yaml:"user_id" validate:"gt=0"`
	RecallEnabled      bool       `db:"recall_enabled" yaml:"recall_enabled"`
	RecallPaused       bool       `db:"recall_paused" yaml:"recall_paused"`
	FocusMode          bool       `db:"focus_mode" yaml:"focus_mode"`
	SleepStart         *string    `db:"sleep_start" yaml:"sleep_start,omitempty" validate:"omitempty,clock"`
	SleepEnd           *string    `db:"sleep_end" yaml:"sleep_end,omitempty" validate:"omitempty,clock"`
	ActiveStart        *string    `db:"active_start" yaml:"active_start,omitempty" validate:"omitempty,clock"`
	ActiveEnd          *string    `db:"active_end" yaml:"active_end,omitempty" validate:"omitempty,clock"`
	ActiveDays         string     `db:"active_days" yaml:"active_days"`
	FrequencyMinutes   int        `db:"frequency_minutes" yaml:"frequency_minutes" validate:"gte=0"`
	MaxDailyRecalls    int        `db:"max_daily_recalls" yaml:"max_daily_recalls" validate:"gte=0"`
	ScopeFolderIDs     *string    `db:"scope_folder_ids" yaml:"scope_folder_ids,omitempty"`
	Timezone           string     `db:"timezone" yaml:"timezone"`
	LastNotificationAt *time.Time `db:"last_notification_at" yaml:"last_notification_at,omitempty"`
	UpdatedAt          time.Time  `db:"updated_at" yaml:"updated_at"`
}

// NewPreferences validates a stored record and converts it.
func NewPreferences(record Record) (Preferences, error) {
	v, err := validation.Default()
	if err != nil {
		return Preferences{}, fmt.Errorf("validation.Default() > %w", err)
	}
	if err := v.Struct(record); err != nil {
		return Preferences{}, fmt.Errorf("%w: %w", learning.ErrInvalidInput, err)
	}

	sleepWindow, err := ParseTimeWindow(record.SleepStart, record.SleepEnd)
	if err != nil {
		return Preferences{}, fmt.Errorf("sleep window: %w", err)
	}
	activeWindow, err := ParseTimeWindow(record.ActiveStart, record.ActiveEnd)
	if err != nil {
		return Preferences{}, fmt.Errorf("active window: %w", err)
	}
	activeDays, err := parseActiveDays(record.ActiveDays)
	if err != nil {
		return Preferences{}, err
	}
	var scope []int64
	if record.ScopeFolderIDs != nil {
		scope, err = parseFolderIDs(*record.ScopeFolderIDs)
		if err != nil {
			return Preferences{}, err
		}
	}

	timezone := record.Timezone
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Preferences{}, fmt.Errorf("%w: unknown timezone %q", learning.ErrInvalidInput, timezone)
	}

	return Preferences{
		UserID:             record.UserID,
		RecallEnabled:      record.RecallEnabled,
		RecallPaused:       record.RecallPaused,
		FocusMode:          record.FocusMode,
		SleepWindow:        sleepWindow,
		ActiveWindow:       activeWindow,
		ActiveDays:         activeDays,
		FrequencyMinutes:   record.FrequencyMinutes,
		MaxDailyRecalls:    record.MaxDailyRecalls,
		ScopeFolderIDs:     scope,
		Location:           location,
		LastNotificationAt: record.LastNotificationAt,
	}, nil
}

// Record converts the preferences to their stored form.
func (p Preferences) Record() Record {
	record := Record{
		UserID:             p.UserID,
		RecallEnabled:      p.RecallEnabled,
		RecallPaused:       p.RecallPaused,
		FocusMode:          p.FocusMode,
		ActiveDays:         joinInts(p.ActiveDays),
		FrequencyMinutes:   p.FrequencyMinutes,
		MaxDailyRecalls:    p.MaxDailyRecalls,
		Timezone:           p.location().String(),
		LastNotificationAt: p.LastNotificationAt,
	}
	if p.SleepWindow != nil {
		start, end := p.SleepWindow.Bounds()
		record.SleepStart, record.SleepEnd = &start, &end
	}
	if p.ActiveWindow != nil {
		start, end := p.ActiveWindow.Bounds()
		record.ActiveStart, record.ActiveEnd = &start, &end
	}
	if len(p.ScopeFolderIDs) > 0 {
		scope := joinInts(p.ScopeFolderIDs)
		record.ScopeFolderIDs = &scope
	}
	return record
}

// FolderScope returns the folder filter, or nil when every folder is eligible.
func (p Preferences) FolderScope() map[int64]struct{} {
	if len(p.ScopeFolderIDs) == 0 {
		return nil
	}
	scope := make(map[int64]struct{}, len(p.ScopeFolderIDs))
	for _, id := range p.ScopeFolderIDs {
		scope[id] = struct{}{}
	}
	return scope
}

func (p Preferences) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Local converts t to the user's timezone.
func (p Preferences) Local(t time.Time) time.Time {
	return t.In(p.location())
}

func parseActiveDays(value string) ([]int, error) {
	days, err := parseInts[int](value)
	if err != nil {
		return nil, fmt.Errorf("%w: active days %q: %w", learning.ErrInvalidInput, value, err)
	}
	for _, day := range days {
		if day < 1 || day > 7 {
			return nil, fmt.Errorf("%w: active day %d must be between 1 (Monday) and 7 (Sunday)", learning.ErrInvalidInput, day)
		}
	}
	slices.Sort(days)
	return slices.Compact(days), nil
}

func parseFolderIDs(value string) ([]int64, error) {
	ids, err := parseInts[int64](value)
	if err != nil {
		return nil, fmt.Errorf("%w: scope folder ids %q: %w", learning.ErrInvalidInput, value, err)
	}
	return ids, nil
}

func parseInts[T int | int64](value string) ([]T, error) {
	var result []T
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, T(n))
	}
	return result, nil
}

func joinInts[T int | int64](values []T) string {
	fields := make([]string, 0, len(values))
	for _, v := range values {
		fields = append(fields, strconv.FormatInt(int64(v), 10))
	}
	return strings.Join(fields, ",")
}
