package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/schedule/mock_repository.go -package=mock_schedule

// PreferencesRepository stores scheduling preferences.
type PreferencesRepository interface {
	// FindByUser returns DefaultPreferences when the user never saved any.
	FindByUser(ctx context.Context, userID int64) (Preferences, error)
	// FindEnabled returns the preferences of every user with reminders enabled.
	FindEnabled(ctx context.Context) ([]Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
	UpdateLastNotificationAt(ctx context.Context, userID int64, at time.Time) error
	SetPaused(ctx context.Context, userID int64, paused bool) error
}

// Dispatch is one reminder sent to a user.
type Dispatch struct {
	ID           int64     `db:"id" yaml:"id"`
	EventID      string    `db:"event_id" yaml:"event_id"`
	UserID       int64     `db:"user_id" yaml:"user_id"`
	ItemID       int64     `db:"item_id" yaml:"item_id"`
	DispatchedAt time.Time `db:"dispatched_at" yaml:"dispatched_at"`
}

// DispatchLog records sent reminders to enforce the daily cap.
type DispatchLog interface {
	Record(ctx context.Context, dispatch *Dispatch) error
	CountSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

// DBPreferencesRepository implements PreferencesRepository using MySQL.
type DBPreferencesRepository struct {
	db *sqlx.DB
}

// NewDBPreferencesRepository creates a new DBPreferencesRepository.
func NewDBPreferencesRepository(db *sqlx.DB) *DBPreferencesRepository {
	return &DBPreferencesRepository{db: db}
}

func (r *DBPreferencesRepository) FindByUser(ctx context.Context, userID int64) (Preferences, error) {
	var record Record
	err := r.db.GetContext(ctx, &record, "SELECT * FROM scheduling_preferences WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("db.GetContext(scheduling_preferences) > %w", err)
	}
	prefs, err := NewPreferences(record)
	if err != nil {
		return Preferences{}, fmt.Errorf("NewPreferences(user %d) > %w", userID, err)
	}
	return prefs, nil
}

func (r *DBPreferencesRepository) FindEnabled(ctx context.Context) ([]Preferences, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM scheduling_preferences WHERE recall_enabled = TRUE ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(enabled scheduling_preferences) > %w", err)
	}
	return toPreferences(records), nil
}

func (r *DBPreferencesRepository) Save(ctx context.Context, prefs Preferences) error {
	record := prefs.Record()
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO scheduling_preferences (user_id, recall_enabled, recall_paused, focus_mode,
		sleep_start, sleep_end, active_start, active_end, active_days, frequency_minutes,
		max_daily_recalls, scope_folder_ids, timezone, last_notification_at)
		VALUES (:user_id, :recall_enabled, :recall_paused, :focus_mode,
		:sleep_start, :sleep_end, :active_start, :active_end, :active_days, :frequency_minutes,
		:max_daily_recalls, :scope_folder_ids, :timezone, :last_notification_at)
		ON DUPLICATE KEY UPDATE recall_enabled = VALUES(recall_enabled), recall_paused = VALUES(recall_paused),
		focus_mode = VALUES(focus_mode), sleep_start = VALUES(sleep_start), sleep_end = VALUES(sleep_end),
		active_start = VALUES(active_start), active_end = VALUES(active_end), active_days = VALUES(active_days),
		frequency_minutes = VALUES(frequency_minutes), max_daily_recalls = VALUES(max_daily_recalls),
		scope_folder_ids = VALUES(scope_folder_ids), timezone = VALUES(timezone),
		last_notification_at = VALUES(last_notification_at)`,
		record)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(upsert scheduling_preferences) > %w", err)
	}
	return nil
}

func (r *DBPreferencesRepository) UpdateLastNotificationAt(ctx context.Context, userID int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE scheduling_preferences SET last_notification_at = ? WHERE user_id = ?",
		at.UTC(), userID); err != nil {
		return fmt.Errorf("db.ExecContext(update last_notification_at) > %w", err)
	}
	return nil
}

func (r *DBPreferencesRepository) SetPaused(ctx context.Context, userID int64, paused bool) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO scheduling_preferences (user_id, recall_paused) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE recall_paused = VALUES(recall_paused)`,
		userID, paused); err != nil {
		return fmt.Errorf("db.ExecContext(set recall_paused) > %w", err)
	}
	return nil
}

// DBDispatchLog implements DispatchLog using MySQL.
type DBDispatchLog struct {
	db *sqlx.DB
}

// NewDBDispatchLog creates a new DBDispatchLog.
func NewDBDispatchLog(db *sqlx.DB) *DBDispatchLog {
	return &DBDispatchLog{db: db}
}

func (l *DBDispatchLog) Record(ctx context.Context, dispatch *Dispatch) error {
	result, err := l.db.ExecContext(ctx,
		"INSERT INTO recall_dispatches (event_id, user_id, item_id, dispatched_at) VALUES (?, ?, ?, ?)",
		dispatch.EventID, dispatch.UserID, dispatch.ItemID, dispatch.DispatchedAt.UTC())
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert recall_dispatch) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	dispatch.ID = id
	return nil
}

func (l *DBDispatchLog) CountSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var count int
	if err := l.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM recall_dispatches WHERE user_id = ? AND dispatched_at >= ?",
		userID, since.UTC()); err != nil {
		return 0, fmt.Errorf("db.GetContext(count recall_dispatches) > %w", err)
	}
	return count, nil
}

// toPreferences converts records, skipping the ones that cannot be parsed so
// one broken row does not stop reminders for everybody else.
func toPreferences(records []Record) []Preferences {
	result := make([]Preferences, 0, len(records))
	for _, record := range records {
		prefs, err := NewPreferences(record)
		if err != nil {
			slog.Default().Warn("skip invalid scheduling preferences",
				"user_id", record.UserID,
				"error", err,
			)
			continue
		}
		result = append(result, prefs)
	}
	return result
}
