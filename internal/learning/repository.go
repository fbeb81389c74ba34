package learning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recall/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/learning/mock_repository.go -package=mock_learning

// ItemRepository defines operations for managing learning items.
type ItemRepository interface {
	FindByUser(ctx context.Context, userID int64) ([]Item, error)
	FindByID(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Save(ctx context.Context, item *Item) error
	// Modify runs fn against the current state of the item while no other
	// Modify for the same item can run, then persists the result.
	Modify(ctx context.Context, id int64, fn func(item *Item) error) error
	// RecordReview runs fn like Modify and stores the review log it returns
	// in the same unit of work. Neither is stored when one of them fails.
	RecordReview(ctx context.Context, id int64, fn func(item *Item) (ReviewLog, error)) (ReviewLog, error)
}

// ReviewLogRepository defines operations for managing review logs.
type ReviewLogRepository interface {
	FindByUser(ctx context.Context, userID int64) ([]ReviewLog, error)
	Create(ctx context.Context, log *ReviewLog) error
}

// DBItemRepository implements ItemRepository using MySQL.
type DBItemRepository struct {
	db *sqlx.DB
}

// NewDBItemRepository creates a new DBItemRepository.
func NewDBItemRepository(db *sqlx.DB) *DBItemRepository {
	return &DBItemRepository{db: db}
}

// FindByUser returns every item owned by the user.
func (r *DBItemRepository) FindByUser(ctx context.Context, userID int64) ([]Item, error) {
	var items []Item
	if err := r.db.SelectContext(ctx, &items, "SELECT * FROM learning_items WHERE user_id = ? ORDER BY id", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(learning_items by user) > %w", err)
	}
	return items, nil
}

// FindByID returns the item or an error wrapping ErrNotFound.
func (r *DBItemRepository) FindByID(ctx context.Context, id int64) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item, "SELECT * FROM learning_items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("learning item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(learning_item) > %w", err)
	}
	return &item, nil
}

// Create inserts a new item.
func (r *DBItemRepository) Create(ctx context.Context, item *Item) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO learning_items (user_id, folder_id, kind, prompt, answer, subject,
		interval_days, ease_factor, repetition_count, next_review_at, last_reviewed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.UserID, item.FolderID, item.Kind, item.Prompt, item.Answer, item.Subject,
		item.IntervalDays, item.EaseFactor, item.RepetitionCount, item.NextReviewAt, item.LastReviewedAt,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert learning_item) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	item.ID = id
	return nil
}

// Save persists the content and scheduling state of an existing item.
func (r *DBItemRepository) Save(ctx context.Context, item *Item) error {
	return saveItem(ctx, r.db, item)
}

// Modify locks the item row with SELECT ... FOR UPDATE for the duration of fn.
func (r *DBItemRepository) Modify(ctx context.Context, id int64, fn func(item *Item) error) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		item, err := lockItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
		return saveItem(ctx, tx, item)
	})
}

// RecordReview updates the item and inserts the review log in one transaction.
func (r *DBItemRepository) RecordReview(ctx context.Context, id int64, fn func(item *Item) (ReviewLog, error)) (ReviewLog, error) {
	var log ReviewLog
	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		item, err := lockItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if log, err = fn(item); err != nil {
			return err
		}
		if err := saveItem(ctx, tx, item); err != nil {
			return err
		}
		return insertReviewLog(ctx, tx, &log)
	})
	if err != nil {
		return ReviewLog{}, err
	}
	return log, nil
}

func lockItem(ctx context.Context, tx *sqlx.Tx, id int64) (*Item, error) {
	var item Item
	err := tx.GetContext(ctx, &item, "SELECT * FROM learning_items WHERE id = ? FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("learning item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tx.GetContext(learning_item for update) > %w", err)
	}
	return &item, nil
}

func saveItem(ctx context.Context, execer sqlx.ExecerContext, item *Item) error {
	_, err := execer.ExecContext(ctx,
		`UPDATE learning_items SET folder_id = ?, prompt = ?, answer = ?, subject = ?,
		interval_days = ?, ease_factor = ?, repetition_count = ?, next_review_at = ?, last_reviewed_at = ?
		WHERE id = ?`,
		item.FolderID, item.Prompt, item.Answer, item.Subject,
		item.IntervalDays, item.EaseFactor, item.RepetitionCount, item.NextReviewAt, item.LastReviewedAt,
		item.ID)
	if err != nil {
		return fmt.Errorf("ExecContext(update learning_item) > %w", err)
	}
	return nil
}

// DBReviewLogRepository implements ReviewLogRepository using MySQL.
type DBReviewLogRepository struct {
	db *sqlx.DB
}

// NewDBReviewLogRepository creates a new DBReviewLogRepository.
func NewDBReviewLogRepository(db *sqlx.DB) *DBReviewLogRepository {
	return &DBReviewLogRepository{db: db}
}

// FindByUser returns all review logs of a user, oldest first.
func (r *DBReviewLogRepository) FindByUser(ctx context.Context, userID int64) ([]ReviewLog, error) {
	var logs []ReviewLog
	if err := r.db.SelectContext(ctx, &logs,
		"SELECT * FROM review_logs WHERE user_id = ? ORDER BY reviewed_at, id", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_logs by user) > %w", err)
	}
	return logs, nil
}

// Create inserts a new review log.
func (r *DBReviewLogRepository) Create(ctx context.Context, log *ReviewLog) error {
	return insertReviewLog(ctx, r.db, log)
}

func insertReviewLog(ctx context.Context, execer sqlx.ExecerContext, log *ReviewLog) error {
	result, err := execer.ExecContext(ctx,
		`INSERT INTO review_logs (item_id, user_id, quality, interval_days, ease_factor, repetition_count, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ItemID, log.UserID, log.Quality, log.IntervalDays, log.EaseFactor, log.RepetitionCount, log.ReviewedAt)
	if err != nil {
		return fmt.Errorf("ExecContext(insert review_log) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	log.ID = id
	return nil
}
