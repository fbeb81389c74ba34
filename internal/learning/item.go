// Package learning provides learning items, the SM-2 review engine and
// their storage.
package learning

import (
	"fmt"
	"strings"
	"time"

	"github.com/at-ishikawa/recall/internal/validation"
)

// Kind distinguishes two-sided recall items from single-sided notes.
type Kind string

const (
	KindRecall Kind = "recall"
	KindNote   Kind = "note"
)

// Stage is the position of an item in its review lifecycle.
type Stage string

const (
	StageNew      Stage = "new"
	StageLearning Stage = "learning"
	StageMature   Stage = "mature"
)

// matureRepetitions is the repetition count above which an item is mature.
const matureRepetitions = 3

// Item is a learning item with its scheduling state.
type Item struct {
	ID       int64  `db:"id" yaml:"id"`
	UserID   int64  `db:"user_id" yaml:"user_id" validate:"gt=0"`
	FolderID *int64 `db:"folder_id" yaml:"folder_id,omitempty"`
	Kind     Kind   `db:"kind" yaml:"kind" validate:"oneof=recall note"`
	Prompt   string `db:"prompt" yaml:"prompt" validate:"required"`
	Answer   string `db:"answer" yaml:"answer,omitempty" validate:"required_if=Kind recall,excluded_if=Kind note"`
	Subject  string `db:"subject" yaml:"subject,omitempty"`

	IntervalDays    int        `db:"interval_days" yaml:"interval_days" validate:"gte=0"`
	EaseFactor      float64    `db:"ease_factor" yaml:"ease_factor" validate:"gte=1.3"`
	RepetitionCount int        `db:"repetition_count" yaml:"repetition_count" validate:"gte=0"`
	NextReviewAt    time.Time  `db:"next_review_at" yaml:"next_review_at"`
	LastReviewedAt  *time.Time `db:"last_reviewed_at" yaml:"last_reviewed_at,omitempty"`

	CreatedAt time.Time `db:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `db:"updated_at" yaml:"updated_at"`
}

// NewItemParams holds the caller supplied fields of a new item.
type NewItemParams struct {
	UserID   int64
	FolderID *int64
	Kind     Kind
	Prompt   string
	Answer   string
	Subject  string
}

// NewItem validates params and returns a never-reviewed item that is due at now.
func NewItem(params NewItemParams, now time.Time) (Item, error) {
	now = now.UTC()
	item := Item{
		UserID:          params.UserID,
		FolderID:        params.FolderID,
		Kind:            params.Kind,
		Prompt:          strings.TrimSpace(params.Prompt),
		Answer:          strings.TrimSpace(params.Answer),
		Subject:         strings.TrimSpace(params.Subject),
		IntervalDays:    0,
		EaseFactor:      DefaultEaseFactor,
		RepetitionCount: 0,
		NextReviewAt:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Validate checks the content and scheduling invariants of the item.
func (item Item) Validate() error {
	v, err := validation.Default()
	if err != nil {
		return fmt.Errorf("validation.Default() > %w", err)
	}
	if err := v.Struct(item); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// Stage derives the lifecycle stage from the repetition count.
func (item Item) Stage() Stage {
	switch {
	case item.RepetitionCount == 0:
		return StageNew
	case item.RepetitionCount <= matureRepetitions:
		return StageLearning
	default:
		return StageMature
	}
}

// IsDue reports whether the item must be reviewed at now.
func (item Item) IsDue(now time.Time) bool {
	return !item.NextReviewAt.After(now)
}

// InFolder reports whether the item belongs to one of folderIDs.
func (item Item) InFolder(folderIDs map[int64]struct{}) bool {
	if item.FolderID == nil {
		return false
	}
	_, ok := folderIDs[*item.FolderID]
	return ok
}
