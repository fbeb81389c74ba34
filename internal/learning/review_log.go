package learning

import "time"

// ReviewLog records the outcome of a single review of an item.
type ReviewLog struct {
	ID              int64     `db:"id" yaml:"id"`
	ItemID          int64     `db:"item_id" yaml:"item_id"`
	UserID          int64     `db:"user_id" yaml:"user_id"`
	Quality         int       `db:"quality" yaml:"quality"`
	IntervalDays    int       `db:"interval_days" yaml:"interval_days"`
	EaseFactor      float64   `db:"ease_factor" yaml:"ease_factor"`
	RepetitionCount int       `db:"repetition_count" yaml:"repetition_count"`
	ReviewedAt      time.Time `db:"reviewed_at" yaml:"reviewed_at"`
	CreatedAt       time.Time `db:"created_at" yaml:"created_at"`
}

// NewReviewLog captures the state of reviewed, the item as returned by ApplyReview.
func NewReviewLog(reviewed Item, quality int) ReviewLog {
	var reviewedAt time.Time
	if reviewed.LastReviewedAt != nil {
		reviewedAt = *reviewed.LastReviewedAt
	}
	return ReviewLog{
		ItemID:          reviewed.ID,
		UserID:          reviewed.UserID,
		Quality:         quality,
		IntervalDays:    reviewed.IntervalDays,
		EaseFactor:      reviewed.EaseFactor,
		RepetitionCount: reviewed.RepetitionCount,
		ReviewedAt:      reviewedAt,
		CreatedAt:       reviewedAt,
	}
}

// IsSuccessful reports whether the review was a successful recall.
func (log ReviewLog) IsSuccessful() bool {
	return log.Quality >= PassingQuality
}
