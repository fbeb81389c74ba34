package learning

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

const day = 24 * time.Hour

// ValidateQuality rejects ratings outside [MinQuality, MaxQuality].
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("%w: quality must be between %d and %d, got %d", ErrInvalidInput, MinQuality, MaxQuality, quality)
	}
	return nil
}

// UpdateEaseFactor calculates the new ease factor for a quality grade.
// The same delta applies to successful and failed reviews.
func UpdateEaseFactor(ef float64, quality int) float64 {
	if ef == 0 {
		ef = DefaultEaseFactor
	}

	q := float64(quality)
	delta := 0.1 - (MaxQuality-q)*(0.08+(MaxQuality-q)*0.02)

	return math.Max(ef+delta, MinEaseFactor)
}

// NextInterval calculates the next review interval in days from the state
// before the review.
// On success: 1 day, then 6 days, then the previous interval times ef.
// On failure: back to 1 day.
func NextInterval(interval int, ef float64, repetitionCount int, quality int) int {
	if quality < PassingQuality {
		return 1
	}
	if ef == 0 {
		ef = DefaultEaseFactor
	}

	switch repetitionCount {
	case 0:
		return 1
	case 1:
		return 6
	default:
		next := int(math.Round(float64(interval) * ef))
		// a stored interval of 0 past the second repetition must still move forward
		if next < 1 {
			return 1
		}
		return next
	}
}

// ApplyReview returns the item rescheduled for a review graded quality at now.
// It is pure: item is not modified and no I/O happens.
func ApplyReview(item Item, quality int, now time.Time) (Item, error) {
	if err := ValidateQuality(quality); err != nil {
		return Item{}, err
	}
	now = now.UTC()

	interval := NextInterval(item.IntervalDays, item.EaseFactor, item.RepetitionCount, quality)
	if quality >= PassingQuality {
		item.RepetitionCount++
	} else {
		item.RepetitionCount = 0
	}
	item.IntervalDays = interval
	item.EaseFactor = UpdateEaseFactor(item.EaseFactor, quality)
	item.NextReviewAt = now.Add(time.Duration(interval) * day)
	item.LastReviewedAt = &now
	item.UpdatedAt = now

	return item, nil
}
