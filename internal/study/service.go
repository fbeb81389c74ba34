// Package study runs study sessions and records reviews.
package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/statistics"
)

// Service loads items for study sessions and applies review outcomes.
type Service struct {
	items      learning.ItemRepository
	reviewLogs learning.ReviewLogRepository
}

// NewService creates a new Service.
func NewService(items learning.ItemRepository, reviewLogs learning.ReviewLogRepository) *Service {
	return &Service{
		items:      items,
		reviewLogs: reviewLogs,
	}
}

// NextReviewBatch returns the items of the next study session.
func (s *Service) NextReviewBatch(ctx context.Context, userID int64, batchSize int, now time.Time) ([]learning.Item, error) {
	items, err := s.items.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("items.FindByUser > %w", err)
	}
	return schedule.NextReviewBatch(items, userID, batchSize, now)
}

// Review applies a recall quality to the item and records it. The item and
// its review log are stored together or not at all.
func (s *Service) Review(ctx context.Context, itemID int64, quality int, now time.Time) (learning.Item, error) {
	if err := learning.ValidateQuality(quality); err != nil {
		return learning.Item{}, err
	}

	var reviewed learning.Item
	if _, err := s.items.RecordReview(ctx, itemID, func(item *learning.Item) (learning.ReviewLog, error) {
		updated, err := learning.ApplyReview(*item, quality, now)
		if err != nil {
			return learning.ReviewLog{}, err
		}
		*item = updated
		reviewed = updated
		return learning.NewReviewLog(updated, quality), nil
	}); err != nil {
		return learning.Item{}, fmt.Errorf("items.RecordReview(%d) > %w", itemID, err)
	}

	slog.Default().Debug("item reviewed",
		"item_id", reviewed.ID,
		"quality", quality,
		"interval_days", reviewed.IntervalDays,
		"ease_factor", reviewed.EaseFactor,
		"next_review_at", reviewed.NextReviewAt,
	)
	return reviewed, nil
}

// Stats counts the items of the user by stage.
func (s *Service) Stats(ctx context.Context, userID int64, now time.Time) (statistics.Summary, error) {
	items, err := s.items.FindByUser(ctx, userID)
	if err != nil {
		return statistics.Summary{}, fmt.Errorf("items.FindByUser > %w", err)
	}
	return statistics.Summarize(items, now), nil
}

// History returns monthly review statistics of the user.
func (s *Service) History(ctx context.Context, userID int64, year, month int) (statistics.StatisticsResult, error) {
	logs, err := s.reviewLogs.FindByUser(ctx, userID)
	if err != nil {
		return statistics.StatisticsResult{}, fmt.Errorf("reviewLogs.FindByUser > %w", err)
	}
	return statistics.CalculateStatistics(logs, year, month), nil
}
