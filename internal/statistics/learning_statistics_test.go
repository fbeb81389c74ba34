package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/recall/internal/learning"
)

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func review(itemID int64, quality int, date string) learning.ReviewLog {
	return learning.ReviewLog{ItemID: itemID, UserID: 1, Quality: quality, ReviewedAt: mustParseDate(date)}
}

func TestCalculateStatistics(t *testing.T) {
	tests := []struct {
		name              string
		logs              []learning.ReviewLog
		year              int
		month             int
		expectedPeriods   []LearningStatistics
		expectedAggregate AggregateStatistics
	}{
		{
			name: "single item learned once",
			logs: []learning.ReviewLog{review(1, 4, "2025-01-15")},
			expectedPeriods: []LearningStatistics{
				{Period: "2025-01", LearnedCount: 1, LearnedUnique: 1},
			},
			expectedAggregate: AggregateStatistics{LearnedCount: 1, LearnedUnique: 1},
		},
		{
			name: "multiple reviews in the same month",
			logs: []learning.ReviewLog{
				review(1, 5, "2025-01-20"),
				review(1, 3, "2025-01-10"),
				review(1, 4, "2025-01-18"),
			},
			expectedPeriods: []LearningStatistics{
				{Period: "2025-01", LearnedCount: 1, LearnedUnique: 1, RelearnsCount: 2, RelearnsUnique: 1},
			},
			expectedAggregate: AggregateStatistics{LearnedCount: 1, LearnedUnique: 1, RelearnsCount: 2, RelearnsUnique: 1},
		},
		{
			name: "failed reviews are lapses and do not learn",
			logs: []learning.ReviewLog{
				review(1, 1, "2025-01-05"),
				review(1, 2, "2025-01-06"),
				review(1, 3, "2025-02-01"),
				review(2, 0, "2025-02-02"),
			},
			expectedPeriods: []LearningStatistics{
				{Period: "2025-02", LearnedCount: 1, LearnedUnique: 1, LapsesCount: 1},
				{Period: "2025-01", LapsesCount: 2},
			},
			expectedAggregate: AggregateStatistics{LearnedCount: 1, LearnedUnique: 1, LapsesCount: 3},
		},
		{
			name: "month filter keeps earlier learning as context",
			logs: []learning.ReviewLog{
				review(1, 4, "2024-12-20"),
				review(1, 4, "2025-01-03"),
				review(2, 5, "2025-01-04"),
				review(2, 5, "2025-02-04"),
			},
			year:  2025,
			month: 1,
			expectedPeriods: []LearningStatistics{
				{Period: "2025-01", LearnedCount: 1, LearnedUnique: 1, RelearnsCount: 1, RelearnsUnique: 1},
			},
			expectedAggregate: AggregateStatistics{LearnedCount: 1, LearnedUnique: 1, RelearnsCount: 1, RelearnsUnique: 1},
		},
		{
			name: "year filter",
			logs: []learning.ReviewLog{
				review(1, 4, "2024-12-20"),
				review(2, 4, "2025-03-03"),
				review(3, 4, "2025-04-03"),
			},
			year: 2025,
			expectedPeriods: []LearningStatistics{
				{Period: "2025-04", LearnedCount: 1, LearnedUnique: 1},
				{Period: "2025-03", LearnedCount: 1, LearnedUnique: 1},
			},
			expectedAggregate: AggregateStatistics{LearnedCount: 2, LearnedUnique: 2},
		},
		{
			name:              "no logs",
			expectedPeriods:   []LearningStatistics{},
			expectedAggregate: AggregateStatistics{},
		},
		{
			name:              "zero dates are skipped",
			logs:              []learning.ReviewLog{{ItemID: 1, Quality: 5}},
			expectedPeriods:   []LearningStatistics{},
			expectedAggregate: AggregateStatistics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatistics(tt.logs, tt.year, tt.month)
			assert.Equal(t, tt.expectedPeriods, got.Periods)
			assert.Equal(t, tt.expectedAggregate, got.Aggregate)
		})
	}
}
