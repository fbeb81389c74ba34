package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/recall/internal/learning"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	items := []learning.Item{
		{ID: 1, RepetitionCount: 0, NextReviewAt: now},
		{ID: 2, RepetitionCount: 1, NextReviewAt: now.Add(-time.Hour)},
		{ID: 3, RepetitionCount: 3, NextReviewAt: now.Add(time.Hour)},
		{ID: 4, RepetitionCount: 4, NextReviewAt: now.AddDate(0, 0, 20)},
		{ID: 5, RepetitionCount: 10, NextReviewAt: now.AddDate(0, 0, -1)},
	}

	assert.Equal(t, Summary{Total: 5, Due: 3, New: 1, Learning: 2, Mature: 2}, Summarize(items, now))
	assert.Equal(t, Summary{}, Summarize(nil, now))
}
