package statistics

import (
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
)

// Summary counts the items of a user by stage.
type Summary struct {
	Total    int
	Due      int
	New      int
	Learning int
	Mature   int
}

// Summarize counts items by stage and how many are due at now.
func Summarize(items []learning.Item, now time.Time) Summary {
	var summary Summary
	for _, item := range items {
		summary.Total++
		if item.IsDue(now) {
			summary.Due++
		}
		switch item.Stage() {
		case learning.StageNew:
			summary.New++
		case learning.StageLearning:
			summary.Learning++
		case learning.StageMature:
			summary.Mature++
		}
	}
	return summary
}
