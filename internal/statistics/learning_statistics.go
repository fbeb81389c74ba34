// Package statistics aggregates review history and item state for reports.
package statistics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
)

// LearningStatistics holds statistics for one month
type LearningStatistics struct {
	Period         string // "2025-01"
	LearnedCount   int    // First successful reviews
	LearnedUnique  int    // Unique items learned for the first time
	RelearnsCount  int    // Successful reviews after the first one
	RelearnsUnique int    // Unique items relearned
	LapsesCount    int    // Failed reviews
}

// AggregateStatistics holds totals across all periods with global unique counts
type AggregateStatistics struct {
	LearnedCount   int
	LearnedUnique  int
	RelearnsCount  int
	RelearnsUnique int
	LapsesCount    int
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []LearningStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	learnedTotal   int
	learnedUnique  map[int64]struct{}
	relearnsTotal  int
	relearnsUnique map[int64]struct{}
	lapsesTotal    int
}

// CalculateStatistics calculates monthly statistics from review logs.
// year and month filter the periods; 0 means no filter.
// An item is "learned" by its first successful review; later successful
// reviews are relearns. Failed reviews count as lapses.
func CalculateStatistics(logs []learning.ReviewLog, year, month int) StatisticsResult {
	sorted := slices.Clone(logs)
	slices.SortStableFunc(sorted, func(a, b learning.ReviewLog) int {
		if c := a.ReviewedAt.Compare(b.ReviewedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	stats := make(map[string]*periodData)
	globalLearnedUnique := make(map[int64]struct{})
	globalRelearnsUnique := make(map[int64]struct{})
	learned := make(map[int64]struct{})

	for _, log := range sorted {
		if log.ReviewedAt.IsZero() {
			continue
		}
		_, learnedBefore := learned[log.ItemID]
		if log.IsSuccessful() {
			learned[log.ItemID] = struct{}{}
		}

		// The first success is tracked even outside the filter so later
		// reviews count as relearns.
		if !matchesFilter(log.ReviewedAt, year, month) {
			continue
		}

		period := periodOf(log.ReviewedAt)
		data := ensurePeriodExists(stats, period)
		switch {
		case !log.IsSuccessful():
			data.lapsesTotal++
		case !learnedBefore:
			data.learnedTotal++
			data.learnedUnique[log.ItemID] = struct{}{}
			globalLearnedUnique[log.ItemID] = struct{}{}
		default:
			data.relearnsTotal++
			data.relearnsUnique[log.ItemID] = struct{}{}
			globalRelearnsUnique[log.ItemID] = struct{}{}
		}
	}

	return buildResult(stats, globalLearnedUnique, globalRelearnsUnique)
}

func periodOf(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

func ensurePeriodExists(stats map[string]*periodData, period string) *periodData {
	if stats[period] == nil {
		stats[period] = &periodData{
			learnedUnique:  make(map[int64]struct{}),
			relearnsUnique: make(map[int64]struct{}),
		}
	}
	return stats[period]
}

func matchesFilter(t time.Time, filterYear, filterMonth int) bool {
	t = t.UTC()
	if filterYear == 0 {
		return true
	}
	if t.Year() != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return int(t.Month()) == filterMonth
}

func buildResult(stats map[string]*periodData, globalLearnedUnique, globalRelearnsUnique map[int64]struct{}) StatisticsResult {
	periods := make([]LearningStatistics, 0, len(stats))

	var aggregate AggregateStatistics
	for period, data := range stats {
		periods = append(periods, LearningStatistics{
			Period:         period,
			LearnedCount:   data.learnedTotal,
			LearnedUnique:  len(data.learnedUnique),
			RelearnsCount:  data.relearnsTotal,
			RelearnsUnique: len(data.relearnsUnique),
			LapsesCount:    data.lapsesTotal,
		})
		aggregate.LearnedCount += data.learnedTotal
		aggregate.RelearnsCount += data.relearnsTotal
		aggregate.LapsesCount += data.lapsesTotal
	}
	aggregate.LearnedUnique = len(globalLearnedUnique)
	aggregate.RelearnsUnique = len(globalRelearnsUnique)

	// Newest first
	slices.SortFunc(periods, func(a, b LearningStatistics) int {
		return cmp.Compare(b.Period, a.Period)
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
