package schedule

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/at-ishikawa/recall/internal/learning"
)

// dueShare is the probability of drawing from the due items only.
const dueShare = 0.7

// Rand is the randomness Pick needs. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Pool partitions the eligible items of a user at one instant.
type Pool struct {
	// Due is ordered by NextReviewAt, then by ID.
	Due    []learning.Item
	NotDue []learning.Item
}

// EligiblePool keeps the items owned by prefs.UserID inside the folder scope
// and splits them into due and not due.
func EligiblePool(items []learning.Item, prefs Preferences, now time.Time) Pool {
	scope := prefs.FolderScope()
	var pool Pool
	for _, item := range items {
		if item.UserID != prefs.UserID {
			continue
		}
		if scope != nil && !item.InFolder(scope) {
			continue
		}
		if item.IsDue(now) {
			pool.Due = append(pool.Due, item)
		} else {
			pool.NotDue = append(pool.NotDue, item)
		}
	}
	slices.SortFunc(pool.Due, compareByDueDate)
	slices.SortFunc(pool.NotDue, compareByDueDate)
	return pool
}

// SelectEligibleItems returns the due items of the user in review order.
func SelectEligibleItems(items []learning.Item, prefs Preferences, now time.Time) []learning.Item {
	return EligiblePool(items, prefs, now).Due
}

// Len returns the number of items in the pool.
func (p Pool) Len() int {
	return len(p.Due) + len(p.NotDue)
}

// Pick selects one item to remind. Nothing is picked when no item is due.
// Otherwise a due item is drawn 70% of the time and any item of the pool
// the remaining 30%.
func (p Pool) Pick(rng Rand) (learning.Item, bool) {
	if len(p.Due) == 0 {
		return learning.Item{}, false
	}
	if rng.Float64() < dueShare {
		return p.Due[rng.IntN(len(p.Due))], true
	}
	i := rng.IntN(p.Len())
	if i < len(p.Due) {
		return p.Due[i], true
	}
	return p.NotDue[i-len(p.Due)], true
}

// NextReviewBatch returns up to batchSize due items of the user for a study
// session, earliest first, padded with due items that have no successful
// repetition yet. An item appears at most once.
func NextReviewBatch(items []learning.Item, userID int64, batchSize int, now time.Time) ([]learning.Item, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", learning.ErrInvalidInput, batchSize)
	}

	var due, fresh []learning.Item
	for _, item := range items {
		if item.UserID != userID || !item.IsDue(now) {
			continue
		}
		due = append(due, item)
		if item.RepetitionCount == 0 {
			fresh = append(fresh, item)
		}
	}
	slices.SortFunc(due, compareByDueDate)
	slices.SortFunc(fresh, func(a, b learning.Item) int {
		return cmp.Compare(a.ID, b.ID)
	})

	batch := make([]learning.Item, 0, min(batchSize, len(due)))
	seen := make(map[int64]struct{}, batchSize)
	for _, candidates := range [][]learning.Item{due, fresh} {
		for _, item := range candidates {
			if len(batch) == batchSize {
				return batch, nil
			}
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			batch = append(batch, item)
		}
	}
	return batch, nil
}

func compareByDueDate(a, b learning.Item) int {
	if c := a.NextReviewAt.Compare(b.NextReviewAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
