package schedule

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/learning"
)

type fakeRand struct {
	float float64
	index int
	gotN  int
}

func (r *fakeRand) Float64() float64 {
	return r.float
}

func (r *fakeRand) IntN(n int) int {
	r.gotN = n
	return r.index
}

func testItem(id, userID int64, nextReviewAt time.Time) learning.Item {
	return learning.Item{
		ID:           id,
		UserID:       userID,
		Kind:         learning.KindRecall,
		Prompt:       "prompt",
		Answer:       "answer",
		EaseFactor:   learning.DefaultEaseFactor,
		NextReviewAt: nextReviewAt,
		CreatedAt:    nextReviewAt,
	}
}

func inFolder(item learning.Item, folderID int64) learning.Item {
	item.FolderID = &folderID
	return item
}

func reviewed(item learning.Item) learning.Item {
	last := item.NextReviewAt.AddDate(0, 0, -1)
	item.LastReviewedAt = &last
	item.RepetitionCount = 1
	item.IntervalDays = 1
	return item
}

func ids(items []learning.Item) []int64 {
	var result []int64
	for _, item := range items {
		result = append(result, item.ID)
	}
	return result
}

func TestEligiblePool(t *testing.T) {
	now := at(monday, 12, 0)
	items := []learning.Item{
		inFolder(testItem(1, 1, now.Add(time.Hour)), 10),
		inFolder(testItem(2, 1, now.Add(-time.Hour)), 10),
		inFolder(testItem(3, 1, now.Add(-2*time.Hour)), 20),
		testItem(4, 1, now),
		testItem(5, 2, now.Add(-time.Hour)),
		inFolder(testItem(6, 1, now.Add(-time.Hour)), 10),
	}

	tests := []struct {
		name       string
		scope      []int64
		wantDue    []int64
		wantNotDue []int64
	}{
		{
			name:       "every folder",
			wantDue:    []int64{3, 2, 6, 4},
			wantNotDue: []int64{1},
		},
		{
			name:       "scoped to one folder",
			scope:      []int64{10},
			wantDue:    []int64{2, 6},
			wantNotDue: []int64{1},
		},
		{
			name:    "scoped to a folder without future items",
			scope:   []int64{20, 99},
			wantDue: []int64{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := DefaultPreferences(1)
			prefs.ScopeFolderIDs = tt.scope

			pool := EligiblePool(items, prefs, now)
			assert.Equal(t, tt.wantDue, ids(pool.Due))
			assert.Equal(t, tt.wantNotDue, ids(pool.NotDue))
			assert.Equal(t, tt.wantDue, ids(SelectEligibleItems(items, prefs, now)))
		})
	}
}

func TestPool_Pick(t *testing.T) {
	now := at(monday, 12, 0)
	pool := Pool{
		Due:    []learning.Item{testItem(1, 1, now), testItem(2, 1, now)},
		NotDue: []learning.Item{testItem(3, 1, now.Add(time.Hour))},
	}

	tests := []struct {
		name   string
		pool   Pool
		rng    *fakeRand
		wantOK bool
		wantID int64
		wantN  int
	}{
		{
			name:   "nothing due",
			pool:   Pool{NotDue: pool.NotDue},
			rng:    &fakeRand{},
			wantOK: false,
		},
		{
			name:   "draws from due items",
			pool:   pool,
			rng:    &fakeRand{float: 0.69, index: 1},
			wantOK: true,
			wantID: 2,
			wantN:  2,
		},
		{
			name:   "draws from the whole pool",
			pool:   pool,
			rng:    &fakeRand{float: 0.7, index: 2},
			wantOK: true,
			wantID: 3,
			wantN:  3,
		},
		{
			name:   "whole pool draw may land on a due item",
			pool:   pool,
			rng:    &fakeRand{float: 0.99, index: 0},
			wantOK: true,
			wantID: 1,
			wantN:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.pool.Pick(tt.rng)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantN, tt.rng.gotN)
		})
	}
}

func TestPool_Pick_distribution(t *testing.T) {
	now := at(monday, 12, 0)
	pool := Pool{
		Due:    []learning.Item{testItem(1, 1, now)},
		NotDue: []learning.Item{testItem(2, 1, now.Add(time.Hour))},
	}
	rng := rand.New(rand.NewPCG(1, 2))

	const draws = 10000
	notDue := 0
	for range draws {
		item, ok := pool.Pick(rng)
		require.True(t, ok)
		if item.ID == 2 {
			notDue++
		}
	}
	// A not due item is only drawn in the 30% whole pool branch, half the time.
	assert.InDelta(t, 0.15, float64(notDue)/draws, 0.02)
}

func TestNextReviewBatch(t *testing.T) {
	now := at(monday, 12, 0)

	t.Run("bounded by batch size", func(t *testing.T) {
		var items []learning.Item
		for i := range 100 {
			items = append(items, testItem(int64(i+1), 1, now.Add(-time.Duration(i)*time.Minute)))
		}

		got, err := NextReviewBatch(items, 1, 5, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{100, 99, 98, 97, 96}, ids(got))
	})

	t.Run("earliest due first then new items", func(t *testing.T) {
		items := []learning.Item{
			testItem(5, 1, now.Add(-time.Minute)),
			reviewed(testItem(3, 1, now.Add(-time.Hour))),
			reviewed(testItem(4, 1, now.Add(time.Hour))),
			testItem(1, 1, now),
			testItem(2, 2, now.Add(-2*time.Hour)),
		}

		got, err := NextReviewBatch(items, 1, 10, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 5, 1}, ids(got))
	})

	t.Run("failed items pad like new items", func(t *testing.T) {
		failed := reviewed(testItem(2, 1, now.Add(-time.Minute)))
		failed.RepetitionCount = 0
		items := []learning.Item{
			reviewed(testItem(1, 1, now.Add(-time.Hour))),
			failed,
			testItem(3, 1, now),
			reviewed(testItem(4, 1, now.Add(time.Hour))),
		}

		got, err := NextReviewBatch(items, 1, 10, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, ids(got))

		got, err = NextReviewBatch(items, 1, 2, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(got))
	})

	t.Run("no duplicates", func(t *testing.T) {
		items := []learning.Item{
			testItem(1, 1, now.Add(-time.Hour)),
			testItem(2, 1, now.Add(-time.Minute)),
		}

		got, err := NextReviewBatch(items, 1, 5, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(got))
	})

	t.Run("nothing due", func(t *testing.T) {
		got, err := NextReviewBatch([]learning.Item{testItem(1, 1, now.Add(time.Hour))}, 1, 5, now)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		_, err := NextReviewBatch(nil, 1, 0, now)
		assert.ErrorIs(t, err, learning.ErrInvalidInput)
	})
}
