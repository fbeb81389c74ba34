package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLPreferencesRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	repo := NewYAMLPreferencesRepository(t.TempDir())

	got, err := repo.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(1), got)

	prefs := DefaultPreferences(2)
	prefs.SleepWindow = &TimeWindow{Start: NewClockTime(23, 0), End: NewClockTime(6, 0)}
	prefs.ScopeFolderIDs = []int64{8}
	require.NoError(t, repo.Save(ctx, prefs))

	disabled := DefaultPreferences(3)
	disabled.RecallEnabled = false
	require.NoError(t, repo.Save(ctx, disabled))

	require.NoError(t, repo.SetPaused(ctx, 1, true))
	require.NoError(t, repo.UpdateLastNotificationAt(ctx, 2, now))

	got, err = repo.FindByUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, prefs.SleepWindow, got.SleepWindow)
	assert.Equal(t, []int64{8}, got.ScopeFolderIDs)
	require.NotNil(t, got.LastNotificationAt)
	assert.True(t, now.Equal(*got.LastNotificationAt))

	enabled, err := repo.FindEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, int64(1), enabled[0].UserID)
	assert.True(t, enabled[0].RecallPaused)
	assert.Equal(t, int64(2), enabled[1].UserID)

	require.NoError(t, repo.SetPaused(ctx, 1, false))
	got, err = repo.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.False(t, got.RecallPaused)
}

func TestYAMLDispatchLog(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	log := NewYAMLDispatchLog(t.TempDir())

	count, err := log.CountSince(ctx, 1, now)
	require.NoError(t, err)
	assert.Zero(t, count)

	for i, d := range []Dispatch{
		{EventID: "a", UserID: 1, ItemID: 1, DispatchedAt: now.Add(-25 * time.Hour)},
		{EventID: "b", UserID: 1, ItemID: 2, DispatchedAt: now.Add(-time.Hour)},
		{EventID: "c", UserID: 2, ItemID: 3, DispatchedAt: now.Add(-time.Hour)},
		{EventID: "d", UserID: 1, ItemID: 1, DispatchedAt: now},
	} {
		require.NoError(t, log.Record(ctx, &d))
		assert.Equal(t, int64(i+1), d.ID)
	}

	count, err = log.CountSince(ctx, 1, now.Add(-12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
