package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/testutil"
)

func TestNewSyncCommand(t *testing.T) {
	cmd := newSyncCommand()
	assert.Equal(t, "sync", cmd.Use)

	for name, want := range map[string]string{
		"from":            "yaml",
		"to":              "mysql",
		"dry-run":         "false",
		"update-existing": "false",
	} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, want, flag.DefValue, name)
	}
}

func TestSyncCommand_RunE(t *testing.T) {
	tmpDir := setupTestEnvironment(t)
	testutil.CreateItem(t, tmpDir, 1, "capital of France?", "Paris", testNow)
	prefs := schedule.DefaultPreferences(1)
	prefs.FrequencyMinutes = 15
	testutil.SavePreferences(t, tmpDir, prefs)
	_, err := execute(t, newReviewCommand(), "", "1", "5")
	require.NoError(t, err)

	targetDir := filepath.Join(tmpDir, "target")
	args := []string{"--to", "yaml", "--to-directory", targetDir}
	ctx := context.Background()

	out, err := execute(t, newSyncCommand(), "", append(args, "--dry-run")...)
	require.NoError(t, err)
	assert.Contains(t, out, "(dry-run mode, no changes made)")
	assert.Contains(t, out, "Items:        1 new, 0 skipped, 0 updated")
	assert.NoFileExists(t, filepath.Join(targetDir, "items.yml"))

	out, err = execute(t, newSyncCommand(), "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, `[NEW]  "capital of France?"`)
	assert.Contains(t, out, "Review logs:  1 new, 0 skipped, 0 warnings")
	assert.Contains(t, out, "Preferences:  1 new, 0 skipped, 0 updated")

	items, err := learning.NewYAMLItemRepository(targetDir).FindByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].RepetitionCount)
	logs, err := learning.NewYAMLReviewLogRepository(targetDir).FindByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, items[0].ID, logs[0].ItemID)
	got, err := schedule.NewYAMLPreferencesRepository(targetDir).FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, got.FrequencyMinutes)

	out, err = execute(t, newSyncCommand(), "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Items:        0 new, 1 skipped, 0 updated")
	assert.Contains(t, out, "Review logs:  0 new, 1 skipped, 0 warnings")
	assert.Contains(t, out, "Preferences:  0 new, 1 skipped, 0 updated")
}

func TestSyncCommand_InvalidStorage(t *testing.T) {
	setupTestEnvironment(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "same YAML directory", args: []string{"--to", "yaml"}, wantErr: "source and target are the same yaml storage"},
		{name: "same database", args: []string{"--from", "mysql", "--to", "mysql"}, wantErr: "source and target are the same mysql storage"},
		{name: "unknown source driver", args: []string{"--from", "sqlite", "--to", "yaml"}, wantErr: `source: unknown storage driver "sqlite"`},
		{name: "unknown target driver", args: []string{"--to", "csv"}, wantErr: `target: unknown storage driver "csv"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newSyncCommand(), "", tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
