// Package testutil provides shared test helpers for config files and storage fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/schedule"
)

// DataDirectory is the YAML storage directory created by SetupTestConfig under tmpDir.
const DataDirectory = "data"

// SetupTestConfig creates a config file using the YAML storage driver.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dataDir := filepath.Join(tmpDir, DataDirectory)
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	configContent := fmt.Sprintf(`storage:
  driver: yaml
  yaml_directory: %s
dispatch:
  interval: 1m
  concurrency: 2
session:
  batch_size: 3
`, dataDir)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// ItemOption configures optional fields of an item fixture.
type ItemOption func(*learning.Item)

// WithNextReviewAt schedules the item fixture at t.
func WithNextReviewAt(t time.Time) ItemOption {
	return func(item *learning.Item) {
		item.NextReviewAt = t.UTC()
	}
}

// WithFolder puts the item fixture into a folder.
func WithFolder(folderID int64) ItemOption {
	return func(item *learning.Item) {
		item.FolderID = &folderID
	}
}

// CreateItem stores a recall item of the user in the YAML storage of tmpDir.
func CreateItem(t *testing.T, tmpDir string, userID int64, prompt, answer string, now time.Time, opts ...ItemOption) learning.Item {
	t.Helper()

	item, err := learning.NewItem(learning.NewItemParams{
		UserID: userID,
		Kind:   learning.KindRecall,
		Prompt: prompt,
		Answer: answer,
	}, now)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(&item)
	}

	repo := learning.NewYAMLItemRepository(filepath.Join(tmpDir, DataDirectory))
	require.NoError(t, repo.Create(context.Background(), &item))
	return item
}

// SavePreferences stores preferences in the YAML storage of tmpDir.
func SavePreferences(t *testing.T, tmpDir string, prefs schedule.Preferences) {
	t.Helper()

	repo := schedule.NewYAMLPreferencesRepository(filepath.Join(tmpDir, DataDirectory))
	require.NoError(t, repo.Save(context.Background(), prefs))
}
