package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/testutil"
)

// testNow is Monday 2025-01-06 12:00 UTC.
var testNow = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// setupTestEnvironment points the commands at a fresh YAML storage, user 1
// and a fixed clock. It returns the temporary directory.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))

	oldUserID, oldNow := userID, now
	userID = 1
	now = func() time.Time { return testNow }
	t.Cleanup(func() {
		userID = oldUserID
		now = oldNow
	})
	return tmpDir
}

// execute runs cmd with args and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
