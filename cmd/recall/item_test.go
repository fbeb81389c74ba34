package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/learning"
)

func TestNewItemCommand(t *testing.T) {
	cmd := newItemCommand()
	assert.Equal(t, "items", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	kindFlag := newItemAddCommand().Flags().Lookup("kind")
	require.NotNil(t, kindFlag)
	assert.Equal(t, "recall", kindFlag.DefValue)
}

func TestItemCommands_RunE(t *testing.T) {
	setupTestEnvironment(t)

	out, err := execute(t, newItemCommand(), "", "add", "--prompt", "capital of France?", "--answer", "Paris", "--folder", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Added item 1, due 2025-01-06 12:00")

	out, err = execute(t, newItemCommand(), "", "add", "--kind", "note", "--prompt", "water boils at 100C", "--subject", "science")
	require.NoError(t, err)
	assert.Contains(t, out, "Added item 2")

	out, err = execute(t, newItemCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "capital of France?")
	assert.Contains(t, out, "water boils at 100C")
	assert.Contains(t, out, "new")
}

func TestItemAddCommand_InvalidInput(t *testing.T) {
	setupTestEnvironment(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "note with an answer", args: []string{"add", "--kind", "note", "--prompt", "fact", "--answer", "no"}},
		{name: "recall without an answer", args: []string{"add", "--prompt", "question"}},
		{name: "unknown kind", args: []string{"add", "--kind", "quiz", "--prompt", "q", "--answer", "a"}},
		{name: "empty prompt", args: []string{"add", "--answer", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newItemCommand(), "", tt.args...)
			assert.ErrorIs(t, err, learning.ErrInvalidInput)
		})
	}
}

func TestItemImportExportCommands_RunE(t *testing.T) {
	tmpDir := setupTestEnvironment(t)
	csvPath := filepath.Join(tmpDir, "items.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("front,back,subject,folder\n"+
		"capital of France?,Paris,geography,3\n"+
		"water boils at 100C,,science,\n"+
		"question,answer,,x\n"), 0644))

	out, err := execute(t, newItemCommand(), "", "import", csvPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry-run mode, no changes made)")
	assert.Contains(t, out, "Items: 2 new, 0 skipped, 0 updated, 1 invalid row(s)")

	out, err = execute(t, newItemCommand(), "", "export")
	require.NoError(t, err)
	assert.Equal(t, "front,back,subject,folder\n", out)

	out, err = execute(t, newItemCommand(), "", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, `[WARN]  row 3: invalid input: folder "x" is not a number`)
	assert.Contains(t, out, `[NEW]  "capital of France?"`)
	assert.Contains(t, out, "Items: 2 new, 0 skipped, 0 updated, 1 invalid row(s)")

	out, err = execute(t, newItemCommand(), "", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Items: 0 new, 2 skipped, 0 updated, 1 invalid row(s)")

	exportPath := filepath.Join(tmpDir, "export.csv")
	_, err = execute(t, newItemCommand(), "", "export", "--output", exportPath)
	require.NoError(t, err)
	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "front,back,subject,folder\ncapital of France?,Paris,geography,3\nwater boils at 100C,,science,\n", string(exported))
}

func TestItemImportCommand_Errors(t *testing.T) {
	tmpDir := setupTestEnvironment(t)
	csvPath := filepath.Join(tmpDir, "items.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("question,answer\nq,a\n"), 0644))

	_, err := execute(t, newItemCommand(), "", "import", csvPath)
	assert.ErrorIs(t, err, learning.ErrInvalidInput)

	_, err = execute(t, newItemCommand(), "", "import", filepath.Join(tmpDir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
