package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })
}

func TestInitCmd_WritesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	chdir(t, tempDir)

	root, _ := newTestRoot(newInitCmd())
	require.NoError(t, run(t, root, "init"))

	contents, err := os.ReadFile(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)

	for _, key := range []string{"design:", "compat:", "run:", "steps: 100", "check:", "parallel: 4", "format: table"} {
		assert.Contains(t, string(contents), key)
	}
}

func TestInitCmd_ErrorsWhenFileExists(t *testing.T) {
	tempDir := t.TempDir()
	chdir(t, tempDir)

	targetPath := filepath.Join(tempDir, configFileName)
	require.NoError(t, os.WriteFile(targetPath, []byte("design: top.yaml\n"), 0o600))

	root, _ := newTestRoot(newInitCmd())
	require.Error(t, run(t, root, "init"))

	contents, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "design: top.yaml\n", string(contents))
}
