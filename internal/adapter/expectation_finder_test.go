package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()

	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("expect: []\n"), 0o600))
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		root      string
		recursive bool
	}{
		{"...", ".", true},
		{"./...", ".", true},
		{"testdata/...", "testdata", true},
		{"testdata", "testdata", false},
		{"a_expect.yaml", "a_expect.yaml", false},
		{"", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			root, recursive := splitPattern(tt.pattern)
			assert.Equal(t, tt.root, root)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestLocalExpectationFinder_Find(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir,
		"a_expect.yaml",
		"b_expect.yaml",
		"design.yaml",
		"sub/c_expect.yaml",
		"sub/deeper/d_expect.yaml",
		"sub/notes.txt",
	)

	finder := NewLocalExpectationFinder()

	t.Run("directory is not recursive", func(t *testing.T) {
		files, err := finder.Find([]string{dir})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a_expect.yaml"),
			filepath.Join(dir, "b_expect.yaml"),
		}, files)
	})

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := finder.Find([]string{filepath.Join(dir, "sub") + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "sub", "c_expect.yaml"),
			filepath.Join(dir, "sub", "deeper", "d_expect.yaml"),
		}, files)
	})

	t.Run("explicit files are taken as is and deduplicated", func(t *testing.T) {
		design := filepath.Join(dir, "design.yaml")

		files, err := finder.Find([]string{design, dir, filepath.Join(dir, "a_expect.yaml")})
		require.NoError(t, err)
		assert.Equal(t, []string{
			design,
			filepath.Join(dir, "a_expect.yaml"),
			filepath.Join(dir, "b_expect.yaml"),
		}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := finder.Find([]string{filepath.Join(dir, "missing")})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLocalExpectationFinder_FindsTestdata(t *testing.T) {
	files, err := NewLocalExpectationFinder().Find([]string{"../../testdata"})
	require.NoError(t, err)
	assert.Contains(t, files, filepath.Join("..", "..", "testdata", "scope_expect.yaml"))
	assert.Contains(t, files, filepath.Join("..", "..", "testdata", "var_model_expect.yaml"))
}
