package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFiles(t *testing.T) {
	t.Run("directory is walked recursively and sorted", func(t *testing.T) {
		// --- Arrange ---
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "b.hcl"))
		touch(t, filepath.Join(dir, "a.yaml"))
		touch(t, filepath.Join(dir, "nested", "c.yml"))
		touch(t, filepath.Join(dir, "README.md"))

		// --- Act ---
		files, err := FindFiles(dir, ".hcl", ".yaml", ".yml")

		// --- Assert ---
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.yaml"),
			filepath.Join(dir, "b.hcl"),
			filepath.Join(dir, "nested", "c.yml"),
		}, files)
	})

	t.Run("single file is returned as-is", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs.txt")
		touch(t, path)

		files, err := FindFiles(path, ".hcl")

		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("empty directory is an error", func(t *testing.T) {
		_, err := FindFiles(t.TempDir(), ".hcl")
		assert.Error(t, err)
	})

	t.Run("missing path is an error", func(t *testing.T) {
		_, err := FindFiles(filepath.Join(t.TempDir(), "nope"), ".hcl")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("no extensions panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFiles(".") })
	})
}
