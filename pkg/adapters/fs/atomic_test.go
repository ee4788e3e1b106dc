package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceEntryFile(t *testing.T) {
	t.Run("Creates New Entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Python.md")

		require.NoError(t, replaceEntryFile(path, []byte("# Python")))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "# Python", string(got))
	})

	t.Run("Overwrites Existing Entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Python.md")
		require.NoError(t, os.WriteFile(path, []byte("initial"), 0644))

		require.NoError(t, replaceEntryFile(path, []byte("overwritten")))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(got))
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, replaceEntryFile(filepath.Join(dir, "a.md"), []byte("a")))
		require.NoError(t, replaceEntryFile(filepath.Join(dir, "a.md"), []byte("b")))

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, f := range files {
			assert.False(t, strings.HasPrefix(f.Name(), TempFilePrefix), "stray temp file %s", f.Name())
		}
		assert.Len(t, files, 1)
	})

	t.Run("Permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("windows only honours the read-only bit")
		}
		dir := t.TempDir()

		fresh := filepath.Join(dir, "fresh.md")
		require.NoError(t, replaceEntryFile(fresh, []byte("new")))
		info, err := os.Stat(fresh)
		require.NoError(t, err)
		assert.Equal(t, DefaultFileMode, info.Mode().Perm())

		private := filepath.Join(dir, "private.md")
		require.NoError(t, os.WriteFile(private, []byte("old"), 0600))
		require.NoError(t, os.Chmod(private, 0600))
		require.NoError(t, replaceEntryFile(private, []byte("edited")))
		info, err = os.Stat(private)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing_folder", "test.md")
		assert.Error(t, replaceEntryFile(path, []byte("fail")))
	})
}

func TestSweepTempFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	stale := filepath.Join(dir, TempFilePrefix+"stale")
	fresh := filepath.Join(dir, TempFilePrefix+"fresh")
	entry := filepath.Join(dir, "Go.md")
	for _, p := range []string{stale, fresh, entry} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	old := now.Add(-2 * staleTempAge)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(entry, old, old))

	removed, err := sweepTempFiles(dir, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, entry)
}
