package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/encyclopedia/pkg/adapters/sqlite"
	"github.com/aretw0/encyclopedia/pkg/core"
)

func newTestRepo(t *testing.T, cfg sqlite.Config) *sqlite.Repository {
	t.Helper()

	repo, err := sqlite.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestRepository(t *testing.T) {
	repo := newTestRepo(t, sqlite.Config{Path: sqlite.MemoryDSN})
	ctx := context.Background()

	t.Run("Empty Store", func(t *testing.T) {
		titles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, titles)
		assert.Empty(t, titles)

		_, found, err := repo.Get(ctx, "Python")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Save and Get", func(t *testing.T) {
		content := "# Python\r\n\r\nA *language*.\n"
		require.NoError(t, repo.Save(ctx, core.Entry{Title: "Python", Content: content}))

		entry, found, err := repo.Get(ctx, "Python")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, content, entry.Content)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, core.Entry{Title: "Python", Content: "v2"}))

		entry, _, err := repo.Get(ctx, "Python")
		require.NoError(t, err)
		assert.Equal(t, "v2", entry.Content)
	})

	t.Run("Titles Are Case Sensitive", func(t *testing.T) {
		_, found, err := repo.Get(ctx, "python")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("List Is Sorted", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, core.Entry{Title: "C"}))
		require.NoError(t, repo.Save(ctx, core.Entry{Title: "Java"}))
		require.NoError(t, repo.Save(ctx, core.Entry{Title: "apple"}))

		titles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "Java", "Python", "apple"}, titles)
	})

	t.Run("Invalid Title", func(t *testing.T) {
		err := repo.Save(ctx, core.Entry{Title: "a/b"})
		assert.ErrorIs(t, err, core.ErrInvalidTitle)

		_, found, err := repo.Get(ctx, "a/b")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("State", func(t *testing.T) {
		state, ok := repo.State().(sqlite.RepositoryState)
		require.True(t, ok)
		assert.Equal(t, sqlite.MemoryDSN, state.Path)
		assert.NotNil(t, state.LastWrite)
		assert.Equal(t, "sqlite-repository", repo.ComponentType())
	})
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.db")
	ctx := context.Background()

	repo := newTestRepo(t, sqlite.Config{Path: path})
	require.NoError(t, repo.Save(ctx, core.Entry{Title: "Go", Content: "gopher"}))
	require.NoError(t, repo.Close())

	t.Run("Reopen Keeps Data", func(t *testing.T) {
		reopened := newTestRepo(t, sqlite.Config{Path: path, MustExist: true})
		entry, found, err := reopened.Get(ctx, "Go")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "gopher", entry.Content)
	})

	t.Run("Read Only Rejects Writes", func(t *testing.T) {
		ro := newTestRepo(t, sqlite.Config{Path: path, ReadOnly: true})
		err := ro.Save(ctx, core.Entry{Title: "Go", Content: "changed"})
		assert.ErrorIs(t, err, core.ErrReadOnly)
	})
}

func TestOpenMustExist(t *testing.T) {
	_, err := sqlite.Open(sqlite.Config{Path: filepath.Join(t.TempDir(), "missing.db"), MustExist: true})
	assert.Error(t, err)

	_, err = sqlite.Open(sqlite.Config{})
	assert.Error(t, err)
}

func TestServiceOverSQLite(t *testing.T) {
	repo := newTestRepo(t, sqlite.Config{Path: sqlite.MemoryDSN})
	svc := core.NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Watch(ctx, "*")
	assert.ErrorIs(t, err, core.ErrWatchUnsupported)
}
