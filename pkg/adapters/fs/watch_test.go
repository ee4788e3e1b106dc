package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/encyclopedia/pkg/adapters/fs"
	"github.com/aretw0/encyclopedia/pkg/core"
)

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed early")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return core.Event{}
}

func TestWatch(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Save(ctx, core.Entry{Title: "Existing", Content: "x"}))

	events, err := repo.Watch(ctx, "*")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, core.Entry{Title: "Go", Content: "# Go"}))
	e := nextEvent(t, events)
	assert.Equal(t, "Go", e.Title)
	assert.Equal(t, core.EventCreate, e.Type)

	require.NoError(t, repo.Save(ctx, core.Entry{Title: "Existing", Content: "y"}))
	e = nextEvent(t, events)
	assert.Equal(t, "Existing", e.Title)
	assert.Equal(t, core.EventModify, e.Type)

	require.NoError(t, os.Remove(filepath.Join(path, "Go.md")))
	e = nextEvent(t, events)
	assert.Equal(t, "Go", e.Title)
	assert.Equal(t, core.EventDelete, e.Type)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatchPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "Py*")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, core.Entry{Title: "Java"}))
	require.NoError(t, repo.Save(ctx, core.Entry{Title: "Python"}))

	e := nextEvent(t, events)
	assert.Equal(t, "Python", e.Title)
}

func TestWatchInvalidPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}

func TestWatchThroughService(t *testing.T) {
	repo, _ := setupRepo(t)
	svc := core.NewService(repo, plainRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := svc.Watch(ctx, "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "C", "# C")
	require.NoError(t, err)
	assert.Equal(t, "C", nextEvent(t, events).Title)

	require.Eventually(t, func() bool {
		return repo.State().(fs.RepositoryState).WatcherActive
	}, time.Second, 10*time.Millisecond)
}
