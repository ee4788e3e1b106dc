package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/encyclopedia/pkg/core"
)

// coalesceWindow groups the burst of fsnotify events produced by one write.
const coalesceWindow = 50 * time.Millisecond

// Watch emits an event for every entry file created, modified or removed in
// the directory whose title matches pattern. The channel closes when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	known, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	events := make(chan core.Event, r.config.EventBuffer)
	w := newWatchWorker(r, pattern, watcher, events, known)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher stopped", "error", err)
	}))

	return events, nil
}

type watchWorker struct {
	repo    *Repository
	pattern string
	watcher *fsnotify.Watcher
	events  chan<- core.Event
	known   map[string]bool
	pending map[string]core.EventType
}

func newWatchWorker(repo *Repository, pattern string, watcher *fsnotify.Watcher, events chan<- core.Event, known []string) *watchWorker {
	w := &watchWorker{
		repo:    repo,
		pattern: pattern,
		watcher: watcher,
		events:  events,
		known:   make(map[string]bool, len(known)),
		pending: make(map[string]core.EventType),
	}
	for _, title := range known {
		w.known[title] = true
	}
	return w
}

// run is the main event loop. It owns the events channel and closes it on exit.
func (w *watchWorker) run(ctx context.Context) error {
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	ticker := time.NewTicker(coalesceWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.collect(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.config.Logger.Error("fsnotify error", "error", err)

		case <-ticker.C:
			if !w.flush(ctx) {
				return nil
			}
		}
	}
}

// collect maps a raw fsnotify event onto a pending entry event.
func (w *watchWorker) collect(event fsnotify.Event) {
	title, ok := titleFromFilename(filepath.Base(event.Name))
	if !ok {
		return
	}
	if match, _ := doublestar.Match(w.pattern, title); !match {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
		if w.known[title] {
			eType = core.EventModify
		}
		w.known[title] = true
	case event.Has(fsnotify.Write):
		eType = core.EventModify
		w.known[title] = true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
		delete(w.known, title)
	default:
		return
	}

	w.repo.config.Logger.Debug("event received", "name", event.Name, "type", eType)

	// A create followed by writes within one window is still a create.
	if prev, ok := w.pending[title]; ok && prev == core.EventCreate && eType == core.EventModify {
		return
	}
	w.pending[title] = eType
}

// flush delivers pending events in title order. It reports false when ctx ended mid-delivery.
func (w *watchWorker) flush(ctx context.Context) bool {
	if len(w.pending) == 0 {
		return true
	}

	titles := make([]string, 0, len(w.pending))
	for title := range w.pending {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	now := time.Now().Unix()
	for _, title := range titles {
		e := core.Event{Type: w.pending[title], Title: title, Timestamp: now}
		delete(w.pending, title)
		select {
		case w.events <- e:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
