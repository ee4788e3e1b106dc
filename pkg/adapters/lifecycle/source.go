// Package lifecycle exposes entry changes as a lifecycle.Source.
package lifecycle

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/encyclopedia/pkg/core"
)

// EntrySource watches the titles matching Pattern and emits their changes.
// core.Event satisfies lifecycle.Event through its String method.
type EntrySource struct {
	store   core.Watchable
	pattern string
	types   []core.EventType
	out     chan lifecycle.Event
}

var _ lifecycle.Source = (*EntrySource)(nil)

// NewSource returns a source over store (usually a *core.Service). When types
// is empty every kind of change is emitted.
func NewSource(store core.Watchable, pattern string, types ...core.EventType) *EntrySource {
	return &EntrySource{
		store:   store,
		pattern: pattern,
		types:   types,
		out:     make(chan lifecycle.Event),
	}
}

func (s *EntrySource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start opens the watch and forwards matching events until ctx is done or the
// store stops watching. Events is closed afterwards. Errors from the store,
// such as core.ErrWatchUnsupported, are returned before anything starts.
func (s *EntrySource) Start(ctx context.Context) error {
	events, err := s.store.Watch(ctx, s.pattern)
	if err != nil {
		return fmt.Errorf("watch entries %q: %w", s.pattern, err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				if !s.wants(e.Type) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *EntrySource) wants(t core.EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}
