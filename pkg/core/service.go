package core

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/aretw0/encyclopedia/internal/logging"
)

// Service handles the business logic for wiki entries.
type Service struct {
	repo     Repository
	renderer Renderer
	logger   *slog.Logger
	intn     func(n int) int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the Service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRandom replaces the source used by Random. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) ServiceOption {
	return func(s *Service) {
		if intn != nil {
			s.intn = intn
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, renderer Renderer, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		renderer: renderer,
		logger:   logging.Discard(),
		intn:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying storage adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// List returns every entry title in listing order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	titles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return titles, nil
}

// Resolve fetches an entry and renders it.
// It returns ErrNotFound when no entry carries the title.
func (s *Service) Resolve(ctx context.Context, title string) (Page, error) {
	entry, found, err := s.repo.Get(ctx, title)
	if err != nil {
		return Page{}, fmt.Errorf("failed to get entry %q: %w", title, err)
	}
	if !found {
		return Page{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	html, err := s.renderer.Render([]byte(entry.Content))
	if err != nil {
		return Page{}, fmt.Errorf("failed to render entry %q: %w", title, err)
	}

	return Page{
		Title:   entry.Title,
		Content: entry.Content,
		HTML:    html,
	}, nil
}

// Search resolves query directly when it is exactly an existing title
// (case-sensitive). Otherwise it returns every title containing query,
// ignoring case, in listing order.
func (s *Service) Search(ctx context.Context, query string) (SearchResult, error) {
	titles, err := s.List(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	for _, title := range titles {
		if title != query {
			continue
		}
		page, err := s.Resolve(ctx, title)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Query: query, Page: &page}, nil
	}

	needle := strings.ToLower(query)
	matches := make([]string, 0)
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), needle) {
			matches = append(matches, title)
		}
	}

	s.logger.Debug("search", "query", query, "matches", len(matches))
	return SearchResult{Query: query, Matches: matches}, nil
}

// Create saves a new entry and resolves it.
// An existing entry is never overwritten: ErrAlreadyExists is returned instead.
func (s *Service) Create(ctx context.Context, title, content string) (Page, error) {
	if err := ValidateTitle(title); err != nil {
		return Page{}, err
	}

	_, found, err := s.repo.Get(ctx, title)
	if err != nil {
		return Page{}, fmt.Errorf("failed to get entry %q: %w", title, err)
	}
	if found {
		return Page{}, fmt.Errorf("%w: %q", ErrAlreadyExists, title)
	}

	if err := s.save(ctx, title, content); err != nil {
		return Page{}, err
	}
	s.logger.Info("entry created", "title", title)

	return s.Resolve(ctx, title)
}

// Edit loads the current content of an entry for editing.
func (s *Service) Edit(ctx context.Context, title string) (Entry, error) {
	entry, found, err := s.repo.Get(ctx, title)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get entry %q: %w", title, err)
	}
	if !found {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return entry, nil
}

// Update overwrites an entry and resolves it. There is no conflict detection
// between Edit and Update: the last writer wins.
func (s *Service) Update(ctx context.Context, title, content string) (Page, error) {
	if err := ValidateTitle(title); err != nil {
		return Page{}, err
	}
	if err := s.save(ctx, title, content); err != nil {
		return Page{}, err
	}
	s.logger.Info("entry updated", "title", title)

	return s.Resolve(ctx, title)
}

// Random resolves an entry chosen uniformly from the listing.
// An empty store yields ErrEmptyStore.
func (s *Service) Random(ctx context.Context) (Page, error) {
	titles, err := s.List(ctx)
	if err != nil {
		return Page{}, err
	}
	if len(titles) == 0 {
		return Page{}, ErrEmptyStore
	}
	return s.Resolve(ctx, titles[s.intn(len(titles))])
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx, pattern)
}

func (s *Service) save(ctx context.Context, title, content string) error {
	if err := s.repo.Save(ctx, Entry{Title: title, Content: content}); err != nil {
		return fmt.Errorf("failed to save entry %q: %w", title, err)
	}
	return nil
}
