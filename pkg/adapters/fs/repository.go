// Package fs stores wiki entries as markdown files in a flat directory.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/encyclopedia/internal/logging"
	"github.com/aretw0/encyclopedia/pkg/core"
)

// Extension is appended to an entry title to form its file name.
const Extension = ".md"

// Repository implements core.Repository on a directory of markdown files.
// The directory is the only source of truth; nothing is cached in memory.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path        string
	MustExist   bool
	ReadOnly    bool
	Logger      *slog.Logger
	EventBuffer int // capacity of the channel returned by Watch
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 16
	}
	return &Repository{
		Path:   config.Path,
		config: config,
	}
}

// Initialize makes sure the entries directory is usable.
// In MustExist or ReadOnly mode the directory is never created.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("entries path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat entries path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("entries path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create entries directory: %w", err)
	}

	removed, err := sweepTempFiles(r.Path, time.Now())
	if err != nil {
		return err
	}
	if removed > 0 {
		r.config.Logger.Warn("removed temp files left by interrupted writes", "path", r.Path, "count", removed)
	}
	return nil
}

// Get reads <title>.md. A missing file, a path that is not a regular file, or
// a title that could never name a file in this directory is reported as not
// found.
func (r *Repository) Get(ctx context.Context, title string) (core.Entry, bool, error) {
	if core.ValidateTitle(title) != nil {
		return core.Entry{}, false, nil
	}

	path := r.filename(title)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return core.Entry{}, false, nil
	}
	if err != nil {
		return core.Entry{}, false, fmt.Errorf("failed to stat entry %q: %w", title, err)
	}
	// List only reports regular files; anything else is not an entry.
	if !info.Mode().IsRegular() {
		return core.Entry{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Entry{}, false, nil
		}
		return core.Entry{}, false, fmt.Errorf("failed to read entry %q: %w", title, err)
	}

	return core.Entry{Title: title, Content: string(data)}, true, nil
}

// Save writes the entry content to <title>.md, creating or overwriting it.
// The write goes through a temp file and a rename, so readers never see a partial file.
func (r *Repository) Save(ctx context.Context, e core.Entry) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateTitle(e.Title); err != nil {
		return err
	}

	fullPath := r.filename(e.Title)
	r.config.Logger.Debug("writing entry to disk", "title", e.Title, "path", fullPath)

	if err := replaceEntryFile(fullPath, []byte(e.Content)); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.recordWrite()
	return nil
}

// List scans the directory for entry files and returns their titles sorted.
// Sub-directories, hidden files, temp files and non-markdown files are skipped.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries directory: %w", err)
	}

	titles := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}
		title, ok := titleFromFilename(d.Name())
		if !ok {
			continue
		}
		titles = append(titles, title)
	}

	sort.Strings(titles)
	return titles, nil
}

func (r *Repository) filename(title string) string {
	return filepath.Join(r.Path, title+Extension)
}

// titleFromFilename maps a file name back to an entry title.
func titleFromFilename(name string) (string, bool) {
	if strings.HasPrefix(name, TempFilePrefix) {
		return "", false
	}
	if filepath.Ext(name) != Extension {
		return "", false
	}
	title := strings.TrimSuffix(name, Extension)
	if core.ValidateTitle(title) != nil {
		return "", false
	}
	return title, true
}

func (r *Repository) recordWrite() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastWrite = &now
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
