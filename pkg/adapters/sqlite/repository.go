// Package sqlite stores wiki entries in a single SQLite table through bun.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/aretw0/encyclopedia/internal/logging"
	"github.com/aretw0/encyclopedia/pkg/core"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Config holds the configuration for the SQLite repository.
type Config struct {
	// Path is the database file, or MemoryDSN.
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
}

// Repository implements core.Repository on an "entries" table.
type Repository struct {
	db     *bun.DB
	config Config

	mu        sync.RWMutex
	lastWrite *time.Time
}

type entryRow struct {
	bun.BaseModel `bun:"table:entries"`

	Title   string `bun:"title,pk"`
	Content string `bun:"content,notnull"`
}

// Open opens the database file and wraps it in a repository.
// The schema is created by Initialize.
func Open(config Config) (*Repository, error) {
	if config.Path == "" {
		return nil, errors.New("sqlite: database path is required")
	}
	if config.Path != MemoryDSN && (config.MustExist || config.ReadOnly) {
		if _, err := os.Stat(config.Path); err != nil {
			return nil, fmt.Errorf("database file not available: %w", err)
		}
	}

	sqlDB, err := sql.Open(DriverName, config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" sees its own database.
	if config.Path == MemoryDSN {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	return NewRepository(bun.NewDB(sqlDB, sqlitedialect.New()), config), nil
}

// NewRepository wraps an already opened bun database.
func NewRepository(db *bun.DB, config Config) *Repository {
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	return &Repository{db: db, config: config}
}

// Initialize creates the entries table unless the repository is read-only.
func (r *Repository) Initialize(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	if r.config.ReadOnly {
		return nil
	}
	if _, err := r.db.NewCreateTable().Model((*entryRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}
	return nil
}

// Get looks the entry up by its exact title.
func (r *Repository) Get(ctx context.Context, title string) (core.Entry, bool, error) {
	if core.ValidateTitle(title) != nil {
		return core.Entry{}, false, nil
	}

	var row entryRow
	err := r.db.NewSelect().Model(&row).Where("title = ?", title).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Entry{}, false, nil
		}
		return core.Entry{}, false, fmt.Errorf("failed to read entry %q: %w", title, err)
	}
	return core.Entry{Title: row.Title, Content: row.Content}, true, nil
}

// Save upserts the entry.
func (r *Repository) Save(ctx context.Context, e core.Entry) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateTitle(e.Title); err != nil {
		return err
	}

	row := entryRow{Title: e.Title, Content: e.Content}
	r.config.Logger.Debug("writing entry to database", "title", e.Title)

	_, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (title) DO UPDATE").
		Set("content = EXCLUDED.content").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}

	r.mu.Lock()
	now := time.Now()
	r.lastWrite = &now
	r.mu.Unlock()
	return nil
}

// List returns all titles in byte order.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	titles := make([]string, 0)
	err := r.db.NewSelect().
		Model((*entryRow)(nil)).
		Column("title").
		Order("title ASC").
		Scan(ctx, &titles)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return titles, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

var _ core.Repository = (*Repository)(nil)
