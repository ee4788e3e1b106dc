package encyclopedia

import (
	"log/slog"

	"github.com/aretw0/encyclopedia/internal/platform"
	"github.com/aretw0/encyclopedia/pkg/core"
)

// --- Types ---

// Service is the wiki service returned by New.
type Service = core.Service

// Page is a resolved, rendered entry.
type Page = core.Page

// Entry is a stored title and its raw markdown.
type Entry = core.Entry

// --- Configuration ---

// Option defines a functional option for configuring the encyclopedia.
type Option = platform.Option

// Storage adapters accepted by WithAdapter.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the service and its storage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(r core.Renderer) Option {
	return platform.WithRenderer(r)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithMustExist ensures the store must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety toggles the `go run`/`go test` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithEventBuffer sets the capacity of Watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New creates a new encyclopedia Service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// Close releases the resources held by the service's storage.
func Close(svc *core.Service) error {
	return platform.Close(svc)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store path based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory containing encyclopedia.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
