package platform

import (
	"log/slog"

	"github.com/aretw0/encyclopedia/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// options holds the internal configuration for the encyclopedia service.
type options struct {
	repository  core.Repository
	renderer    core.Renderer
	logger      *slog.Logger
	adapter     string
	readOnly    bool
	mustExist   bool
	forceTemp   bool
	devSafety   bool
	eventBuffer int
	serviceOpts []core.ServiceOption
}

// Option defines a functional option for configuring the encyclopedia.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and its storage adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom storage adapter (e.g. a mock).
// If provided, the adapter named by WithAdapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(r core.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Saves return core.ErrReadOnly.
// 2. Initialization (mkdir, schema) is skipped.
// 3. The dev sandbox is bypassed, the real path is used.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist makes initialization fail when the store is missing
// instead of creating it.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp reroots the store into the system temp directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`.
// By default (true) writes are redirected to a temp directory there.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithEventBuffer sets the capacity of channels returned by Watch.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithServiceOptions forwards options to core.NewService.
func WithServiceOptions(opts ...core.ServiceOption) Option {
	return func(o *options) {
		o.serviceOpts = append(o.serviceOpts, opts...)
	}
}
