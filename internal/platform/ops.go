package platform

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/encyclopedia/pkg/adapters/fs"
	"github.com/aretw0/encyclopedia/pkg/adapters/sqlite"
	"github.com/aretw0/encyclopedia/pkg/core"
)

// Init opens and initializes the entry store.
// The uri argument is adapter-specific: a directory for "fs", a database
// file (or ":memory:") for "sqlite".
func Init(uri string, opts ...Option) (core.Repository, error) {
	return initRepository(context.Background(), uri, buildOptions(opts))
}

func initRepository(ctx context.Context, uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case AdapterFS:
		repo = initFS(uri, o)
	case AdapterSQLite:
		repo, err = initSQLite(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(ctx); err != nil {
		closeRepository(repo)
		return nil, err
	}
	return repo, nil
}

// resolvePath applies the dev sandbox to uri.
func resolvePath(uri string, o *options) string {
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(uri, useTemp)

	if o.logger != nil && useTemp && resolved != uri {
		o.logger.Warn("running in SAFE MODE (dev/test)", "original_path", uri, "resolved_path", resolved)
	}
	return resolved
}

func initFS(path string, o *options) core.Repository {
	return fs.NewRepository(fs.Config{
		Path:        resolvePath(path, o),
		MustExist:   o.mustExist,
		ReadOnly:    o.readOnly,
		Logger:      o.logger,
		EventBuffer: o.eventBuffer,
	})
}

func initSQLite(path string, o *options) (core.Repository, error) {
	if path != sqlite.MemoryDSN {
		path = resolvePath(path, o)
	}
	return sqlite.Open(sqlite.Config{
		Path:      path,
		MustExist: o.mustExist,
		ReadOnly:  o.readOnly,
		Logger:    o.logger,
	})
}

// Close releases resources held by the service's repository, if any.
func Close(svc *core.Service) error {
	if svc == nil {
		return nil
	}
	if c, ok := svc.Repository().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closeRepository(repo core.Repository) {
	if c, ok := repo.(io.Closer); ok {
		_ = c.Close()
	}
}
