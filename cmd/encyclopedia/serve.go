package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/encyclopedia"
	"github.com/aretw0/encyclopedia/pkg/adapters/lifecycle"
	"github.com/aretw0/encyclopedia/pkg/core"
	"github.com/aretw0/encyclopedia/pkg/web"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		readOnly bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wiki over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			if readOnly {
				a.cfg.Store.ReadOnly = true
			}

			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer encyclopedia.Close(svc)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				a.logChanges(ctx, svc)
			}

			handlers, err := web.NewHandlers(svc, web.WithLogger(a.logger))
			if err != nil {
				return err
			}

			srv := web.NewServer(a.cfg.HTTP.Addr, handlers.Routes(),
				web.WithReadHeaderTimeout(a.cfg.HTTP.ReadHeaderTimeout),
				web.WithShutdownTimeout(a.cfg.HTTP.ShutdownTimeout),
				web.WithServerLogger(a.logger),
			)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject every write")
	cmd.Flags().BoolVar(&watch, "watch", false, "Log entries changed on disk by other programs")
	return cmd
}

// logChanges logs every change the store reports until ctx is done.
func (a *app) logChanges(ctx context.Context, svc *core.Service) {
	src := lifecycle.NewSource(svc, "*")
	err := src.Start(ctx)
	if errors.Is(err, core.ErrWatchUnsupported) {
		a.logger.Warn("adapter cannot watch for changes", "adapter", a.cfg.Store.Adapter)
		return
	}
	if err != nil {
		a.logger.Error("failed to start watcher", "error", err)
		return
	}

	go func() {
		for e := range src.Events() {
			a.logger.Info("entry changed", "event", e.String())
		}
	}()
}
