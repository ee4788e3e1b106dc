package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/encyclopedia/pkg/adapters/lifecycle"
	"github.com/aretw0/encyclopedia/pkg/core"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		pattern string
		kinds   []string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print entry changes as they happen",
		Long:  `Watch the entries directory and print one line per created, modified or deleted entry.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := parseEventTypes(kinds)
			if err != nil {
				return err
			}

			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src := lifecycle.NewSource(svc, pattern, types...)
			if err := src.Start(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (pattern %q). Press Ctrl+C to stop.\n", a.cfg.Store.Path, pattern)
			for e := range src.Events() {
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "*", "Only report titles matching this glob")
	cmd.Flags().StringSliceVarP(&kinds, "type", "t", nil, "Only report these changes: create, modify, delete")
	return cmd
}

func parseEventTypes(kinds []string) ([]core.EventType, error) {
	types := make([]core.EventType, 0, len(kinds))
	for _, k := range kinds {
		t := core.EventType(strings.ToUpper(strings.TrimSpace(k)))
		switch t {
		case core.EventCreate, core.EventModify, core.EventDelete:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("unknown change type %q", k)
		}
	}
	return types, nil
}
