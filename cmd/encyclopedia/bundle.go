package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/encyclopedia/pkg/core"
)

// A bundle is a YAML mapping of title to markdown content.
type bundle map[string]string

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every entry as a YAML bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			ctx := cmd.Context()
			titles, err := svc.List(ctx)
			if err != nil {
				return err
			}

			b := make(bundle, len(titles))
			for _, title := range titles {
				entry, err := svc.Edit(ctx, title)
				if err != nil {
					return err
				}
				b[title] = entry.Content
			}

			data, err := yaml.Marshal(b)
			if err != nil {
				return fmt.Errorf("failed to encode bundle: %w", err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write bundle: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(b), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import entries from a YAML bundle",
		Long: `Import entries from a YAML mapping of title to markdown content.
Existing entries are overwritten unless --skip-existing is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read bundle: %w", err)
			}

			var b bundle
			if err := yaml.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("failed to decode bundle: %w", err)
			}

			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			titles := make([]string, 0, len(b))
			for title := range b {
				titles = append(titles, title)
			}
			sort.Strings(titles)

			ctx := cmd.Context()
			imported, skipped := 0, 0
			for _, title := range titles {
				if skipExisting {
					_, err = svc.Create(ctx, title, b[title])
					if errors.Is(err, core.ErrAlreadyExists) {
						skipped++
						continue
					}
				} else {
					_, err = svc.Update(ctx, title, b[title])
				}
				if err != nil {
					return fmt.Errorf("import %q: %w", title, err)
				}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d skipped).\n", imported, skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Keep entries that already exist")
	return cmd
}
