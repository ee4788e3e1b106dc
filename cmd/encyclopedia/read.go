package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadCmd(a *app) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "read [title]",
		Short: "Print an entry",
		Long:  `Print an entry's raw markdown, or the rendered HTML with --html.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			page, err := svc.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asHTML {
				_, err = cmd.OutOrStdout().Write(page.HTML)
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), page.Content)
			return err
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Print rendered HTML")
	return cmd
}

func newRandomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print the title of a random entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			page, err := svc.Random(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), page.Title)
			return err
		},
	}
}
