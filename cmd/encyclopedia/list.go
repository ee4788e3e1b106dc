package main

import (
	"encoding/json"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		listJSON bool
		search   string
		glob     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entry titles",
		Long: `List every entry title in order. With --search the titles are filtered
the way the wiki search box does it (case-insensitive substring).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if glob != "" && !doublestar.ValidatePattern(glob) {
				return fmt.Errorf("invalid glob %q", glob)
			}

			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			ctx := cmd.Context()
			var titles []string
			if search != "" {
				result, err := svc.Search(ctx, search)
				if err != nil {
					return err
				}
				titles = result.Matches
				if result.Exact() {
					titles = []string{result.Page.Title}
				}
			} else if titles, err = svc.List(ctx); err != nil {
				return err
			}

			if glob != "" {
				filtered := make([]string, 0, len(titles))
				for _, title := range titles {
					if ok, _ := doublestar.Match(glob, title); ok {
						filtered = append(filtered, title)
					}
				}
				titles = filtered
			}

			out := cmd.OutOrStdout()
			if listJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(titles)
			}
			for _, title := range titles {
				fmt.Fprintln(out, title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter titles like the search box")
	cmd.Flags().StringVar(&glob, "glob", "", "Filter titles with a glob pattern (e.g. 'Py*')")
	return cmd
}
