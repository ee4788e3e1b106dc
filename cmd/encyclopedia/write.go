package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/encyclopedia"
	"github.com/aretw0/encyclopedia/pkg/core"
)

// contentFlags are shared by create and write.
type contentFlags struct {
	content string
	file    string
}

func (f *contentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "Markdown content")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read content from a file ('-' for stdin)")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
}

func (f *contentFlags) read(stdin io.Reader) (string, error) {
	switch f.file {
	case "":
		return f.content, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("failed to read content file: %w", err)
		}
		return string(data), nil
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var flags contentFlags

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new entry",
		Long:  `Create a new entry. Fails if an entry with the same title exists.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := flags.read(cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			title := strings.TrimSpace(args[0])
			if _, err := svc.Create(cmd.Context(), title, content); err != nil {
				if errors.Is(err, core.ErrAlreadyExists) {
					return fmt.Errorf("entry '%s' already exists (use write to overwrite)", title)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' created.\n", title)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	var flags contentFlags

	cmd := &cobra.Command{
		Use:   "write [title]",
		Short: "Create or overwrite an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := flags.read(cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := a.openService()
			if err != nil {
				return err
			}
			defer closeService(svc)

			title := strings.TrimSpace(args[0])
			if _, err := svc.Update(cmd.Context(), title, content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry '%s' saved.\n", title)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func closeService(svc *core.Service) {
	_ = encyclopedia.Close(svc)
}
