package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/encyclopedia"
	"github.com/aretw0/encyclopedia/internal/config"
	"github.com/aretw0/encyclopedia/internal/logging"
	"github.com/aretw0/encyclopedia/internal/platform"
	"github.com/aretw0/encyclopedia/pkg/adapters/sqlite"
	"github.com/aretw0/encyclopedia/pkg/core"
	"github.com/aretw0/encyclopedia/pkg/markdown"
)

// app carries the global flags and the state derived from them.
type app struct {
	configPath string
	verbose    bool
	dir        string
	adapter    string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "encyclopedia",
		Short: "A markdown wiki served over HTTP",
		Long: `Encyclopedia keeps one markdown file per entry and serves them as a wiki.
Entries can be listed, searched, created and edited from the browser or from here.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default: encyclopedia.yaml found upwards)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&a.dir, "dir", "d", "", "Entries directory, or database file for sqlite")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter: fs or sqlite")

	rootCmd.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newReadCmd(a),
		newCreateCmd(a),
		newWriteCmd(a),
		newRandomCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newWatchCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// load resolves the configuration (file, env, then flags) and the logger.
func (a *app) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if root, err := encyclopedia.FindRoot(wd); err == nil {
				path = filepath.Join(root, platform.ConfigFileName)
			}
		}
	}

	cfg, err := config.Parse(path)
	if err != nil {
		return err
	}
	// Store paths in a config file are relative to that file.
	if path != "" && cfg.Store.Path != sqlite.MemoryDSN && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}

	if a.dir != "" {
		cfg.Store.Path = a.dir
	}
	if a.adapter != "" {
		cfg.Store.Adapter = a.adapter
	}
	if a.verbose {
		cfg.App.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logging.InitGlobal(cmd.ErrOrStderr(), cfg.App.LogLevel, cfg.App.Pretty,
		logging.WithAttrs(slog.String("cmd", cmd.Name())),
	)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openService builds the Service described by the loaded configuration.
func (a *app) openService(extra ...encyclopedia.Option) (*core.Service, error) {
	renderer, err := markdown.New(a.cfg.MarkdownOptions())
	if err != nil {
		return nil, err
	}

	opts := []encyclopedia.Option{
		encyclopedia.WithLogger(a.logger),
		encyclopedia.WithAdapter(a.cfg.Store.Adapter),
		encyclopedia.WithReadOnly(a.cfg.Store.ReadOnly),
		encyclopedia.WithMustExist(a.cfg.Store.MustExist),
		encyclopedia.WithRenderer(renderer),
	}
	opts = append(opts, extra...)

	svc, err := encyclopedia.New(a.cfg.Store.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open encyclopedia: %w", err)
	}
	return svc, nil
}
