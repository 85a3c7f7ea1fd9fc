package main

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stage/assets"
	"github.com/phanxgames/stage/internal/config"
	"github.com/phanxgames/stage/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "stage",
		Short:         "Scene lifecycle orchestration for Ebitengine",
		Long:          `stage runs layout-driven scenes sequenced by a transition coordinator, and validates or normalizes their layout documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(
		newRunCmd(opts),
		newCheckCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// load returns the configuration and a logger for it.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	log := logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))
	return cfg, log, nil
}

// layoutSource resolves where layouts are read from: the directory on disk
// when it exists, otherwise the embedded demo layouts.
func layoutSource(dir string) (fs.FS, string) {
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return os.DirFS(dir), "."
	}
	return assets.FS, assets.LayoutDir
}
