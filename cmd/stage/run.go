package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/host"
	"github.com/phanxgames/stage/internal/demo"
)

type runOptions struct {
	*rootOptions
	script string
	debug  bool
	fps    bool
	exit   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the demo window",
		Long:  `Opens a window running the demo scenes. With --debug, built entities are draggable and P writes their layouts to the export directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.script, "script", "", "Script of bus requests to replay (JSON or YAML)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug checks and the layout inspector")
	cmd.Flags().BoolVar(&opts.fps, "fps", false, "Show the FPS overlay")
	cmd.Flags().BoolVar(&opts.exit, "exit-after-script", false, "Quit once the script has run")
	return cmd
}

func runGame(cmd *cobra.Command, opts *runOptions) error {
	cfg, log, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.debug
	}
	if cmd.Flags().Changed("fps") {
		cfg.ShowFPS = opts.fps
	}
	if opts.script != "" {
		cfg.Script = opts.script
	}

	stage.SetDebugMode(cfg.Debug)
	stage.SetDebugLogger(log)

	layouts, dir := layoutSource(cfg.LayoutDir)
	cfg.LayoutDir = dir
	app := demo.New(demo.Options{Config: cfg, Layouts: layouts, Log: log})
	defer app.Close()

	game := host.NewGame(app.Director, cfg.Width, cfg.Height)
	if fi, err := os.Stat(cfg.AssetDir); err == nil && fi.IsDir() {
		n, err := game.Renderer.LoadTextures(os.DirFS(cfg.AssetDir), ".")
		if err != nil {
			return err
		}
		log.Info("textures loaded", "count", n, "dir", cfg.AssetDir)
	}
	if cfg.Debug {
		game.Inspector = host.NewInspector(app.Director, game.Renderer, cfg.ExportDir, log)
		app.Editables.Attach(game.Inspector)
	}
	if cfg.ShowFPS {
		game.FPS = host.NewFPSOverlay()
	}
	game.Capture = host.NewCapturer(cfg.ScreenshotDir, log)
	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := stage.LoadScript(data, stage.FormatForPath(filepath.Base(cfg.Script)))
		if err != nil {
			return err
		}
		runner.Busy = app.Coordinator.Busy
		runner.Screenshot = game.Capture.Queue
		game.Script = runner
		game.ExitOnScriptEnd = opts.exit
	}

	if !app.Start() {
		return fmt.Errorf("start scene %q: %w", cfg.Scenes.Start, stage.ErrUnknownScene)
	}
	return game.Run(cfg.Title)
}
