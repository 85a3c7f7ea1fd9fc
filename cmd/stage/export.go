package main

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stage"
)

type exportOptions struct {
	*rootOptions
	dir    string
	format string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "export <scene>",
		Short: "Build a scene headless and print its normalized layout",
		Long:  `Builds the scene's layout without a window, then prints the layout the in-game inspector would export: defaults filled in, values rounded, unbuildable objects dropped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			dir := cfg.LayoutDir
			if opts.dir != "" {
				dir = opts.dir
			}
			format := stage.FormatJSON
			switch opts.format {
			case "json":
			case "yaml", "yml":
				format = stage.FormatYAML
			default:
				return fmt.Errorf("unknown format %q", opts.format)
			}
			fsys, sub := layoutSource(dir)
			data, err := exportScene(fsys, sub, stage.SceneID(args[0]), format, log)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Layout directory (default: the configured layout directory)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format (json, yaml)")
	return cmd
}

// markEditable accepts every entity so the export covers the whole layout.
type markEditable struct{}

func (markEditable) MakeEditable(*stage.Entity, stage.SceneID) {}

// buildOnly is a scene that builds its layout and nothing else.
type buildOnly struct {
	stage.BaseScene
}

func (buildOnly) Create(sc *stage.SceneContext) { sc.Build(nil) }

func exportScene(fsys fs.FS, dir string, id stage.SceneID, format stage.LayoutFormat, log *slog.Logger) ([]byte, error) {
	loader := stage.FSLoader{FS: fsys, Dir: dir}
	if _, err := loader.LoadLayout(string(id)); err != nil {
		return nil, err
	}
	builder := stage.NewBuilder(
		stage.WithEditables(stage.NewEditableRegistry(markEditable{})),
		stage.WithBuilderLogger(log),
	)
	d := stage.NewDirector(
		stage.WithLayoutLoader(loader),
		stage.WithBuilder(builder),
		stage.WithDirectorLogger(log),
	)
	sc := d.Register(id, buildOnly{}, stage.WithPhysics(stage.Vec2{}, stage.Rect{}))

	ready := false
	sc.Ready().Once(func() { ready = true })
	d.Start(id, nil)
	d.Tick(0)
	if !ready {
		return nil, fmt.Errorf("export %q: scene did not become ready", id)
	}
	return stage.MarshalLayout(stage.ExportLayout(id, sc.Root()), format)
}
