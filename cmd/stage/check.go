package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stage"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Validate layout documents",
		Long:  `Parses every .json, .yaml and .yml layout in dir (default: the configured layout directory) and reports malformed documents, duplicate names, invalid physics and unresolved parents.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			dir := cfg.LayoutDir
			if len(args) == 1 {
				dir = args[0]
			}
			fsys, sub := layoutSource(dir)
			return checkLayouts(cmd, fsys, sub)
		},
	}
}

// errInvalidLayouts is returned when at least one document failed.
var errInvalidLayouts = errors.New("invalid layouts")

func checkLayouts(cmd *cobra.Command, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read layouts: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch path.Ext(e.Name()) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	failed := 0
	for _, name := range names {
		p := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, p)
		if err == nil {
			var d *stage.LayoutDescriptor
			d, err = stage.ParseLayout(data, stage.FormatForPath(name))
			if err == nil {
				err = d.Validate()
				if err == nil {
					fmt.Fprintf(out, "ok      %s (%d objects)\n", name, len(d.Objects))
					continue
				}
			}
		}
		failed++
		fmt.Fprintf(out, "invalid %s: %v\n", name, err)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidLayouts, failed, len(names))
	}
	fmt.Fprintf(out, "%d layouts valid\n", len(names))
	return nil
}
