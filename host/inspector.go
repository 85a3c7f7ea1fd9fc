package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/stage"
)

// Inspector is the in-game layout editor. Editable entities become
// draggable, and pressing the export key writes each scene's current layout
// back to disk in the same format the builder reads.
type Inspector struct {
	director *stage.Director
	renderer *Renderer
	log      *slog.Logger

	// Dir is where exported layouts are written.
	Dir string
	// Format of exported layouts.
	Format stage.LayoutFormat
	// ExportKey triggers ExportAll.
	ExportKey ebiten.Key

	scenes map[stage.SceneID]int
}

// NewInspector creates an inspector. renderer may be nil; when set, images
// without a size get their texture's size as hit area.
func NewInspector(d *stage.Director, renderer *Renderer, dir string, log *slog.Logger) *Inspector {
	if log == nil {
		log = slog.Default()
	}
	return &Inspector{
		director:  d,
		renderer:  renderer,
		log:       log,
		Dir:       dir,
		Format:    stage.FormatJSON,
		ExportKey: ebiten.KeyP,
		scenes:    make(map[stage.SceneID]int),
	}
}

// MakeEditable implements stage.Inspector.
func (in *Inspector) MakeEditable(e *stage.Entity, scene stage.SceneID) {
	e.Draggable = true
	if (e.Width <= 0 || e.Height <= 0) && e.Kind == stage.KindImage {
		if w, h, ok := in.textureSize(e.Texture); ok {
			e.Width, e.Height = w, h
		} else {
			e.Width, e.Height = placeholderSize, placeholderSize
		}
	}
	e.OnDragEnd = func(e *stage.Entity) {
		in.log.Debug("moved", "scene", scene, "name", e.Name, "x", int(e.X), "y", int(e.Y))
	}
	in.scenes[scene]++
}

func (in *Inspector) textureSize(key string) (float64, float64, bool) {
	if in.renderer == nil {
		return 0, 0, false
	}
	return in.renderer.TextureSize(key)
}

// Editables returns how many entities were made editable in scene.
func (in *Inspector) Editables(scene stage.SceneID) int {
	return in.scenes[scene]
}

// Update handles the export key. Call once per tick.
func (in *Inspector) Update() {
	if !inpututil.IsKeyJustPressed(in.ExportKey) {
		return
	}
	if _, err := in.ExportAll(); err != nil {
		in.log.Error("layout export failed", "err", err)
	}
}

// Export serializes the current layout of a running scene.
func (in *Inspector) Export(id stage.SceneID) ([]byte, error) {
	sc, ok := in.director.Scene(id)
	if !ok {
		return nil, fmt.Errorf("export %q: %w", id, stage.ErrUnknownScene)
	}
	d := stage.ExportLayout(id, sc.Root())
	return stage.MarshalLayout(d, in.Format)
}

// ExportAll writes the layout of every running scene with editable
// entities to Dir and returns the written paths.
func (in *Inspector) ExportAll() ([]string, error) {
	ids := make([]string, 0, len(in.scenes))
	for id := range in.scenes {
		if in.director.IsActive(id) {
			ids = append(ids, string(id))
		}
	}
	sort.Strings(ids)

	ext := ".json"
	if in.Format == stage.FormatYAML {
		ext = ".yaml"
	}
	if err := os.MkdirAll(in.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("export layouts: %w", err)
	}
	var written []string
	for _, id := range ids {
		data, err := in.Export(stage.SceneID(id))
		if err != nil {
			return written, err
		}
		p := filepath.Join(in.Dir, id+ext)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return written, fmt.Errorf("export %q: %w", id, err)
		}
		in.log.Info("layout exported", "scene", id, "path", p)
		written = append(written, p)
	}
	return written, nil
}
