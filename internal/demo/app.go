// Package demo assembles the sample application: a dialogue home scene, an
// always-on HUD, a text overlay and a physics mini game, all built from
// layout documents and sequenced by a stage.Coordinator.
package demo

import (
	"io/fs"
	"log/slog"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/ecs"
	"github.com/phanxgames/stage/internal/config"
)

// Scene IDs of the demo.
const (
	SceneGame    stage.SceneID = "GameScene"
	SceneHUD     stage.SceneID = "UIScene"
	SceneOverlay stage.SceneID = "NovelOverlayScene"
	SceneJump    stage.SceneID = "JumpScene"
)

// Options configures New.
type Options struct {
	Config config.Config
	// Layouts is the file system Config.LayoutDir is resolved in.
	Layouts fs.FS
	Log     *slog.Logger
}

// App is the wired demo application.
type App struct {
	Director    *stage.Director
	Coordinator *stage.Coordinator
	Editables   *stage.EditableRegistry
	World       donburi.World
	Bridge      *ecs.DonburiBridge

	Home    *HomeScene
	HUD     *HUDScene
	Overlay *OverlayScene
	Jump    *JumpScene

	cfg config.Config
	log *slog.Logger
}

// CharaDefs are the character definitions shared with every home boot and
// overlay.
func CharaDefs() map[string]any {
	return map[string]any{
		"yuna": map[string]any{"jname": "Yuna", "face": map[string]any{"normal": "yuna_normal", "smile": "yuna_smile"}},
	}
}

// New registers the demo scenes and wires the coordinator to the bus.
func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config

	editables := stage.NewEditableRegistry(nil)
	builder := stage.NewBuilder(
		stage.WithEditables(editables),
		stage.WithBuilderLogger(log.With("component", "builder")),
	)
	d := stage.NewDirector(
		stage.WithDirectorLogger(log.With("component", "director")),
		stage.WithLayoutLoader(stage.FSLoader{FS: opts.Layouts, Dir: cfg.LayoutDir}),
		stage.WithBuilder(builder),
	)

	world := donburi.NewWorld()
	a := &App{
		Director:  d,
		Editables: editables,
		World:     world,
		Bridge:    ecs.NewDonburiBridge(d.Bus(), world),
		Home:      &HomeScene{},
		HUD:       NewHUDScene(world),
		Overlay:   &OverlayScene{},
		Jump:      &JumpScene{},
		cfg:       cfg,
		log:       log,
	}

	d.Register(SceneGame, a.Home)
	d.Register(SceneHUD, a.HUD)
	d.Register(SceneOverlay, a.Overlay)
	d.Register(SceneJump, a.Jump, stage.WithPhysics(JumpGravity, JumpBounds))

	a.Coordinator = stage.NewCoordinator(d, d.Bus(), stage.CoordinatorConfig{
		Home:    stage.SceneID(cfg.Scenes.Home),
		HUD:     stage.SceneID(cfg.Scenes.HUD),
		Overlay: stage.SceneID(cfg.Scenes.Overlay),
		Shared:  stage.Params{"charaDefs": CharaDefs()},
	},
		stage.WithTweenCanceler(d),
		stage.WithCoordinatorLogger(log.With("component", "coordinator")),
	)
	a.Coordinator.Listen()
	return a
}

// Start boots the configured start scene.
func (a *App) Start() bool {
	return a.Coordinator.Start(stage.SceneID(a.cfg.Scenes.Start), nil)
}

// Close detaches the coordinator and the ECS bridge from the bus.
func (a *App) Close() {
	a.Coordinator.Close()
	a.Bridge.Close()
}
