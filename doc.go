// Package stage orchestrates the top-level scenes of a 2D game: which scene
// is current, how control moves between them, and how each scene's initial
// entities are declared in data files instead of code.
//
// The package never touches the GPU or input devices, so everything in it
// runs headless. Package host draws a [Director] inside an Ebitengine
// window and feeds it pointer input.
//
// # Quick start
//
// Register scenes with a [Director], put a [Coordinator] in front of it, and
// tick the director once per frame:
//
//	d := stage.NewDirector(stage.WithLayoutLoader(stage.FSLoader{FS: assets, Dir: "scenes"}))
//	d.Register("GameScene", &NovelScene{})
//	d.Register("JumpScene", &JumpScene{}, stage.WithPhysics(stage.Vec2{Y: 980}, bounds))
//
//	c := stage.NewCoordinator(d, d.Bus(), stage.CoordinatorConfig{Home: "GameScene"},
//		stage.WithTweenCanceler(d))
//	c.Listen()
//	c.Start("GameScene", nil)
//
//	for {
//		d.Tick(1.0 / 60)
//	}
//
// # Transitions
//
// Scenes ask for transitions by publishing on the [Bus]:
//
//	sc.Bus().Publish(stage.TopicRequestSceneTransition, stage.TransitionRequest{
//		From: "GameScene", To: "JumpScene", Params: stage.Params{"stage": 1},
//	})
//
// The coordinator accepts one transition at a time. While it is [Busy],
// further requests are dropped, application input is off and every tween is
// killed. The origin scene is always torn down completely before the
// destination boots, and the coordinator returns to [Idle] when the
// destination reports ready.
//
// Overlays are layered above the requesting scene with
// [TopicRequestOverlay]. They never block transitions; when they block input
// they do so for the requesting scene only.
//
// # Layouts
//
// A scene's Create usually calls [SceneContext.Build], which materializes
// the layout document keyed by the scene's ID:
//
//	{
//	  "objects": [
//	    {"name": "ground_floor", "type": "rect", "y": 680,
//	     "params": {"width": 1280, "height": 40},
//	     "physics": {"isStatic": true, "width": 1280, "height": 40}},
//	    {"name": "player", "x": 200, "y": 400,
//	     "physics": {"width": 48, "height": 64, "allowGravity": true}}
//	  ]
//	}
//
// Entities are created first and configured second, so a widget may wire
// up other entities while it is built. The finalize callback and the
// scene's ready signal run only once every entity is fully formed. A
// missing or malformed document builds an empty scene.
//
// # Debug mode
//
// [SetDebugMode] enables panics on use of disposed entities, tree depth
// warnings and per-tick timing logs. Attaching an [Inspector] to the
// builder's [EditableRegistry] makes built entities editable, and
// [ExportLayout] writes their current state back in the layout format.
package stage
