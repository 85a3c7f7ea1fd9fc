package stage

import (
	"fmt"
	"log/slog"
	"time"
)

// Scene is implemented by application scenes. Create runs when the scene
// boots and is responsible for eventually emitting the scene's ready
// signal, usually by calling SceneContext.Build. Shutdown runs before the
// scene's entities are released.
type Scene interface {
	Create(sc *SceneContext)
	Update(sc *SceneContext, dt float64)
	Shutdown(sc *SceneContext)
}

// BaseScene provides no-op Update and Shutdown methods for embedding.
type BaseScene struct{}

// Update implements Scene.
func (BaseScene) Update(*SceneContext, float64) {}

// Shutdown implements Scene.
func (BaseScene) Shutdown(*SceneContext) {}

// SlotOption configures a registered scene.
type SlotOption func(*SceneContext)

// WithPhysics gives the scene an arcade physics world, recreated on every
// boot.
func WithPhysics(gravity Vec2, bounds Rect) SlotOption {
	return func(sc *SceneContext) {
		sc.physics = &physicsConfig{gravity: gravity, bounds: bounds}
	}
}

// WithLoadedSignal makes transitions into the scene wait for its loaded
// signal (see SceneContext.MarkLoaded) instead of structural readiness.
func WithLoadedSignal() SlotOption {
	return func(sc *SceneContext) {
		sc.loaded = NewSignal(SignalSceneLoaded)
	}
}

type physicsConfig struct {
	gravity Vec2
	bounds  Rect
}

// SceneContext is the per-scene runtime: its entity root, lifecycle
// signals, input and visibility flags, tweens and physics world. It
// implements Lifecycle and BuildContext. Signals outlive boots; everything
// else is recreated when the scene starts.
type SceneContext struct {
	id       SceneID
	scene    Scene
	director *Director

	ready    *Signal
	teardown *Signal
	loaded   *Signal

	physics *physicsConfig
	world   *ArcadeWorld
	tweens  Tweens

	root    *Entity
	params  Params
	active  bool
	visible bool
	input   bool
	boots   int
}

// SceneID implements BuildContext.
func (sc *SceneContext) SceneID() SceneID { return sc.id }

// Root implements BuildContext. It is nil while the scene is stopped.
func (sc *SceneContext) Root() *Entity { return sc.root }

// Layouts implements BuildContext.
func (sc *SceneContext) Layouts() *LayoutStore { return sc.director.layouts }

// Physics implements BuildContext.
func (sc *SceneContext) Physics() PhysicsWorld {
	if sc.world == nil {
		return nil
	}
	return sc.world
}

// World returns the scene's arcade world, or nil.
func (sc *SceneContext) World() *ArcadeWorld { return sc.world }

// Ready implements Lifecycle.
func (sc *SceneContext) Ready() *Signal { return sc.ready }

// TeardownComplete implements Lifecycle.
func (sc *SceneContext) TeardownComplete() *Signal { return sc.teardown }

// Loaded implements LoadedSignaler. It is nil unless the scene was
// registered WithLoadedSignal.
func (sc *SceneContext) Loaded() *Signal { return sc.loaded }

// Active implements BuildContext.
func (sc *SceneContext) Active() bool { return sc.active }

// Visible reports whether the scene is drawn.
func (sc *SceneContext) Visible() bool { return sc.active && sc.visible }

// InputEnabled reports whether the scene currently receives input: the
// application and the scene must both have input enabled.
func (sc *SceneContext) InputEnabled() bool {
	return sc.active && sc.input && sc.director.input
}

// Params returns the params the scene was started with.
func (sc *SceneContext) Params() Params { return sc.params }

// Boots implements BuildContext. It returns how many times the scene has
// been started.
func (sc *SceneContext) Boots() int { return sc.boots }

// Tweens returns the scene's tween set.
func (sc *SceneContext) Tweens() *Tweens { return &sc.tweens }

// Bus returns the application bus.
func (sc *SceneContext) Bus() *Bus { return sc.director.bus }

// Log returns a logger tagged with the scene ID.
func (sc *SceneContext) Log() *slog.Logger { return sc.director.log.With("scene", sc.id) }

// Build populates the scene from the layout keyed by its ID using the
// director's builder.
func (sc *SceneContext) Build(finalize func(*Built)) {
	sc.director.builder.Build(sc, finalize)
}

// BuildFrom populates the scene from the layout stored under key.
func (sc *SceneContext) BuildFrom(key string, finalize func(*Built)) {
	sc.director.builder.BuildFrom(sc, key, finalize)
}

// MarkReady emits the ready signal for scenes that do not build a layout.
func (sc *SceneContext) MarkReady() { sc.ready.Emit() }

// MarkLoaded emits the loaded signal, if the scene has one.
func (sc *SceneContext) MarkLoaded() {
	if sc.loaded != nil {
		sc.loaded.Emit()
	}
}

type commandKind uint8

const (
	cmdStart commandKind = iota
	cmdStop
)

type command struct {
	kind   commandKind
	id     SceneID
	params Params
}

// Director owns the registered scenes and runs them. Start and Stop are
// queued and applied at the beginning of the next Tick, so lifecycle
// signals always fire on a later tick than the request. Director
// implements SceneHost and TweenCanceler.
type Director struct {
	slots   map[SceneID]*SceneContext
	order   []*SceneContext
	queue   []command
	input   bool
	bus     *Bus
	layouts *LayoutStore
	builder *Builder
	log     *slog.Logger
	ticks   uint64
}

// DirectorOption configures a Director.
type DirectorOption func(*Director)

// WithLayoutLoader sets where layouts are loaded from.
func WithLayoutLoader(l LayoutLoader) DirectorOption {
	return func(d *Director) { d.layouts = NewLayoutStore(l, d.log) }
}

// WithBuilder replaces the default builder.
func WithBuilder(b *Builder) DirectorOption {
	return func(d *Director) { d.builder = b }
}

// WithBus sets the application bus. The default is a fresh Bus.
func WithBus(b *Bus) DirectorOption {
	return func(d *Director) { d.bus = b }
}

// WithDirectorLogger sets the logger. Nil discards.
func WithDirectorLogger(l *slog.Logger) DirectorOption {
	return func(d *Director) { d.log = orDiscard(l) }
}

// NewDirector creates a director with input enabled and no scenes.
func NewDirector(opts ...DirectorOption) *Director {
	d := &Director{
		slots: make(map[SceneID]*SceneContext),
		input: true,
		log:   discardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.bus == nil {
		d.bus = NewBus(d.log)
	}
	if d.layouts == nil {
		d.layouts = NewLayoutStore(nil, d.log)
	}
	if d.builder == nil {
		d.builder = NewBuilder(WithBuilderLogger(d.log))
	}
	return d
}

// Register adds a scene under id. Registering the same id twice panics.
func (d *Director) Register(id SceneID, scene Scene, opts ...SlotOption) *SceneContext {
	if _, dup := d.slots[id]; dup {
		panic(fmt.Sprintf("stage: scene %q registered twice", id))
	}
	sc := &SceneContext{
		id:       id,
		scene:    scene,
		director: d,
		ready:    NewSignal(SignalSceneReady),
		teardown: NewSignal(SignalTeardownComplete),
		visible:  true,
		input:    true,
	}
	for _, opt := range opts {
		opt(sc)
	}
	d.slots[id] = sc
	return sc
}

// Scene returns the context registered under id.
func (d *Director) Scene(id SceneID) (*SceneContext, bool) {
	sc, ok := d.slots[id]
	return sc, ok
}

// Active returns the running scenes in start order (bottom to top).
func (d *Director) Active() []*SceneContext {
	return d.order
}

// Bus returns the application bus.
func (d *Director) Bus() *Bus { return d.bus }

// Layouts returns the shared layout store.
func (d *Director) Layouts() *LayoutStore { return d.layouts }

// Builder returns the builder scenes use.
func (d *Director) Builder() *Builder { return d.builder }

// Ticks returns how many times Tick has run.
func (d *Director) Ticks() uint64 { return d.ticks }

// InputEnabled reports whether application input is enabled.
func (d *Director) InputEnabled() bool { return d.input }

// Lifecycle implements SceneHost.
func (d *Director) Lifecycle(id SceneID) (Lifecycle, bool) {
	sc, ok := d.slots[id]
	if !ok {
		return nil, false
	}
	return sc, true
}

// IsActive implements SceneHost.
func (d *Director) IsActive(id SceneID) bool {
	sc, ok := d.slots[id]
	return ok && sc.active
}

// Start implements SceneHost. Starting a running scene restarts it.
func (d *Director) Start(id SceneID, params Params) {
	d.queue = append(d.queue, command{kind: cmdStart, id: id, params: params})
}

// Stop implements SceneHost.
func (d *Director) Stop(id SceneID) {
	d.queue = append(d.queue, command{kind: cmdStop, id: id})
}

// SetInputEnabled implements SceneHost.
func (d *Director) SetInputEnabled(enabled bool) {
	d.input = enabled
}

// SetSceneInputEnabled implements SceneHost.
func (d *Director) SetSceneInputEnabled(id SceneID, enabled bool) {
	if sc, ok := d.slots[id]; ok {
		sc.input = enabled
	}
}

// SetSceneVisible implements SceneHost.
func (d *Director) SetSceneVisible(id SceneID, visible bool) {
	if sc, ok := d.slots[id]; ok {
		sc.visible = visible
	}
}

// KillAll implements TweenCanceler across every running scene.
func (d *Director) KillAll() int {
	n := 0
	for _, sc := range d.order {
		n += sc.tweens.KillAll()
	}
	return n
}

// Tick applies queued commands, delivers loaded layouts, then advances each
// running scene by dt seconds. Commands queued during the tick run on the
// next one.
func (d *Director) Tick(dt float64) {
	d.ticks++
	var stats tickStats
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}

	cmds := d.queue
	d.queue = nil
	for _, c := range cmds {
		switch c.kind {
		case cmdStart:
			d.start(c.id, c.params)
		case cmdStop:
			d.stop(c.id)
		}
	}
	d.layouts.Update()

	if globalDebug {
		stats.commands = len(cmds)
		stats.commandTime = time.Since(t0)
		t0 = time.Now()
	}

	// Scenes stopped by an update are removed from order; iterate a copy.
	running := append([]*SceneContext(nil), d.order...)
	for _, sc := range running {
		if !sc.active {
			continue
		}
		sc.tweens.Update(float32(dt))
		if sc.world != nil {
			sc.world.Step(dt)
		}
		sc.scene.Update(sc, dt)
	}

	if globalDebug {
		stats.updateTime = time.Since(t0)
		stats.active = len(d.order)
		d.debugLog(stats)
	}
}

func (d *Director) start(id SceneID, params Params) {
	sc, ok := d.slots[id]
	if !ok {
		d.log.Warn("start of unregistered scene ignored", "scene", id)
		return
	}
	if sc.active {
		d.log.Debug("restarting running scene", "scene", id)
		d.stop(id)
	}

	sc.params = params
	if sc.params == nil {
		sc.params = Params{}
	}
	sc.root = NewContainer(string(id))
	sc.root.Interactable = true
	if sc.physics != nil {
		sc.world = NewArcadeWorld(sc.physics.gravity, sc.physics.bounds)
	}
	sc.active = true
	sc.visible = true
	sc.input = true
	sc.boots++
	d.order = append(d.order, sc)

	d.log.Debug("scene starting", "scene", id, "boot", sc.boots)
	sc.scene.Create(sc)
}

func (d *Director) stop(id SceneID) {
	sc, ok := d.slots[id]
	if !ok {
		d.log.Warn("stop of unregistered scene ignored", "scene", id)
		return
	}
	if !sc.active {
		d.log.Debug("stop of inactive scene ignored", "scene", id)
		return
	}

	sc.active = false
	for i, o := range d.order {
		if o == sc {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}

	sc.scene.Shutdown(sc)
	sc.tweens.KillAll()
	if sc.world != nil {
		sc.world.Clear()
		sc.world = nil
	}
	if sc.root != nil {
		sc.root.Dispose()
		sc.root = nil
	}
	sc.params = nil

	d.log.Debug("scene stopped", "scene", id)
	sc.teardown.Emit()
}
