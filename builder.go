package stage

import (
	"errors"
	"log/slog"
	"strings"
)

// BuildContext is the live scene a Builder populates.
type BuildContext interface {
	SceneID() SceneID
	Root() *Entity
	Layouts() *LayoutStore
	// Physics returns the world bodies attach to, or nil when the scene
	// has no physics.
	Physics() PhysicsWorld
	Ready() *Signal
	// Active reports whether the scene is still running. Deliveries for a
	// scene that stopped while its layout loaded are discarded.
	Active() bool
	// Boots counts the scene's starts. A delivery requested during one boot
	// is discarded once the scene has been restarted.
	Boots() int
}

// Built holds transient references to the entities of one build. It must
// not be retained past the scene's teardown.
type Built struct {
	Scene    SceneID
	Root     *Entity
	Entities []*Entity
	byName   map[string]*Entity
}

// Get returns the entity built for the named object, or nil.
func (b *Built) Get(name string) *Entity {
	return b.byName[name]
}

// WithPrefix returns the built entities whose names start with prefix, in
// creation order.
func (b *Built) WithPrefix(prefix string) []*Entity {
	var out []*Entity
	for _, e := range b.Entities {
		if strings.HasPrefix(e.Name, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entities built.
func (b *Built) Len() int {
	return len(b.Entities)
}

// Builder materializes layout descriptors into a scene's entity graph and
// emits the scene's ready signal once the graph is complete.
type Builder struct {
	widgets   *WidgetRegistry
	editables *EditableRegistry
	log       *slog.Logger
	onApply   func(e *Entity, spec ObjectSpec)
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWidgets sets the widget registry. The default is DefaultWidgets().
func WithWidgets(r *WidgetRegistry) BuilderOption {
	return func(b *Builder) { b.widgets = r }
}

// WithEditables sets the registry built entities are registered with.
func WithEditables(r *EditableRegistry) BuilderOption {
	return func(b *Builder) { b.editables = r }
}

// WithBuilderLogger sets the logger. Nil discards.
func WithBuilderLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.log = orDiscard(l) }
}

// WithApplyObserver installs fn to run just before properties are applied
// to each entity.
func WithApplyObserver(fn func(e *Entity, spec ObjectSpec)) BuilderOption {
	return func(b *Builder) { b.onApply = fn }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		widgets:   DefaultWidgets(),
		editables: NewEditableRegistry(nil),
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Widgets returns the builder's widget registry.
func (b *Builder) Widgets() *WidgetRegistry {
	return b.widgets
}

// Build populates ctx from the layout keyed by the scene's ID. See BuildFrom.
func (b *Builder) Build(ctx BuildContext, finalize func(*Built)) {
	b.BuildFrom(ctx, string(ctx.SceneID()), finalize)
}

// BuildFrom populates ctx from the layout stored under key. If the layout
// is resident the whole build, finalize, and the ready signal happen before
// BuildFrom returns; otherwise they happen when the layout store delivers
// it. finalize (which may be nil) runs after every entity is fully formed
// and before ready is emitted.
func (b *Builder) BuildFrom(ctx BuildContext, key string, finalize func(*Built)) {
	boot := ctx.Boots()
	ctx.Layouts().Fetch(key, func(d *LayoutDescriptor, err error) {
		if !ctx.Active() {
			b.log.Debug("discarding layout for inactive scene", "scene", ctx.SceneID(), "key", key)
			return
		}
		if ctx.Boots() != boot {
			b.log.Debug("discarding layout for an earlier boot", "scene", ctx.SceneID(), "key", key, "boot", boot)
			return
		}
		switch {
		case errors.Is(err, ErrLayoutNotFound):
			b.log.Debug("no layout, building empty scene", "scene", ctx.SceneID(), "key", key)
			d = nil
		case err != nil:
			b.log.Warn("layout unusable, building empty scene", "scene", ctx.SceneID(), "key", key, "err", err)
			d = nil
		}
		b.BuildDescriptor(ctx, d, finalize)
	})
}

// BuildDescriptor runs the build synchronously from d. A nil or malformed
// descriptor yields an empty scene.
func (b *Builder) BuildDescriptor(ctx BuildContext, d *LayoutDescriptor, finalize func(*Built)) *Built {
	scene := ctx.SceneID()
	built := &Built{Scene: scene, Root: ctx.Root(), byName: make(map[string]*Entity)}

	if d == nil || d.Objects == nil {
		b.log.Debug("layout empty or malformed", "scene", scene)
	} else {
		b.construct(ctx, d, built)
	}

	if finalize != nil {
		finalize(built)
	}
	ctx.Ready().Emit()
	b.log.Debug("scene ready", "scene", scene, "entities", built.Len())
	return built
}

// construct runs the two build phases. Phase A creates every entity and
// places it in the graph; phase B applies properties. No property is
// applied before all entities exist, since widgets may establish
// parent/child relationships while they are constructed.
func (b *Builder) construct(ctx BuildContext, d *LayoutDescriptor, built *Built) {
	scene := ctx.SceneID()
	root := ctx.Root()
	specs := make([]ObjectSpec, 0, len(d.Objects))

	wctx := WidgetContext{Scene: scene, Lookup: built.Get}
	for _, spec := range d.Objects {
		if spec.Name == "" {
			b.log.Warn("skipping unnamed object", "scene", scene, "type", spec.Type)
			continue
		}
		if _, dup := built.byName[spec.Name]; dup {
			b.log.Warn("skipping duplicate object name", "scene", scene, "name", spec.Name)
			continue
		}
		e, err := b.widgets.Lookup(spec.Type)(wctx, spec)
		if err != nil || e == nil {
			b.log.Warn("widget creation failed", "scene", scene, "name", spec.Name, "type", spec.Type, "err", err)
			continue
		}
		e.Name = spec.Name
		if spec.Type != "" {
			e.SetData(dataWidgetType, spec.Type)
		}
		if len(spec.Params) > 0 {
			e.SetData(dataWidgetParams, spec.Params)
		}
		if e.Parent == nil {
			parent := root
			if pname := spec.Parent(); pname != "" {
				if p := built.Get(pname); p != nil {
					parent = p
				} else {
					b.log.Warn("parent not built yet, adding to root", "scene", scene, "name", spec.Name, "parent", pname)
				}
			}
			parent.AddChild(e)
		}
		built.Entities = append(built.Entities, e)
		built.byName[spec.Name] = e
		specs = append(specs, spec)
	}

	physics := ctx.Physics()
	for i, e := range built.Entities {
		spec := specs[i]
		if b.onApply != nil {
			b.onApply(e, spec)
		}
		applyTransform(e, spec)
		if spec.Physics != nil {
			b.attachBody(physics, e, scene, *spec.Physics)
		}
		b.editables.Register(e, scene)
	}
}

// Entity data keys recording how an entity was declared, so exported
// layouts rebuild the same widgets.
const (
	dataWidgetType   = "stage.widget.type"
	dataWidgetParams = "stage.widget.params"
)

func applyTransform(e *Entity, spec ObjectSpec) {
	e.X, e.Y = spec.X, spec.Y
	e.ScaleX, e.ScaleY = spec.ScaleX, spec.ScaleY
	e.Angle = spec.Angle
	e.Alpha = spec.Alpha
	e.Visible = spec.Visible
}

// attachBody attaches a body or leaves the entity without one; a failure
// never aborts the build.
func (b *Builder) attachBody(world PhysicsWorld, e *Entity, scene SceneID, spec PhysicsSpec) {
	if world == nil {
		b.log.Warn("scene has no physics world, entity left without body", "scene", scene, "name", e.Name)
		return
	}
	if _, err := world.Attach(e, spec); err != nil {
		b.log.Warn("physics attach failed, entity left without body", "scene", scene, "name", e.Name, "err", err)
	}
}
