package stage

import "strings"

// --- ID counter ---

// entityIDCounter is a plain counter; stage is single-threaded.
var entityIDCounter uint32

func nextEntityID() uint32 {
	entityIDCounter++
	return entityIDCounter
}

// Entity is a renderable or interactive object placed in a scene's display
// graph. A single flat struct is used for all kinds; the renderer switches
// on Kind.
//
// Entities are owned by the scene that created them. References held
// outside the scene graph must be dropped when the scene tears down.
type Entity struct {
	// Identity
	ID   uint32
	Name string
	Kind EntityKind

	// Hierarchy
	Parent   *Entity
	children []*Entity

	// Transform (local). Angle is in degrees.
	X, Y   float64
	ScaleX float64
	ScaleY float64
	Angle  float64

	// Visibility
	Alpha   float64
	Visible bool

	// Appearance
	Texture string  // texture key (KindImage)
	Text    string  // content (KindText)
	Width   float64 // unscaled size (KindRect, and hit area for the others)
	Height  float64
	Color   Color

	// Interaction
	Interactable bool
	Draggable    bool

	// Physics body, attached by a PhysicsWorld. Nil when the entity has none.
	Body *Body

	// Metadata
	UserData any
	data     map[string]any

	// Per-entity callbacks (nil by default)
	OnClick   func(e *Entity)
	OnDrag    func(e *Entity, x, y float64)
	OnDragEnd func(e *Entity)
	OnDispose func(e *Entity)

	// Internal
	editable bool
	disposed bool
}

// entityDefaults sets the common default field values shared by all constructors.
func entityDefaults(e *Entity) {
	e.ID = nextEntityID()
	e.ScaleX = 1
	e.ScaleY = 1
	e.Alpha = 1
	e.Color = ColorWhite
	e.Visible = true
}

// NewContainer creates a container entity with no visual representation.
func NewContainer(name string) *Entity {
	e := &Entity{Name: name, Kind: KindContainer}
	entityDefaults(e)
	return e
}

// NewImage creates an entity that renders the texture registered under key.
func NewImage(name, texture string) *Entity {
	e := &Entity{Name: name, Kind: KindImage, Texture: texture}
	entityDefaults(e)
	return e
}

// NewRect creates a solid color rectangle of the given size.
func NewRect(name string, w, h float64, c Color) *Entity {
	e := &Entity{Name: name, Kind: KindRect, Width: w, Height: h}
	entityDefaults(e)
	e.Color = c
	return e
}

// NewText creates a text entity with the given content.
func NewText(name, content string) *Entity {
	e := &Entity{Name: name, Kind: KindText, Text: content}
	entityDefaults(e)
	return e
}

// --- Tree manipulation ---

// AddChild appends child to this entity's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this entity (cycle).
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, e) {
		panic("stage: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this entity.
// Panics if child.Parent != e.
func (e *Entity) RemoveChild(child *Entity) {
	if child.Parent != e {
		panic("stage: child's parent is not this entity")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this entity from its parent.
// No-op if this entity has no parent.
func (e *Entity) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity {
	return e.children
}

// NumChildren returns the number of children.
func (e *Entity) NumChildren() int {
	return len(e.children)
}

// Find returns the first descendant (depth-first, pre-order) with the given
// name, or nil.
func (e *Entity) Find(name string) *Entity {
	var found *Entity
	e.Walk(func(n *Entity) bool {
		if n != e && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindPrefix returns all descendants whose name starts with prefix, in
// pre-order.
func (e *Entity) FindPrefix(prefix string) []*Entity {
	var out []*Entity
	e.Walk(func(n *Entity) bool {
		if n != e && strings.HasPrefix(n.Name, prefix) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// stops the walk.
func (e *Entity) Walk(fn func(*Entity) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// SetData stores a named value on the entity.
func (e *Entity) SetData(key string, v any) {
	if e.data == nil {
		e.data = make(map[string]any)
	}
	e.data[key] = v
}

// Data returns the value stored under key, or nil.
func (e *Entity) Data(key string) any {
	return e.data[key]
}

// IsEditable reports whether the entity has been registered with an inspector.
func (e *Entity) IsEditable() bool {
	return e.editable
}

// WorldPosition returns the entity's origin in scene coordinates, applying
// each ancestor's translation, rotation and scale.
func (e *Entity) WorldPosition() Vec2 {
	m := e.WorldTransform()
	return Vec2{X: m[4], Y: m[5]}
}

// WorldTransform returns the affine matrix [a b c d tx ty] that maps local
// coordinates of e into scene coordinates.
func (e *Entity) WorldTransform() [6]float64 {
	local := localTransform(e)
	if e.Parent == nil {
		return local
	}
	return multiplyAffine(e.Parent.WorldTransform(), local)
}

// --- Disposal ---

// Dispose removes this entity from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (e *Entity) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Entity) dispose() {
	if e.OnDispose != nil {
		e.OnDispose(e)
	}
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.Parent = nil
	e.Body = nil
	e.UserData = nil
	e.data = nil
	e.OnClick = nil
	e.OnDrag = nil
	e.OnDragEnd = nil
	e.OnDispose = nil
}

// IsDisposed returns true if this entity has been disposed.
func (e *Entity) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Entity) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Entity) removeChildByPtr(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}
