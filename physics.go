package stage

import (
	"fmt"
	"math"
)

// PhysicsWorld attaches bodies to entities. Attach either returns a body
// configured from every field of spec, or an error and no body.
type PhysicsWorld interface {
	Attach(e *Entity, spec PhysicsSpec) (*Body, error)
}

// Touching records which sides of a body were blocked during the last step.
type Touching struct {
	Up, Down, Left, Right bool
}

// Body is an axis-aligned arcade body. Bounds are expressed in the owning
// entity's parent space: the entity position plus the offset.
type Body struct {
	Entity             *Entity
	Static             bool
	Width, Height      float64
	OffsetX, OffsetY   float64
	AllowGravity       bool
	Bounce             Vec2
	CollideWorldBounds bool

	Velocity Vec2
	Touching Touching
}

// Bounds returns the body's rectangle.
func (b *Body) Bounds() Rect {
	return Rect{
		X:      b.Entity.X + b.OffsetX,
		Y:      b.Entity.Y + b.OffsetY,
		Width:  b.Width,
		Height: b.Height,
	}
}

// Spec returns the PhysicsSpec the body was built from.
func (b *Body) Spec() PhysicsSpec {
	return PhysicsSpec{
		IsStatic:           b.Static,
		Width:              b.Width,
		Height:             b.Height,
		OffsetX:            b.OffsetX,
		OffsetY:            b.OffsetY,
		AllowGravity:       b.AllowGravity,
		BounceX:            b.Bounce.X,
		BounceY:            b.Bounce.Y,
		CollideWorldBounds: b.CollideWorldBounds,
	}
}

type collider struct {
	a      *Entity
	others []*Entity
}

// ArcadeWorld is a minimal arcade physics simulation: gravity, velocity
// integration, world bounds, and dynamic-versus-static separation for
// registered collider pairs.
type ArcadeWorld struct {
	Gravity Vec2
	Bounds  Rect

	bodies    []*Body
	colliders []collider
}

// NewArcadeWorld creates a world with the given gravity and bounds.
func NewArcadeWorld(gravity Vec2, bounds Rect) *ArcadeWorld {
	return &ArcadeWorld{Gravity: gravity, Bounds: bounds}
}

// Attach implements PhysicsWorld.
func (w *ArcadeWorld) Attach(e *Entity, spec PhysicsSpec) (*Body, error) {
	if e == nil || e.IsDisposed() {
		return nil, fmt.Errorf("%w: no live entity", ErrInvalidBody)
	}
	if e.Body != nil {
		return nil, fmt.Errorf("%w: %q already has a body", ErrInvalidBody, e.Name)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	b := &Body{
		Entity:             e,
		Static:             spec.IsStatic,
		Width:              spec.Width,
		Height:             spec.Height,
		OffsetX:            spec.OffsetX,
		OffsetY:            spec.OffsetY,
		AllowGravity:       spec.AllowGravity,
		Bounce:             Vec2{X: spec.BounceX, Y: spec.BounceY},
		CollideWorldBounds: spec.CollideWorldBounds,
	}
	e.Body = b
	w.bodies = append(w.bodies, b)
	return b, nil
}

// Collide registers a collider between a and each of others. Only pairs
// where both entities have bodies are resolved.
func (w *ArcadeWorld) Collide(a *Entity, others []*Entity) {
	w.colliders = append(w.colliders, collider{a: a, others: others})
}

// Bodies returns the number of live bodies.
func (w *ArcadeWorld) Bodies() int {
	n := 0
	for _, b := range w.bodies {
		if !b.Entity.IsDisposed() {
			n++
		}
	}
	return n
}

// Colliders returns the number of registered colliders.
func (w *ArcadeWorld) Colliders() int {
	return len(w.colliders)
}

// Clear removes every body and collider. Called when a scene tears down.
func (w *ArcadeWorld) Clear() {
	for _, b := range w.bodies {
		if b.Entity.Body == b {
			b.Entity.Body = nil
		}
	}
	w.bodies = nil
	w.colliders = nil
}

// Step advances the simulation by dt seconds.
func (w *ArcadeWorld) Step(dt float64) {
	w.prune()
	for _, b := range w.bodies {
		b.Touching = Touching{}
		if b.Static {
			continue
		}
		if b.AllowGravity {
			b.Velocity.X += w.Gravity.X * dt
			b.Velocity.Y += w.Gravity.Y * dt
		}
		b.Entity.X += b.Velocity.X * dt
		b.Entity.Y += b.Velocity.Y * dt
		if b.CollideWorldBounds {
			w.clampToBounds(b)
		}
	}
	for _, c := range w.colliders {
		if c.a.IsDisposed() || c.a.Body == nil {
			continue
		}
		for _, o := range c.others {
			if o.IsDisposed() || o.Body == nil || o == c.a {
				continue
			}
			separate(c.a.Body, o.Body)
		}
	}
}

// prune drops bodies whose entity was disposed and colliders whose subject
// was disposed.
func (w *ArcadeWorld) prune() {
	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.Entity.IsDisposed() {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = kept

	keptC := w.colliders[:0]
	for _, c := range w.colliders {
		if !c.a.IsDisposed() {
			keptC = append(keptC, c)
		}
	}
	w.colliders = keptC
}

func (w *ArcadeWorld) clampToBounds(b *Body) {
	if w.Bounds.Width <= 0 || w.Bounds.Height <= 0 {
		return
	}
	r := b.Bounds()
	if r.X < w.Bounds.X {
		b.Entity.X += w.Bounds.X - r.X
		b.Velocity.X = -b.Velocity.X * b.Bounce.X
		b.Touching.Left = true
	} else if right := w.Bounds.X + w.Bounds.Width; r.X+r.Width > right {
		b.Entity.X -= r.X + r.Width - right
		b.Velocity.X = -b.Velocity.X * b.Bounce.X
		b.Touching.Right = true
	}
	if r.Y < w.Bounds.Y {
		b.Entity.Y += w.Bounds.Y - r.Y
		b.Velocity.Y = -b.Velocity.Y * b.Bounce.Y
		b.Touching.Up = true
	} else if bottom := w.Bounds.Y + w.Bounds.Height; r.Y+r.Height > bottom {
		b.Entity.Y -= r.Y + r.Height - bottom
		b.Velocity.Y = -b.Velocity.Y * b.Bounce.Y
		b.Touching.Down = true
	}
}

// separate pushes dynamic bodies out of each other along the axis of least
// penetration. Two static bodies never move.
func separate(a, b *Body) {
	if a.Static && b.Static {
		return
	}
	ra, rb := a.Bounds(), b.Bounds()
	if !ra.Intersects(rb) {
		return
	}
	overlapX := math.Min(ra.X+ra.Width, rb.X+rb.Width) - math.Max(ra.X, rb.X)
	overlapY := math.Min(ra.Y+ra.Height, rb.Y+rb.Height) - math.Max(ra.Y, rb.Y)

	// Move a unless it is static, in which case move b the other way.
	mover, other := a, rb
	if a.Static {
		mover, other = b, ra
	}
	mr := mover.Bounds()

	if overlapY <= overlapX {
		if mr.Y+mr.Height/2 < other.Y+other.Height/2 {
			mover.Entity.Y -= overlapY
			mover.Touching.Down = true
		} else {
			mover.Entity.Y += overlapY
			mover.Touching.Up = true
		}
		mover.Velocity.Y = -mover.Velocity.Y * mover.Bounce.Y
	} else {
		if mr.X+mr.Width/2 < other.X+other.Width/2 {
			mover.Entity.X -= overlapX
			mover.Touching.Right = true
		} else {
			mover.Entity.X += overlapX
			mover.Touching.Left = true
		}
		mover.Velocity.X = -mover.Velocity.X * mover.Bounce.X
	}
}
