package stage

import "math"

const defaultDragDeadZone = 4.0 // pixels

// PointerRouter turns raw pointer samples into click and drag callbacks on
// entities. Only the topmost scene that currently accepts input is hit
// tested, so a blocked scene under an overlay never sees clicks and nothing
// reaches any scene while application input is disabled.
type PointerRouter struct {
	director *Director

	// DragDeadZone is the distance a press must travel before it becomes a
	// drag.
	DragDeadZone float64

	down     bool
	dragging bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	grabX    float64
	grabY    float64
	hit      *Entity
}

// NewPointerRouter creates a router over d's scenes.
func NewPointerRouter(d *Director) *PointerRouter {
	return &PointerRouter{director: d, DragDeadZone: defaultDragDeadZone}
}

// Target returns the scene that receives pointer input, or nil.
func (r *PointerRouter) Target() *SceneContext {
	if !r.director.input {
		return nil
	}
	order := r.director.order
	for i := len(order) - 1; i >= 0; i-- {
		sc := order[i]
		if sc.Visible() && sc.InputEnabled() {
			return sc
		}
	}
	return nil
}

// HitTest returns the topmost interactable entity under the scene-space
// point in the input target scene.
func (r *PointerRouter) HitTest(x, y float64) *Entity {
	sc := r.Target()
	if sc == nil || sc.root == nil {
		return nil
	}
	return hitTopmost(sc.root, x, y)
}

// hitTopmost searches children last-to-first so later (drawn on top)
// entities win.
func hitTopmost(e *Entity, x, y float64) *Entity {
	if !e.Visible || e.disposed {
		return nil
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		if hit := hitTopmost(e.children[i], x, y); hit != nil {
			return hit
		}
	}
	if (e.Interactable || e.Draggable) && e.HitTest(x, y) {
		return e
	}
	return nil
}

// Process feeds one pointer sample. Call it once per tick.
func (r *PointerRouter) Process(x, y float64, pressed bool) {
	if r.hit != nil && r.hit.disposed {
		r.reset()
	}

	switch {
	case pressed && !r.down:
		r.down = true
		r.dragging = false
		r.startX, r.startY = x, y
		r.lastX, r.lastY = x, y
		r.hit = r.HitTest(x, y)
		if r.hit != nil {
			wp := r.hit.WorldPosition()
			r.grabX, r.grabY = x-wp.X, y-wp.Y
		}

	case pressed && r.down:
		if r.hit == nil || (x == r.lastX && y == r.lastY) {
			break
		}
		if !r.dragging {
			dx, dy := x-r.startX, y-r.startY
			if math.Sqrt(dx*dx+dy*dy) > r.DragDeadZone {
				r.dragging = true
			}
		}
		if r.dragging {
			r.drag(x, y)
		}
		r.lastX, r.lastY = x, y

	case !pressed && r.down:
		if r.hit != nil {
			if r.dragging {
				if r.hit.OnDragEnd != nil {
					r.hit.OnDragEnd(r.hit)
				}
			} else if r.HitTest(x, y) == r.hit && r.hit.OnClick != nil {
				r.hit.OnClick(r.hit)
			}
		}
		r.reset()
	}
}

// drag moves draggable entities so the grab point follows the pointer,
// then notifies OnDrag with the entity's new local position.
func (r *PointerRouter) drag(x, y float64) {
	e := r.hit
	if e.Draggable {
		wx, wy := x-r.grabX, y-r.grabY
		if e.Parent != nil {
			wx, wy = e.Parent.WorldToLocal(wx, wy)
		}
		e.X, e.Y = wx, wy
	}
	if e.OnDrag != nil {
		e.OnDrag(e, e.X, e.Y)
	}
}

func (r *PointerRouter) reset() {
	r.down = false
	r.dragging = false
	r.hit = nil
}

// Dragging reports whether a drag is in progress.
func (r *PointerRouter) Dragging() bool {
	return r.dragging
}
