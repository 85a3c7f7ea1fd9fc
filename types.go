package stage

import "math"

// SceneID names a top-level scene managed by a SceneHost. Layout documents
// are keyed by the same identifier.
type SceneID string

// Params is the opaque payload forwarded to a scene's initializer.
// The orchestration layer never interprets it.
type Params map[string]any

// Clone returns a shallow copy of p. A nil receiver yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and velocities.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are not considered intersecting,
// so resting bodies do not collide with the surface below them every frame.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// EntityKind distinguishes how the renderer draws an Entity.
type EntityKind uint8

const (
	KindContainer EntityKind = iota // group node with no visual output
	KindImage                       // renders a texture looked up by key
	KindRect                        // solid color rectangle of Width x Height
	KindText                        // renders Text with the debug font
)

func (k EntityKind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindImage:
		return "image"
	case KindRect:
		return "rect"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

// round2 rounds v to two decimal places.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
