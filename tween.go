package stage

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on an Entity simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAlpha, TweenAngle) and either call Update(dt) each frame or hand it
// to a Tweens set. If the target entity is disposed, the group stops
// immediately without running OnComplete.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Entity
	Done   bool

	// OnComplete runs once when every tween reaches its end value.
	OnComplete func()
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target entity has been disposed, Done is set to true and
// no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.Done && g.OnComplete != nil {
		fn := g.OnComplete
		g.OnComplete = nil
		fn()
	}
}

// Target returns the entity being animated.
func (g *TweenGroup) Target() *Entity {
	return g.target
}

// TweenPosition creates a TweenGroup that animates e.X and e.Y to the
// given target coordinates over the specified duration using the easing
// function.
func TweenPosition(e *Entity, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.Y), float32(toY), duration, fn)
	g.fields[0] = &e.X
	g.fields[1] = &e.Y
	return g
}

// TweenScale creates a TweenGroup that animates e.ScaleX and e.ScaleY.
func TweenScale(e *Entity, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(e.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(e.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &e.ScaleX
	g.fields[1] = &e.ScaleY
	return g
}

// TweenAlpha creates a TweenGroup that animates e.Alpha.
func TweenAlpha(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.Alpha), float32(to), duration, fn)
	g.fields[0] = &e.Alpha
	return g
}

// TweenAngle creates a TweenGroup that animates e.Angle (degrees).
func TweenAngle(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.Angle), float32(to), duration, fn)
	g.fields[0] = &e.Angle
	return g
}

// Tweens is a set of running tween groups advanced together. It implements
// TweenCanceler so the coordinator can stop every animation before a
// transition.
type Tweens struct {
	groups []*TweenGroup
}

// Add starts tracking g and returns it.
func (t *Tweens) Add(g *TweenGroup) *TweenGroup {
	t.groups = append(t.groups, g)
	return g
}

// Update advances every group by dt seconds and drops finished groups.
// Groups added by OnComplete callbacks start on the next Update.
func (t *Tweens) Update(dt float32) {
	n := len(t.groups)
	for i := 0; i < n; i++ {
		t.groups[i].Update(dt)
	}
	kept := t.groups[:0]
	for _, g := range t.groups {
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(t.groups); i++ {
		t.groups[i] = nil
	}
	t.groups = kept
}

// Len returns the number of running groups.
func (t *Tweens) Len() int {
	return len(t.groups)
}

// KillAll stops every running group without completing it: no field is
// written and no OnComplete runs. Returns the number of groups stopped.
func (t *Tweens) KillAll() int {
	n := len(t.groups)
	for _, g := range t.groups {
		g.Done = true
		g.OnComplete = nil
	}
	t.groups = nil
	return n
}

// KillTarget stops the groups animating e.
func (t *Tweens) KillTarget(e *Entity) int {
	killed := 0
	kept := t.groups[:0]
	for _, g := range t.groups {
		if g.target == e {
			g.Done = true
			g.OnComplete = nil
			killed++
			continue
		}
		kept = append(kept, g)
	}
	t.groups = kept
	return killed
}
