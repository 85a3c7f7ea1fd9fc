package stage

import "testing"

func newPointerDirector(t *testing.T) (*Director, *SceneContext, *SceneContext) {
	t.Helper()
	d := NewDirector()
	below := d.Register("Below", &probeScene{})
	above := d.Register("Above", &probeScene{})
	d.Start("Below", nil)
	d.Start("Above", nil)
	d.Tick(0)
	return d, below, above
}

func addButton(sc *SceneContext, name string) *Entity {
	e := NewRect(name, 100, 100, ColorWhite)
	e.Interactable = true
	sc.Root().AddChild(e)
	return e
}

func TestPointerClicksTopmostScene(t *testing.T) {
	d, below, above := newPointerDirector(t)
	r := NewPointerRouter(d)
	belowClicks, aboveClicks := 0, 0
	addButton(below, "b").OnClick = func(*Entity) { belowClicks++ }
	addButton(above, "a").OnClick = func(*Entity) { aboveClicks++ }

	r.Process(50, 50, true)
	r.Process(50, 50, false)
	if aboveClicks != 1 || belowClicks != 0 {
		t.Errorf("above=%d below=%d", aboveClicks, belowClicks)
	}

	// With the top scene's input blocked, the scene below receives input.
	d.SetSceneInputEnabled("Above", false)
	r.Process(50, 50, true)
	r.Process(50, 50, false)
	if belowClicks != 1 {
		t.Errorf("below=%d after blocking above", belowClicks)
	}

	d.SetInputEnabled(false)
	if r.Target() != nil {
		t.Error("no target while application input is disabled")
	}
}

func TestPointerClickRequiresReleaseOverEntity(t *testing.T) {
	d, _, above := newPointerDirector(t)
	r := NewPointerRouter(d)
	clicks := 0
	addButton(above, "a").OnClick = func(*Entity) { clicks++ }

	r.Process(50, 50, true)
	r.Process(52, 50, true) // inside the dead zone
	r.Process(300, 300, false)
	if clicks != 0 {
		t.Error("release outside the entity should not click")
	}
}

func TestPointerDrag(t *testing.T) {
	d, _, above := newPointerDirector(t)
	r := NewPointerRouter(d)
	e := addButton(above, "a")
	e.Draggable = true
	e.X, e.Y = 10, 10
	ends, clicks := 0, 0
	e.OnDragEnd = func(*Entity) { ends++ }
	e.OnClick = func(*Entity) { clicks++ }

	r.Process(20, 20, true) // grab 10px inside
	r.Process(60, 80, true)
	if !r.Dragging() {
		t.Fatal("should be dragging past the dead zone")
	}
	if e.X != 50 || e.Y != 70 {
		t.Errorf("pos = (%v, %v), want (50, 70)", e.X, e.Y)
	}
	r.Process(60, 80, false)
	if ends != 1 || clicks != 0 || r.Dragging() {
		t.Errorf("ends=%d clicks=%d dragging=%v", ends, clicks, r.Dragging())
	}
}

func TestPointerIgnoresHiddenEntities(t *testing.T) {
	d, _, above := newPointerDirector(t)
	r := NewPointerRouter(d)
	e := addButton(above, "a")
	e.Visible = false
	if r.HitTest(50, 50) != nil {
		t.Error("hidden entity was hit")
	}
}
