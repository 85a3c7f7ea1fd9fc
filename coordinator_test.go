package stage

import (
	"fmt"
	"testing"
)

type fakeLifecycle struct {
	ready    *Signal
	teardown *Signal
	loaded   *Signal
}

func (l *fakeLifecycle) Ready() *Signal            { return l.ready }
func (l *fakeLifecycle) TeardownComplete() *Signal { return l.teardown }

type loadedLifecycle struct{ *fakeLifecycle }

func (l loadedLifecycle) Loaded() *Signal { return l.loaded }

// fakeHost records every call and completes Start and Stop only when
// settle runs, like an engine finishing work on a later tick.
type fakeHost struct {
	scenes     map[SceneID]Lifecycle
	active     map[SceneID]bool
	sceneInput map[SceneID]bool
	visible    map[SceneID]bool
	params     map[SceneID]Params
	input      bool
	calls      []string
	pending    []func()
}

func newFakeHost(ids ...SceneID) *fakeHost {
	h := &fakeHost{
		scenes:     make(map[SceneID]Lifecycle),
		active:     make(map[SceneID]bool),
		sceneInput: make(map[SceneID]bool),
		visible:    make(map[SceneID]bool),
		params:     make(map[SceneID]Params),
		input:      true,
	}
	for _, id := range ids {
		h.scenes[id] = &fakeLifecycle{
			ready:    NewSignal(SignalSceneReady),
			teardown: NewSignal(SignalTeardownComplete),
			loaded:   NewSignal(SignalSceneLoaded),
		}
	}
	return h
}

func (h *fakeHost) lc(id SceneID) *fakeLifecycle {
	switch l := h.scenes[id].(type) {
	case *fakeLifecycle:
		return l
	case loadedLifecycle:
		return l.fakeLifecycle
	}
	return nil
}

func (h *fakeHost) Lifecycle(id SceneID) (Lifecycle, bool) {
	l, ok := h.scenes[id]
	return l, ok
}

func (h *fakeHost) IsActive(id SceneID) bool { return h.active[id] }

func (h *fakeHost) Start(id SceneID, params Params) {
	h.calls = append(h.calls, "start "+string(id))
	h.pending = append(h.pending, func() {
		h.active[id] = true
		h.sceneInput[id] = true
		h.visible[id] = true
		h.params[id] = params
		h.calls = append(h.calls, "ready "+string(id))
		h.lc(id).ready.Emit()
	})
}

func (h *fakeHost) Stop(id SceneID) {
	h.calls = append(h.calls, "stop "+string(id))
	h.pending = append(h.pending, func() {
		h.active[id] = false
		h.calls = append(h.calls, "teardown "+string(id))
		h.lc(id).teardown.Emit()
	})
}

func (h *fakeHost) SetInputEnabled(enabled bool) {
	h.input = enabled
	h.calls = append(h.calls, fmt.Sprintf("input %v", enabled))
}

func (h *fakeHost) SetSceneInputEnabled(id SceneID, enabled bool) {
	h.sceneInput[id] = enabled
	h.calls = append(h.calls, fmt.Sprintf("input %s %v", id, enabled))
}

func (h *fakeHost) SetSceneVisible(id SceneID, visible bool) {
	h.visible[id] = visible
}

// settle runs deferred completions until none are left.
func (h *fakeHost) settle() {
	for len(h.pending) > 0 {
		next := h.pending[0]
		h.pending = h.pending[1:]
		next()
	}
}

type countingCanceler struct{ calls int }

func (c *countingCanceler) KillAll() int {
	c.calls++
	return 0
}

func newTestCoordinator(h *fakeHost, opts ...CoordinatorOption) (*Coordinator, *Bus) {
	bus := NewBus(nil)
	c := NewCoordinator(h, bus, CoordinatorConfig{
		Home:    "Home",
		HUD:     "HUD",
		Overlay: "Overlay",
		Shared:  Params{"charaDefs": "defs"},
	}, opts...)
	c.Listen()
	return c, bus
}

func indexOf(calls []string, s string) int {
	for i, c := range calls {
		if c == s {
			return i
		}
	}
	return -1
}

func countOf(calls []string, s string) int {
	n := 0
	for _, c := range calls {
		if c == s {
			n++
		}
	}
	return n
}

func TestCoordinatorStart(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay", "Jump")
	c, _ := newTestCoordinator(h)

	if !c.Start("Home", Params{"k": 1}) {
		t.Fatal("Start returned false")
	}
	if !c.Busy() || h.input {
		t.Error("should be busy with input disabled until ready")
	}
	h.settle()

	if c.Busy() || !h.input {
		t.Error("should be idle with input enabled after ready")
	}
	if !h.active["HUD"] || !h.active["Home"] {
		t.Errorf("active = %v", h.active)
	}
	p := h.params["Home"]
	if p["charaDefs"] != "defs" || p["k"] != 1 {
		t.Errorf("home params = %v", p)
	}
}

func TestCoordinatorTeardownBeforeBoot(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay", "Jump")
	c, bus := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()
	h.calls = nil

	var completed []SceneID
	Handle(bus, TopicTransitionComplete, func(id SceneID) { completed = append(completed, id) })

	ok := c.RequestTransition(TransitionRequest{From: "Home", To: "Jump", Params: Params{"stage": 1}})
	if !ok {
		t.Fatal("transition dropped")
	}
	if got, want := c.State(), (Busy{Pending: "Jump"}); got != want {
		t.Errorf("State = %#v, want %#v", got, want)
	}
	if indexOf(h.calls, "start Jump") != -1 {
		t.Fatal("destination started before origin tore down")
	}
	h.settle()

	teardown := indexOf(h.calls, "teardown Home")
	start := indexOf(h.calls, "start Jump")
	if teardown == -1 || start == -1 || teardown > start {
		t.Errorf("calls = %v, want teardown Home before start Jump", h.calls)
	}
	if h.calls[0] != "input false" || h.calls[len(h.calls)-1] != "input true" {
		t.Errorf("input not held off for the whole transition: %v", h.calls)
	}
	if n := countOf(h.calls, "input false"); n != 1 {
		t.Errorf("input false issued %d times, want 1", n)
	}
	if n := countOf(h.calls, "input true"); n != 1 {
		t.Errorf("input true issued %d times, want 1", n)
	}
	if h.params["Jump"]["stage"] != 1 || len(h.params["Jump"]) != 1 {
		t.Errorf("params not forwarded verbatim: %v", h.params["Jump"])
	}
	if len(completed) != 1 || completed[0] != "Jump" {
		t.Errorf("completed = %v", completed)
	}
	if h.visible["HUD"] {
		t.Error("HUD should be hidden while a non-home scene is current")
	}
}

func TestCoordinatorDropsWhileBusy(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay", "Jump", "Other")
	c, bus := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()

	c.RequestTransition(TransitionRequest{From: "Home", To: "Jump"})
	otherReady := h.lc("Other").ready.Len()
	homeReady := h.lc("Home").ready.Len()
	homeTeardown := h.lc("Home").teardown.Len()
	bus.Publish(TopicRequestSceneTransition, TransitionRequest{From: "Home", To: "Other"})
	if c.ReturnHome(ReturnRequest{From: "Jump"}) {
		t.Error("return home should be dropped while busy")
	}
	if n := h.lc("Other").ready.Len(); n != otherReady {
		t.Errorf("dropped request subscribed to Other ready: %d -> %d", otherReady, n)
	}
	if n := h.lc("Home").ready.Len(); n != homeReady {
		t.Errorf("dropped return subscribed to Home ready: %d -> %d", homeReady, n)
	}
	if n := h.lc("Home").teardown.Len(); n != homeTeardown {
		t.Errorf("dropped request subscribed to Home teardown: %d -> %d", homeTeardown, n)
	}
	h.settle()

	if h.active["Other"] || indexOf(h.calls, "start Other") != -1 {
		t.Errorf("second request should have been dropped: %v", h.calls)
	}
	if !h.active["Jump"] || h.active["Home"] {
		t.Errorf("active = %v", h.active)
	}
	if c.Busy() {
		t.Error("should be idle")
	}
	// A fresh request after completion is accepted.
	if !c.RequestTransition(TransitionRequest{From: "Jump", To: "Other"}) {
		t.Error("request after completion should be accepted")
	}
}

func TestCoordinatorKillsTweens(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Jump")
	tw := &countingCanceler{}
	c, _ := newTestCoordinator(h, WithTweenCanceler(tw))
	c.Start("Home", nil)
	h.settle()
	c.RequestTransition(TransitionRequest{From: "Home", To: "Jump"})
	if tw.calls != 2 {
		t.Errorf("KillAll calls = %d, want 2", tw.calls)
	}
}

func TestCoordinatorUnknownDestination(t *testing.T) {
	h := newFakeHost("Home", "HUD")
	c, _ := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()
	h.calls = nil

	if c.RequestTransition(TransitionRequest{From: "Home", To: "Missing"}) {
		t.Error("unknown destination should be dropped")
	}
	if c.Busy() || len(h.calls) != 0 || !h.active["Home"] {
		t.Errorf("state changed: busy=%v calls=%v", c.Busy(), h.calls)
	}
}

func TestCoordinatorWaitsForLoaded(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Jump")
	h.scenes["Jump"] = loadedLifecycle{h.lc("Jump")}
	c, _ := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()

	c.RequestTransition(TransitionRequest{From: "Home", To: "Jump"})
	h.settle()
	if !c.Busy() {
		t.Fatal("should stay busy until loaded fires")
	}
	h.lc("Jump").loaded.Emit()
	if c.Busy() || !h.input {
		t.Error("should be idle after loaded")
	}
}

func TestCoordinatorReturnHome(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Jump")
	c, bus := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()
	c.RequestTransition(TransitionRequest{From: "Home", To: "Jump"})
	h.settle()

	bus.Publish(TopicReturnToNovel, map[string]any{"from": "Jump", "params": map[string]any{"score": 3}})
	h.settle()

	if !h.active["Home"] || h.active["Jump"] {
		t.Errorf("active = %v", h.active)
	}
	if !h.visible["HUD"] {
		t.Error("HUD should be visible again")
	}
	p := h.params["Home"]
	if p[ParamResumedFrom] != SceneID("Jump") {
		t.Errorf("resumedFrom = %v", p[ParamResumedFrom])
	}
	rp, _ := p[ParamReturnParams].(Params)
	if rp["score"] != 3 {
		t.Errorf("returnParams = %#v", p[ParamReturnParams])
	}
	if p["charaDefs"] != "defs" {
		t.Error("shared params missing")
	}
}

func TestCoordinatorOverlayBlocksInput(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay")
	c, bus := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()

	if !c.RequestOverlay(OverlayRequest{From: "Home", Content: "backlog"}) {
		t.Fatal("overlay dropped")
	}
	h.settle()

	if h.sceneInput["Home"] {
		t.Error("origin input should be disabled")
	}
	if !h.input || c.Busy() {
		t.Error("overlays must not touch global input or the busy state")
	}
	op, ok := h.params["Overlay"][ParamOverlay].(OverlayParams)
	if !ok || op.Content != "backlog" || op.ReturnTo != "Home" || !op.InputWasBlocked {
		t.Fatalf("overlay params = %#v", h.params["Overlay"])
	}
	if c.RequestOverlay(OverlayRequest{From: "Home"}) {
		t.Error("reopening an open overlay should be dropped")
	}

	bus.Publish(TopicEndOverlay, op.Close("Overlay"))
	h.settle()

	if h.active["Overlay"] {
		t.Error("overlay should be stopped")
	}
	if !h.sceneInput["Home"] {
		t.Error("origin input should be restored")
	}
	if c.OpenOverlays() != 0 {
		t.Errorf("OpenOverlays = %d", c.OpenOverlays())
	}
}

func TestCoordinatorOverlayWithoutBlocking(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay")
	c, _ := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()
	h.SetSceneInputEnabled("Home", false) // disabled by something else

	c.RequestOverlay(OverlayRequest{From: "Home", BlockInput: Bool(false)})
	h.settle()
	op := h.params["Overlay"][ParamOverlay].(OverlayParams)
	if op.InputWasBlocked {
		t.Error("InputWasBlocked should be false")
	}

	c.EndOverlay(op.Close("Overlay"))
	h.settle()
	if h.sceneInput["Home"] {
		t.Error("input not blocked by the overlay must be left alone on close")
	}
}

func TestCoordinatorEndOverlayWithoutOpen(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay")
	c, _ := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()
	h.SetSceneInputEnabled("Home", false)
	h.calls = nil

	c.EndOverlay(OverlayClose{From: "Overlay", ReturnTo: "Home", InputWasBlocked: true})
	if len(h.calls) != 0 {
		t.Errorf("unexpected calls: %v", h.calls)
	}
}

func TestCoordinatorOverlayDuringTransition(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Overlay", "Jump")
	c, _ := newTestCoordinator(h)
	c.Start("Home", nil)
	h.settle()

	c.RequestTransition(TransitionRequest{From: "Home", To: "Jump"})
	if !c.RequestOverlay(OverlayRequest{From: "Home", BlockInput: Bool(true)}) {
		t.Error("overlays are not gated by the busy state")
	}
	h.settle()
	if c.Busy() {
		t.Error("transition should still complete")
	}
}

func TestCoordinatorClose(t *testing.T) {
	h := newFakeHost("Home", "HUD", "Jump")
	c, bus := newTestCoordinator(h)
	c.Close()
	if n := bus.Publish(TopicRequestSceneTransition, TransitionRequest{To: "Jump"}); n != 0 {
		t.Errorf("handlers ran after Close: %d", n)
	}
}
