package demo

import (
	"fmt"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/ecs"
)

// HUDScene is the always-on status bar. It learns about scene changes from
// the ECS world rather than the bus directly.
type HUDScene struct {
	stage.BaseScene

	world   donburi.World
	sc      *stage.SceneContext
	status  *stage.Entity
	hp      *stage.Entity
	current stage.SceneID
}

// NewHUDScene creates the HUD, subscribed to bridged events in world.
func NewHUDScene(world donburi.World) *HUDScene {
	h := &HUDScene{world: world}
	ecs.SceneEventType.Subscribe(world, h.onSceneEvent)
	return h
}

// Create implements stage.Scene.
func (h *HUDScene) Create(sc *stage.SceneContext) {
	h.sc = sc
	sc.Build(func(b *stage.Built) {
		h.status = b.Get("hud_status")
		h.hp = b.Get("hud_hp")
		if btn := b.Get("menu_button"); btn != nil {
			btn.Interactable = true
			btn.OnClick = func(*stage.Entity) { h.OpenBacklog() }
		}
		h.render()
	})
}

// Update implements stage.Scene.
func (h *HUDScene) Update(*stage.SceneContext, float64) {
	ecs.SceneEventType.ProcessEvents(h.world)
}

// Shutdown implements stage.Scene.
func (h *HUDScene) Shutdown(*stage.SceneContext) {
	h.status, h.hp, h.sc = nil, nil, nil
}

// Current returns the scene the HUD believes is current.
func (h *HUDScene) Current() stage.SceneID {
	return h.current
}

// OpenBacklog requests the overlay above the current scene.
func (h *HUDScene) OpenBacklog() {
	if h.sc == nil || h.current == "" {
		return
	}
	h.sc.Bus().Publish(stage.TopicRequestOverlay, stage.OverlayRequest{
		From:       h.current,
		Content:    fmt.Sprintf("Backlog for %s", h.current),
		BlockInput: stage.Bool(true),
	})
}

func (h *HUDScene) onSceneEvent(_ donburi.World, e ecs.SceneEvent) {
	switch e.Topic {
	case stage.TopicTransitionComplete:
		h.current = e.Scene()
	case stage.TopicReturnToNovel:
		r, err := stage.DecodePayload[stage.ReturnRequest](e.Payload)
		if err != nil || h.hp == nil {
			break
		}
		switch score := r.Params["score"].(type) {
		case int:
			stage.SetBarValue(h.hp, float64(score*10), 100)
		case float64:
			stage.SetBarValue(h.hp, score*10, 100)
		}
	}
	h.render()
}

func (h *HUDScene) render() {
	if h.status != nil {
		h.status.Text = fmt.Sprintf("scene: %s", h.current)
	}
}
