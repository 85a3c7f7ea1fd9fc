package demo

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/stage"
)

// OverlayScene shows text above another scene until its close button is
// clicked.
type OverlayScene struct {
	stage.BaseScene

	sc     *stage.SceneContext
	params stage.OverlayParams
	text   *stage.Entity
	closed bool
}

// Create implements stage.Scene.
func (o *OverlayScene) Create(sc *stage.SceneContext) {
	o.sc = sc
	o.closed = false
	o.params, _ = sc.Params()[stage.ParamOverlay].(stage.OverlayParams)
	sc.Build(func(b *stage.Built) {
		o.text = b.Get("overlay_text")
		if o.text != nil && o.params.Content != nil {
			o.text.Text = fmt.Sprint(o.params.Content)
		}
		if panel := b.Get("overlay_panel"); panel != nil {
			panel.Alpha = 0
			sc.Tweens().Add(stage.TweenAlpha(panel, 1, 0.25, ease.OutQuad))
		}
		if btn := b.Get("overlay_close"); btn != nil {
			btn.Interactable = true
			btn.OnClick = func(*stage.Entity) { o.Close() }
		}
	})
}

// Shutdown implements stage.Scene.
func (o *OverlayScene) Shutdown(*stage.SceneContext) {
	o.sc, o.text = nil, nil
}

// Close asks the coordinator to end this overlay. Only the first call has
// an effect.
func (o *OverlayScene) Close() {
	if o.sc == nil || o.closed {
		return
	}
	o.closed = true
	o.sc.Bus().Publish(stage.TopicEndOverlay, o.params.Close(o.sc.SceneID()))
}

// Text returns the overlay's content as displayed.
func (o *OverlayScene) Text() string {
	if o.text == nil {
		return ""
	}
	return o.text.Text
}
