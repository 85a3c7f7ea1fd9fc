package demo

import (
	"fmt"
	"log/slog"

	"github.com/phanxgames/stage"
)

// HomeScene is the dialogue scene the application returns to.
type HomeScene struct {
	stage.BaseScene

	novel   *Novel
	jumper  *stage.Jumper
	message *stage.Entity
	speaker *stage.Entity
	log     *slog.Logger

	saves int
}

// Create implements stage.Scene.
func (h *HomeScene) Create(sc *stage.SceneContext) {
	h.log = sc.Log()
	params := sc.Params()
	sc.Build(func(b *stage.Built) {
		h.message = b.Get("textbox_message")
		h.speaker = b.Get("textbox_speaker")
		if box := b.Get("textbox"); box != nil {
			box.Interactable = true
			box.OnClick = func(*stage.Entity) { h.Advance() }
		}

		h.novel = NewNovel(defaultScript())
		h.novel.Show = h.show
		h.jumper = &stage.Jumper{From: sc.SceneID(), Bus: sc.Bus(), Scenario: h.novel, Saver: h, Log: h.log}
		h.novel.OnJump = func(tag stage.JumpTag) {
			if _, err := h.jumper.Jump(tag); err != nil {
				h.log.Warn("jump failed", "err", err)
			}
		}

		label := LabelStart
		if from, _ := params[stage.ParamResumedFrom].(stage.SceneID); from != "" {
			label = LabelResume
			h.log.Info("resumed", "from", from, "return_params", params[stage.ParamReturnParams])
		}
		if err := h.novel.JumpTo(label); err != nil {
			h.log.Warn("start label missing", "label", label, "err", err)
			return
		}
		h.novel.Next()
	})
}

// Shutdown implements stage.Scene.
func (h *HomeScene) Shutdown(*stage.SceneContext) {
	if h.novel != nil {
		h.novel.Stop()
	}
	h.novel, h.jumper, h.message, h.speaker = nil, nil, nil, nil
}

// Advance shows the next line.
func (h *HomeScene) Advance() {
	if h.novel != nil {
		h.novel.Next()
	}
}

// Message returns the line on screen.
func (h *HomeScene) Message() string {
	if h.message == nil {
		return ""
	}
	return h.message.Text
}

func (h *HomeScene) show(l Line) {
	if h.message != nil {
		h.message.Text = l.Text
	}
	if h.speaker != nil {
		h.speaker.Text = l.Speaker
	}
}

// AutoSave implements stage.AutoSaver.
func (h *HomeScene) AutoSave(slot int) error {
	if h.novel == nil {
		return fmt.Errorf("auto save slot %d: no scenario running", slot)
	}
	h.saves++
	h.log.Debug("auto saved", "slot", slot, "saves", h.saves)
	return nil
}

// Saves returns how many auto saves ran.
func (h *HomeScene) Saves() int {
	return h.saves
}
