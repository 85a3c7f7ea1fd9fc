package demo

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/stage"
)

const (
	jumpSpeed = 520.0
	runSpeed  = 160.0
)

// Gravity and Bounds of the jump course.
var (
	JumpGravity = stage.Vec2{Y: 980}
	JumpBounds  = stage.Rect{Width: 1280, Height: 720}
)

// JumpScene is a physics mini game: the player hops along the ground and
// ledges, counting landings.
type JumpScene struct {
	sc     *stage.SceneContext
	player *stage.Entity
	score  *stage.Entity
	hops   int
	wasUp  bool
}

// Create implements stage.Scene.
func (j *JumpScene) Create(sc *stage.SceneContext) {
	j.sc = sc
	j.hops = 0
	j.wasUp = false
	sc.Build(func(b *stage.Built) {
		j.player = b.Get("player")
		j.score = b.Get("jump_score")
		grounds := b.WithPrefix("ground")
		if j.player != nil && j.player.Body != nil && sc.World() != nil {
			sc.World().Collide(j.player, grounds)
			j.player.Body.Velocity.X = runSpeed
		}
		if title := b.Get("jump_title"); title != nil {
			sc.Tweens().Add(stage.TweenAlpha(title, 1, 0.6, ease.OutCubic))
		}
		if btn := b.Get("exit_button"); btn != nil {
			btn.Interactable = true
			btn.OnClick = func(*stage.Entity) { j.Exit() }
		}
		j.render()
	})
}

// Update implements stage.Scene.
func (j *JumpScene) Update(_ *stage.SceneContext, _ float64) {
	if j.player == nil || j.player.Body == nil {
		return
	}
	body := j.player.Body
	if body.Touching.Left {
		body.Velocity.X = runSpeed
	} else if body.Touching.Right {
		body.Velocity.X = -runSpeed
	}
	if body.Touching.Down {
		if j.wasUp {
			j.hops++
			j.render()
		}
		body.Velocity.Y = -jumpSpeed
	}
	j.wasUp = !body.Touching.Down
}

// Shutdown implements stage.Scene.
func (j *JumpScene) Shutdown(*stage.SceneContext) {
	j.sc, j.player, j.score = nil, nil, nil
}

// Hops returns how many landings were counted.
func (j *JumpScene) Hops() int {
	return j.hops
}

// Exit returns to the home scene with the score.
func (j *JumpScene) Exit() {
	if j.sc == nil {
		return
	}
	j.sc.Bus().Publish(stage.TopicReturnToNovel, stage.ReturnRequest{
		From:   j.sc.SceneID(),
		Params: stage.Params{"score": j.hops},
	})
}

func (j *JumpScene) render() {
	if j.score != nil {
		j.score.Text = fmt.Sprintf("hops: %d", j.hops)
	}
}
