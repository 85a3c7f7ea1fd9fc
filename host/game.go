// Package host runs a stage.Director inside an Ebitengine window. It is the
// only package that touches the GPU, the window, or real input devices.
package host

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/stage"
)

// Game implements ebiten.Game for a Director.
type Game struct {
	Director  *stage.Director
	Renderer  *Renderer
	Pointer   *stage.PointerRouter
	Inspector *Inspector          // optional
	Script    *stage.ScriptRunner // optional
	FPS       *FPSOverlay         // optional
	Capture   *Capturer           // optional

	Width, Height int

	// ExitOnScriptEnd stops the game once Script is done.
	ExitOnScriptEnd bool
}

// NewGame creates a game for d with a fresh renderer and pointer router.
func NewGame(d *stage.Director, width, height int) *Game {
	return &Game{
		Director: d,
		Renderer: NewRenderer(),
		Pointer:  stage.NewPointerRouter(d),
		Width:    width,
		Height:   height,
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.Inspector != nil {
		g.Inspector.Update()
	}
	if g.Capture != nil {
		g.Capture.Update()
	}
	x, y := ebiten.CursorPosition()
	g.Pointer.Process(float64(x), float64(y), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if g.Script != nil {
		g.Script.Step(g.Director.Bus())
		if g.ExitOnScriptEnd && g.Script.Done() && !g.scriptBusy() {
			return ebiten.Termination
		}
	}
	g.Director.Tick(dt)
	if g.FPS != nil {
		g.FPS.Update(dt)
	}
	return nil
}

func (g *Game) scriptBusy() bool {
	return g.Script.Busy != nil && g.Script.Busy()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.Draw(screen, g.Director)
	if g.FPS != nil {
		g.FPS.Draw(screen)
	}
	if g.Capture != nil {
		g.Capture.Flush(screen)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.Width, g.Height
}

// Run opens a window and blocks until it is closed.
func (g *Game) Run(title string) error {
	ebiten.SetWindowSize(g.Width, g.Height)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(g)
}
