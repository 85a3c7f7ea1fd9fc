package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSOverlay displays the current FPS and TPS in the top-left corner,
// refreshed every half second.
type FPSOverlay struct {
	img   *ebiten.Image
	since float64
	dirty bool
}

// NewFPSOverlay creates an overlay.
func NewFPSOverlay() *FPSOverlay {
	return &FPSOverlay{dirty: true}
}

// Update advances the refresh timer by dt seconds.
func (f *FPSOverlay) Update(dt float64) {
	f.since += dt
	if f.since >= 0.5 {
		f.since = 0
		f.dirty = true
	}
}

// Draw renders the overlay onto screen.
func (f *FPSOverlay) Draw(screen *ebiten.Image) {
	if f.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		f.img = ebiten.NewImage(100, 32)
	}
	if f.dirty {
		f.dirty = false
		f.img.Clear()
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(f.img, nil)
}
