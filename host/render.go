package host

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/stage"
)

// placeholderSize is the edge of the square drawn for images whose texture
// is not loaded.
const placeholderSize = 48

var placeholderColor = stage.Color{R: 1, G: 0, B: 1, A: 0.6}

// Renderer draws the visible scenes of a Director, bottom to top.
type Renderer struct {
	textures map[string]*ebiten.Image
	white    *ebiten.Image
	op       ebiten.DrawImageOptions
}

// NewRenderer creates a renderer with no textures.
func NewRenderer() *Renderer {
	return &Renderer{textures: make(map[string]*ebiten.Image)}
}

// SetTexture registers img under key.
func (r *Renderer) SetTexture(key string, img *ebiten.Image) {
	r.textures[key] = img
}

// Texture returns the image registered under key.
func (r *Renderer) Texture(key string) (*ebiten.Image, bool) {
	img, ok := r.textures[key]
	return img, ok
}

// LoadTextures registers every .png in dir, keyed by file name without the
// extension. A .png with a sibling .json is an atlas page: its frames are
// registered too.
func (r *Renderer) LoadTextures(fsys fs.FS, dir string) (int, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("load textures: %w", err)
	}
	n := 0
	for _, ent := range entries {
		if ent.IsDir() || path.Ext(ent.Name()) != ".png" {
			continue
		}
		img, _, err := ebitenutil.NewImageFromFileSystem(fsys, path.Join(dir, ent.Name()))
		if err != nil {
			return n, fmt.Errorf("load texture %s: %w", ent.Name(), err)
		}
		key := strings.TrimSuffix(ent.Name(), ".png")
		r.textures[key] = img
		n++

		data, err := fs.ReadFile(fsys, path.Join(dir, key+".json"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("load atlas %s: %w", key, err)
		}
		frames, err := r.AddAtlas(data, []*ebiten.Image{img})
		if err != nil {
			return n, fmt.Errorf("load atlas %s: %w", key, err)
		}
		n += frames
	}
	return n, nil
}

// TextureSize returns the pixel size of the texture under key.
func (r *Renderer) TextureSize(key string) (float64, float64, bool) {
	img, ok := r.textures[key]
	if !ok {
		return 0, 0, false
	}
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy()), true
}

// Draw renders every visible scene of d onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, d *stage.Director) {
	for _, sc := range d.Active() {
		if !sc.Visible() || sc.Root() == nil {
			continue
		}
		r.drawEntity(screen, sc.Root())
	}
}

func (r *Renderer) drawEntity(screen *ebiten.Image, e *stage.Entity) {
	if !e.Visible || e.Alpha <= 0 {
		return
	}
	switch e.Kind {
	case stage.KindImage:
		if img, ok := r.textures[e.Texture]; ok {
			r.drawImage(screen, img, e, 1, 1, e.Color)
		} else {
			r.drawImage(screen, r.pixel(), e, placeholderSize, placeholderSize, placeholderColor)
		}
	case stage.KindRect:
		r.drawImage(screen, r.pixel(), e, e.Width, e.Height, e.Color)
	case stage.KindText:
		p := e.WorldPosition()
		ebitenutil.DebugPrintAt(screen, e.Text, int(p.X), int(p.Y))
	}
	for _, child := range e.Children() {
		r.drawEntity(screen, child)
	}
}

// drawImage draws img scaled by (sx, sy) in local space, then placed by the
// entity's world transform.
func (r *Renderer) drawImage(screen, img *ebiten.Image, e *stage.Entity, sx, sy float64, c stage.Color) {
	op := &r.op
	op.GeoM.Reset()
	op.GeoM.Scale(sx, sy)
	op.GeoM.Concat(worldGeoM(e))
	op.ColorScale.Reset()
	a := float32(c.A * e.WorldAlpha())
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	screen.DrawImage(img, op)
}

// pixel returns the 1x1 white image used for solid fills.
func (r *Renderer) pixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	return r.white
}

// worldGeoM converts an entity's [a b c d tx ty] world transform into an
// ebiten.GeoM.
func worldGeoM(e *stage.Entity) ebiten.GeoM {
	t := e.WorldTransform()
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}
