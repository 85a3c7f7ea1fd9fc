package host

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// atlasFrame is one named region of an atlas page.
type atlasFrame struct {
	Name    string
	Page    int
	Rect    image.Rectangle
	Rotated bool
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasJSONFrame struct {
	Frame   atlasRect `json:"frame"`
	Rotated bool      `json:"rotated"`
}

type atlasJSONPage struct {
	Image  string                    `json:"image"`
	Frames map[string]atlasJSONFrame `json:"frames"`
}

// parseAtlas reads TexturePacker JSON in either the hash format (a single
// "frames" object) or the multi-page array format ("textures"). Frames are
// returned sorted by name.
func parseAtlas(data []byte) ([]atlasFrame, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse atlas: %w", err)
	}

	var pages []atlasJSONPage
	switch {
	case probe.Textures != nil:
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("parse atlas textures: %w", err)
		}
	case probe.Frames != nil:
		var frames map[string]atlasJSONFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("parse atlas frames: %w", err)
		}
		pages = []atlasJSONPage{{Frames: frames}}
	default:
		return nil, fmt.Errorf("parse atlas: neither \"frames\" nor \"textures\" key")
	}

	var out []atlasFrame
	for i, p := range pages {
		for name, f := range p.Frames {
			out = append(out, atlasFrame{
				Name:    name,
				Page:    i,
				Rect:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
				Rotated: f.Rotated,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddAtlas registers every region of a TexturePacker atlas as a texture
// keyed by its frame name. Rotated regions are skipped since the renderer
// draws textures upright. Returns the number of textures registered.
func (r *Renderer) AddAtlas(data []byte, pages []*ebiten.Image) (int, error) {
	frames, err := parseAtlas(data)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, f := range frames {
		if f.Page >= len(pages) || pages[f.Page] == nil {
			return n, fmt.Errorf("atlas frame %q: page %d not loaded", f.Name, f.Page)
		}
		if f.Rotated {
			continue
		}
		r.textures[f.Name] = pages[f.Page].SubImage(f.Rect).(*ebiten.Image)
		n++
	}
	return n, nil
}
