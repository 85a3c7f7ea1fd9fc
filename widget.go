package stage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Built-in widget type tags.
const (
	WidgetDefault   = "default"
	WidgetImage     = "image"
	WidgetContainer = "container"
	WidgetRect      = "rect"
	WidgetText      = "text"
	WidgetBar       = "bar"
)

// WidgetContext is handed to factories during the creation phase. Lookup
// resolves entities created earlier in the same build.
type WidgetContext struct {
	Scene  SceneID
	Lookup func(name string) *Entity
}

// WidgetFactory creates a bare entity for spec. Factories must not apply
// the object's transform, visibility or physics; the builder does that once
// every entity exists. Factories may build internal children.
type WidgetFactory func(ctx WidgetContext, spec ObjectSpec) (*Entity, error)

// WidgetRegistry maps type tags to factories. Unknown and empty tags
// resolve to the fallback (an image using the object's default texture).
type WidgetRegistry struct {
	factories map[string]WidgetFactory
	fallback  WidgetFactory
}

// NewWidgetRegistry returns a registry holding only the image fallback.
func NewWidgetRegistry() *WidgetRegistry {
	return &WidgetRegistry{
		factories: make(map[string]WidgetFactory),
		fallback:  ImageWidget,
	}
}

// DefaultWidgets returns a registry with every built-in widget registered.
func DefaultWidgets() *WidgetRegistry {
	r := NewWidgetRegistry()
	r.Register(WidgetImage, ImageWidget)
	r.Register(WidgetContainer, ContainerWidget)
	r.Register(WidgetRect, RectWidget)
	r.Register(WidgetText, TextWidget)
	r.Register(WidgetBar, BarWidget)
	return r
}

// Register binds typ to f, replacing any previous factory.
func (r *WidgetRegistry) Register(typ string, f WidgetFactory) {
	r.factories[typ] = f
}

// SetFallback replaces the factory used for unknown tags.
func (r *WidgetRegistry) SetFallback(f WidgetFactory) {
	r.fallback = f
}

// Has reports whether typ has a registered factory.
func (r *WidgetRegistry) Has(typ string) bool {
	_, ok := r.factories[typ]
	return ok
}

// Lookup returns the factory for typ, or the fallback.
func (r *WidgetRegistry) Lookup(typ string) WidgetFactory {
	if f, ok := r.factories[typ]; ok {
		return f
	}
	return r.fallback
}

// Types returns the registered tags, sorted.
func (r *WidgetRegistry) Types() []string {
	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DecodeParams decodes widget params into out (a pointer to a struct),
// accepting loosely typed values such as numbers written as strings.
func DecodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

// --- Built-in factories ---

// ImageWidget creates an image entity. The texture is the object's texture or
// the prefix of its name.
func ImageWidget(_ WidgetContext, spec ObjectSpec) (*Entity, error) {
	return NewImage(spec.Name, spec.DefaultTexture()), nil
}

// ContainerParams configures a container's hit area for inspectors.
type ContainerParams struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// ContainerWidget creates an empty group entity.
func ContainerWidget(_ WidgetContext, spec ObjectSpec) (*Entity, error) {
	var p ContainerParams
	if err := DecodeParams(spec.Params, &p); err != nil {
		return nil, fmt.Errorf("container %q: %w", spec.Name, err)
	}
	e := NewContainer(spec.Name)
	e.Width, e.Height = p.Width, p.Height
	return e, nil
}

// RectParams configures a solid rectangle.
type RectParams struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	Color  string  `mapstructure:"color"`
}

// RectWidget creates a solid color rectangle.
func RectWidget(_ WidgetContext, spec ObjectSpec) (*Entity, error) {
	p := RectParams{Color: "#ffffff"}
	if err := DecodeParams(spec.Params, &p); err != nil {
		return nil, fmt.Errorf("rect %q: %w", spec.Name, err)
	}
	c, err := ParseColor(p.Color)
	if err != nil {
		return nil, fmt.Errorf("rect %q: %w", spec.Name, err)
	}
	return NewRect(spec.Name, p.Width, p.Height, c), nil
}

// TextParams configures a text entity.
type TextParams struct {
	Text  string `mapstructure:"text"`
	Color string `mapstructure:"color"`
}

// TextWidget creates a text entity.
func TextWidget(_ WidgetContext, spec ObjectSpec) (*Entity, error) {
	p := TextParams{Color: "#ffffff"}
	if err := DecodeParams(spec.Params, &p); err != nil {
		return nil, fmt.Errorf("text %q: %w", spec.Name, err)
	}
	c, err := ParseColor(p.Color)
	if err != nil {
		return nil, fmt.Errorf("text %q: %w", spec.Name, err)
	}
	e := NewText(spec.Name, p.Text)
	e.Color = c
	return e, nil
}

// BarParams configures a gauge such as a hit point bar.
type BarParams struct {
	Width      float64 `mapstructure:"width"`
	Height     float64 `mapstructure:"height"`
	Value      float64 `mapstructure:"value"`
	Max        float64 `mapstructure:"max"`
	Fill       string  `mapstructure:"fill"`
	Background string  `mapstructure:"background"`
}

// BarWidget creates a container holding a background and a fill rect sized
// by Value/Max. The children are positioned during construction, relative
// to the container.
func BarWidget(_ WidgetContext, spec ObjectSpec) (*Entity, error) {
	p := BarParams{Width: 200, Height: 20, Value: 1, Max: 1, Fill: "#33cc55", Background: "#222222"}
	if err := DecodeParams(spec.Params, &p); err != nil {
		return nil, fmt.Errorf("bar %q: %w", spec.Name, err)
	}
	fill, err := ParseColor(p.Fill)
	if err != nil {
		return nil, fmt.Errorf("bar %q: %w", spec.Name, err)
	}
	bg, err := ParseColor(p.Background)
	if err != nil {
		return nil, fmt.Errorf("bar %q: %w", spec.Name, err)
	}
	e := NewContainer(spec.Name)
	e.Width, e.Height = p.Width, p.Height
	e.AddChild(NewRect(spec.Name+".bg", p.Width, p.Height, bg))
	e.AddChild(NewRect(spec.Name+".fill", p.Width, p.Height, fill))
	SetBarValue(e, p.Value, p.Max)
	return e, nil
}

// SetBarValue resizes a bar's fill to value/limit of its width.
func SetBarValue(bar *Entity, value, limit float64) {
	if bar.NumChildren() < 2 {
		return
	}
	ratio := 0.0
	if limit > 0 {
		ratio = value / limit
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	bar.Children()[1].Width = bar.Width * ratio
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("parse color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
