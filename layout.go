package stage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutDescriptor declares a scene's initial entities. Objects are created
// in order, so containers must precede the entities parented to them.
// A nil Objects slice marks a document without an "objects" key.
type LayoutDescriptor struct {
	Scene   SceneID      `json:"scene,omitempty" yaml:"scene,omitempty"`
	Objects []ObjectSpec `json:"objects" yaml:"objects"`
}

// ObjectSpec describes one entity. Zero-valued optional fields receive their
// defaults (scale 1, alpha 1, visible) when decoded from a document.
type ObjectSpec struct {
	Name    string         `json:"name" yaml:"name"`
	Type    string         `json:"type,omitempty" yaml:"type,omitempty"`
	X       float64        `json:"x" yaml:"x"`
	Y       float64        `json:"y" yaml:"y"`
	ScaleX  float64        `json:"scaleX" yaml:"scaleX"`
	ScaleY  float64        `json:"scaleY" yaml:"scaleY"`
	Angle   float64        `json:"angle" yaml:"angle"`
	Alpha   float64        `json:"alpha" yaml:"alpha"`
	Visible bool           `json:"visible" yaml:"visible"`
	Texture string         `json:"texture,omitempty" yaml:"texture,omitempty"`
	Params  map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Physics *PhysicsSpec   `json:"physics,omitempty" yaml:"physics,omitempty"`
}

// PhysicsSpec configures an arcade body. It is applied as a whole or not at
// all.
type PhysicsSpec struct {
	IsStatic           bool    `json:"isStatic" yaml:"isStatic"`
	Width              float64 `json:"width" yaml:"width"`
	Height             float64 `json:"height" yaml:"height"`
	OffsetX            float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY            float64 `json:"offsetY" yaml:"offsetY"`
	AllowGravity       bool    `json:"allowGravity" yaml:"allowGravity"`
	BounceX            float64 `json:"bounceX" yaml:"bounceX"`
	BounceY            float64 `json:"bounceY" yaml:"bounceY"`
	CollideWorldBounds bool    `json:"collideWorldBounds" yaml:"collideWorldBounds"`
}

// NewObjectSpec returns a spec with every default applied.
func NewObjectSpec(name string) ObjectSpec {
	return ObjectSpec{Name: name, ScaleX: 1, ScaleY: 1, Alpha: 1, Visible: true}
}

// UnmarshalJSON decodes the object over a defaulted value so absent fields
// keep their defaults.
func (o *ObjectSpec) UnmarshalJSON(data []byte) error {
	type raw ObjectSpec
	r := raw(NewObjectSpec(""))
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*o = ObjectSpec(r)
	return nil
}

// UnmarshalYAML decodes the object over a defaulted value so absent fields
// keep their defaults.
func (o *ObjectSpec) UnmarshalYAML(value *yaml.Node) error {
	type raw ObjectSpec
	r := raw(NewObjectSpec(""))
	if err := value.Decode(&r); err != nil {
		return err
	}
	*o = ObjectSpec(r)
	return nil
}

// DefaultTexture returns the texture key used for entities without an
// explicit texture: the part of the name before the first underscore.
func (o ObjectSpec) DefaultTexture() string {
	if o.Texture != "" {
		return o.Texture
	}
	name, _, _ := strings.Cut(o.Name, "_")
	return name
}

// Parent returns the name of the container the entity should be added to,
// from params["parent"].
func (o ObjectSpec) Parent() string {
	p, _ := o.Params["parent"].(string)
	return p
}

// Validate reports whether the body can be attached.
func (p PhysicsSpec) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidBody, p.Width, p.Height)
	}
	if p.BounceX < 0 || p.BounceX > 1 || p.BounceY < 0 || p.BounceY > 1 {
		return fmt.Errorf("%w: bounce (%v, %v) outside [0, 1]", ErrInvalidBody, p.BounceX, p.BounceY)
	}
	return nil
}

// Empty reports whether the descriptor has nothing to build.
func (d *LayoutDescriptor) Empty() bool {
	return d == nil || len(d.Objects) == 0
}

// Validate checks name uniqueness and per-object constraints. All problems
// are joined into the returned error.
func (d *LayoutDescriptor) Validate() error {
	if d == nil {
		return nil
	}
	if d.Objects == nil {
		return fmt.Errorf("%w: missing objects", ErrMalformedLayout)
	}
	var errs []error
	seen := make(map[string]int, len(d.Objects))
	for i, o := range d.Objects {
		if o.Name == "" {
			errs = append(errs, fmt.Errorf("object %d: empty name", i))
			continue
		}
		if prev, dup := seen[o.Name]; dup {
			errs = append(errs, fmt.Errorf("object %d: %w %q (first at %d)", i, ErrDuplicateName, o.Name, prev))
		} else {
			seen[o.Name] = i
		}
		if o.Alpha < 0 || o.Alpha > 1 {
			errs = append(errs, fmt.Errorf("object %q: alpha %v outside [0, 1]", o.Name, o.Alpha))
		}
		if o.Physics != nil {
			if err := o.Physics.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("object %q: %w", o.Name, err))
			}
		}
		if p := o.Parent(); p != "" {
			if _, ok := seen[p]; !ok || p == o.Name {
				errs = append(errs, fmt.Errorf("object %q: parent %q must be declared earlier", o.Name, p))
			}
		}
	}
	return errors.Join(errs...)
}

// LayoutFormat selects the document encoding.
type LayoutFormat uint8

const (
	FormatJSON LayoutFormat = iota
	FormatYAML
)

// FormatForPath picks the format from a file extension; anything other than
// .yaml or .yml is JSON.
func FormatForPath(p string) LayoutFormat {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseLayout decodes a layout document.
func ParseLayout(data []byte, format LayoutFormat) (*LayoutDescriptor, error) {
	var d LayoutDescriptor
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	default:
		err = json.Unmarshal(data, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &d, nil
}

// MarshalLayout encodes d in the given format.
func MarshalLayout(d *LayoutDescriptor, format LayoutFormat) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	default:
		return json.MarshalIndent(d, "", "  ")
	}
}
