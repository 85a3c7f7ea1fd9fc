package stage

import "math"

// Inspector is the editing capability an EditableRegistry forwards to. It
// is attached only in debug/edit mode.
type Inspector interface {
	MakeEditable(e *Entity, scene SceneID)
}

// EditableRegistry forwards entities to the attached Inspector exactly once
// per entity. Its only state besides the inspector is the flag on each
// entity.
type EditableRegistry struct {
	inspector Inspector
}

// NewEditableRegistry creates a registry forwarding to inspector, which may
// be nil.
func NewEditableRegistry(inspector Inspector) *EditableRegistry {
	return &EditableRegistry{inspector: inspector}
}

// Attach sets the inspector. Passing nil detaches it.
func (r *EditableRegistry) Attach(inspector Inspector) {
	r.inspector = inspector
}

// Enabled reports whether an inspector is attached.
func (r *EditableRegistry) Enabled() bool {
	return r != nil && r.inspector != nil
}

// Register forwards e to the inspector unless none is attached or e was
// already registered.
func (r *EditableRegistry) Register(e *Entity, scene SceneID) {
	if !r.Enabled() || e == nil || e.editable || e.disposed {
		return
	}
	e.editable = true
	r.inspector.MakeEditable(e, scene)
}

// ExportLayout captures every editable entity under root as a descriptor,
// with positions and angles rounded to integers and scale and alpha to two
// decimals. Widget type and params are carried over from the declaration;
// the parent reflects the live graph. Entity order is pre-order, which
// preserves creation order for built scenes.
func ExportLayout(scene SceneID, root *Entity) *LayoutDescriptor {
	d := &LayoutDescriptor{Scene: scene, Objects: []ObjectSpec{}}
	if root == nil {
		return d
	}
	root.Walk(func(e *Entity) bool {
		if e == root || !e.editable {
			return true
		}
		typ, _ := e.Data(dataWidgetType).(string)
		if typ == "" {
			typ = e.Kind.String()
		}
		o := ObjectSpec{
			Name:    e.Name,
			Type:    typ,
			X:       math.Round(e.X),
			Y:       math.Round(e.Y),
			ScaleX:  round2(e.ScaleX),
			ScaleY:  round2(e.ScaleY),
			Angle:   math.Round(e.Angle),
			Alpha:   round2(e.Alpha),
			Visible: e.Visible,
			Texture: e.Texture,
		}
		if params, ok := e.Data(dataWidgetParams).(map[string]any); ok {
			o.Params = make(map[string]any, len(params))
			for k, v := range params {
				o.Params[k] = v
			}
		}
		delete(o.Params, "parent")
		if e.Parent != nil && e.Parent != root {
			if o.Params == nil {
				o.Params = make(map[string]any, 1)
			}
			o.Params["parent"] = e.Parent.Name
		}
		if e.Body != nil {
			spec := e.Body.Spec()
			o.Physics = &spec
		}
		d.Objects = append(d.Objects, o)
		return true
	})
	return d
}
