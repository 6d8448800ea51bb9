package element

import (
	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/style"
)

// Entity is an identified model plus the capabilities installed for it by
// the builder.
type Entity struct {
	ID       ID
	Model    Model
	features featureSet
}

// Clone returns a deep copy sharing no model data with e.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := &Entity{ID: e.ID, features: e.features.clone()}
	if e.Model != nil {
		c.Model = e.Model.clone()
	}
	return c
}

// HTMLID implements render.Element.
func (e *Entity) HTMLID() string { return e.ID.HTMLID() }

// SVG implements render.Element.
func (e *Entity) SVG() (render.SVGElement, bool) {
	f, ok := Query[ToSVG](e)
	if !ok {
		return render.SVGElement{}, false
	}
	return f.Build(e), true
}

// Paint draws e on r when it can be rendered.
func (e *Entity) Paint(r render.Renderer, t *geom.Transform) {
	if f, ok := Query[Render](e); ok {
		f.Paint(e, r, t)
	}
}

// Hit reports whether p touches e.
func (e *Entity) Hit(p geom.Point) bool {
	f, ok := Query[HitTest](e)
	return ok && f.Hit(e, p)
}

// Move translates e by d when it supports translation.
func (e *Entity) Move(d geom.Vector) bool {
	f, ok := Query[Translate](e)
	if ok {
		f.Apply(e, d)
	}
	return ok
}

// Bounds returns the bounding box of e.
func (e *Entity) Bounds() (geom.Rectangle, bool) {
	f, ok := Query[Bounds](e)
	if !ok {
		return geom.Rectangle{}, false
	}
	return f.Of(e)
}

// SetShapeStyle replaces the shape style of rectangles, polygons and paths.
// It reports false for other kinds.
func (e *Entity) SetShapeStyle(s style.Shape) bool {
	switch m := e.Model.(type) {
	case *RectangleModel:
		m.Style = s.Clone()
	case *PolygonModel:
		m.Style = s.Clone()
	case *PathModel:
		m.Style = s.Clone()
	default:
		return false
	}
	return true
}

func (e *Entity) String() string { return e.ID.String() }
