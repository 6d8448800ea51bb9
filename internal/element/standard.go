package element

import (
	"math"
	"unicode/utf8"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/style"
)

// minHitTolerance is the smallest distance, in board units, at which a
// pointer still touches an outline.
const minHitTolerance = 4

// Text metrics without a font: average glyph advance as a share of the size.
const glyphAdvance = 0.6

func hitTolerance(s style.Shape) float64 {
	return math.Max(s.Stroke.Width/2, minHitTolerance)
}

// installStandard attaches the standard capability set for the entity's model.
func installStandard(e *Entity) {
	switch e.Model.(type) {
	case *RectangleModel:
		installRectangle(e)
	case *PolygonModel:
		installPolygon(e)
	case *PathModel:
		installPath(e)
	case *TextModel:
		installText(e)
	case *ContainerModel:
		installContainer(e)
	}
	for _, child := range children(e) {
		if child.features == nil {
			installStandard(child)
		}
	}
}

func children(e *Entity) []*Entity {
	if m, ok := e.Model.(*ContainerModel); ok {
		return m.Children
	}
	return nil
}

func installRectangle(e *Entity) {
	model := func(e *Entity) *RectangleModel { return e.Model.(*RectangleModel) }

	register(e, Render{Paint: func(e *Entity, r render.Renderer, t *geom.Transform) {
		m := model(e)
		r.Rectangle(m.AbsoluteSized(), m.Style, t)
	}})
	register(e, ToSVG{Build: func(e *Entity) render.SVGElement {
		m := model(e)
		return render.Styled(render.Rect{Rect: m.AbsoluteSized()}, m.Style)
	}})
	register(e, HitTest{Hit: func(e *Entity, p geom.Point) bool {
		m := model(e)
		return m.Contains(p, hitTolerance(m.Style))
	}})
	register(e, Translate{Apply: func(e *Entity, d geom.Vector) {
		m := model(e)
		m.TopLeft = m.TopLeft.Add(d)
	}})
	register(e, Bounds{Of: func(e *Entity) (geom.Rectangle, bool) {
		return model(e).AbsoluteSized(), true
	}})
	register(e, MoveDraw{
		Begin: func(e *Entity, p geom.Point) {
			model(e).Rectangle = geom.ZeroSized(p)
		},
		Drag: func(e *Entity, anchor, p geom.Point) {
			m := model(e)
			m.TopLeft = anchor
			m.Width = p.X - anchor.X
			m.Height = p.Y - anchor.Y
		},
		Finish: func(e *Entity) {
			m := model(e)
			m.Rectangle = m.AbsoluteSized()
		},
	})
}

func installPolygon(e *Entity) {
	model := func(e *Entity) *PolygonModel { return e.Model.(*PolygonModel) }

	register(e, Render{Paint: func(e *Entity, r render.Renderer, t *geom.Transform) {
		m := model(e)
		r.Polygon(m.Polygon, m.Style, t)
	}})
	register(e, ToSVG{Build: func(e *Entity) render.SVGElement {
		m := model(e)
		pts := append([]geom.Point(nil), m.Vertices...)
		return render.Styled(render.Polygon{Points: pts}, m.Style)
	}})
	register(e, HitTest{Hit: func(e *Entity, p geom.Point) bool {
		m := model(e)
		if m.Contains(p) {
			return true
		}
		tol := hitTolerance(m.Style)
		for _, edge := range m.Edges() {
			if edge.DistanceTo(p) <= tol {
				return true
			}
		}
		return len(m.Vertices) == 1 && m.Vertices[0].DistanceTo(p) <= tol
	}})
	register(e, Translate{Apply: func(e *Entity, d geom.Vector) {
		m := model(e)
		m.Polygon = m.Polygon.Translate(d)
	}})
	register(e, Bounds{Of: func(e *Entity) (geom.Rectangle, bool) {
		return geom.BoundingBox(model(e).Vertices)
	}})
	register(e, ClickDraw{AddVertex: func(e *Entity, p geom.Point) {
		m := model(e)
		m.Vertices = append(m.Vertices, p)
	}})
}

func installPath(e *Entity) {
	model := func(e *Entity) *PathModel { return e.Model.(*PathModel) }

	register(e, Render{Paint: func(e *Entity, r render.Renderer, t *geom.Transform) {
		m := model(e)
		r.Path(m.Path, m.Style, t)
	}})
	register(e, ToSVG{Build: func(e *Entity) render.SVGElement {
		m := model(e)
		return render.Styled(render.Path{Path: geom.Path{Commands: append([]geom.Command(nil), m.Path.Commands...)}}, m.Style)
	}})
	register(e, HitTest{Hit: func(e *Entity, p geom.Point) bool {
		m := model(e)
		tol := hitTolerance(m.Style)
		segs := m.Path.Segments()
		if len(segs) == 0 {
			for _, pt := range m.Path.Points() {
				if pt.DistanceTo(p) <= tol {
					return true
				}
			}
			return false
		}
		for _, s := range segs {
			if s.DistanceTo(p) <= tol {
				return true
			}
		}
		return false
	}})
	register(e, Translate{Apply: func(e *Entity, d geom.Vector) {
		m := model(e)
		m.Path = m.Path.Translate(d)
	}})
	register(e, Bounds{Of: func(e *Entity) (geom.Rectangle, bool) {
		return geom.BoundingBox(model(e).Path.Points())
	}})
	register(e, MoveDraw{
		Begin: func(e *Entity, p geom.Point) {
			model(e).Path = geom.Path{Commands: []geom.Command{geom.MoveTo{To: p}}}
		},
		Drag: func(e *Entity, _, p geom.Point) {
			model(e).Path.LineTo(p)
		},
		Finish: func(*Entity) {},
	})
}

func textBounds(m *TextModel) geom.Rectangle {
	size := m.Style.FontSize
	width := float64(utf8.RuneCountInString(m.Content)) * size * glyphAdvance
	return geom.Rectangle{
		TopLeft: geom.Point{X: m.Position.X, Y: m.Position.Y - size},
		Width:   width,
		Height:  size,
	}
}

func installText(e *Entity) {
	model := func(e *Entity) *TextModel { return e.Model.(*TextModel) }

	register(e, Render{Paint: func(e *Entity, r render.Renderer, t *geom.Transform) {
		m := model(e)
		r.Text(m.Text, m.Style, t)
	}})
	register(e, ToSVG{Build: func(e *Entity) render.SVGElement {
		m := model(e)
		return render.SVGElement{
			Shape: render.Text{Text: m.Text},
			Attrs: map[string]string{},
			CSS:   render.TextCSS(m.Style),
		}
	}})
	register(e, HitTest{Hit: func(e *Entity, p geom.Point) bool {
		return textBounds(model(e)).Contains(p, 0)
	}})
	register(e, Translate{Apply: func(e *Entity, d geom.Vector) {
		m := model(e)
		m.Position = m.Position.Add(d)
	}})
	register(e, Bounds{Of: func(e *Entity) (geom.Rectangle, bool) {
		return textBounds(model(e)), true
	}})
}

func installContainer(e *Entity) {
	model := func(e *Entity) *ContainerModel { return e.Model.(*ContainerModel) }

	register(e, Render{Paint: func(e *Entity, r render.Renderer, t *geom.Transform) {
		for _, child := range model(e).Children {
			child.Paint(r, t)
		}
	}})
	register(e, ToSVG{Build: func(e *Entity) render.SVGElement {
		var kids []render.SVGElement
		for _, child := range model(e).Children {
			if el, ok := child.SVG(); ok {
				kids = append(kids, el.WithAttr("id", child.HTMLID()))
			}
		}
		return render.NewSVGElement(render.Group{Children: kids})
	}})
	register(e, HitTest{Hit: func(e *Entity, p geom.Point) bool {
		kids := model(e).Children
		for i := len(kids) - 1; i >= 0; i-- {
			if kids[i].Hit(p) {
				return true
			}
		}
		return false
	}})
	register(e, Translate{Apply: func(e *Entity, d geom.Vector) {
		for _, child := range model(e).Children {
			child.Move(d)
		}
	}})
	register(e, Bounds{Of: func(e *Entity) (geom.Rectangle, bool) {
		var out geom.Rectangle
		found := false
		for _, child := range model(e).Children {
			b, ok := child.Bounds()
			if !ok {
				continue
			}
			if !found {
				out, found = b, true
				continue
			}
			out = out.Union(b)
		}
		return out, found
	}})
}
