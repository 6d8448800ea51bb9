package render

import (
	"strings"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

// SVGShape is the geometry of one SVG element. The concrete types are
// Circle, Ellipse, Rect, Line, Polygon, Polyline, Path, Text and Group.
type SVGShape interface {
	// Tag is the SVG element name.
	Tag() string
	svgShape()
}

type (
	Circle   struct{ Circle geom.Circle }
	Ellipse  struct{ Ellipse geom.Ellipse }
	Rect     struct{ Rect geom.Rectangle }
	Line     struct{ Line geom.Segment }
	Polygon  struct{ Points []geom.Point }
	Polyline struct{ Points []geom.Point }
	Path     struct{ Path geom.Path }
	Text     struct{ Text geom.Text }
	Group    struct{ Children []SVGElement }
)

func (Circle) Tag() string   { return "circle" }
func (Ellipse) Tag() string  { return "ellipse" }
func (Rect) Tag() string     { return "rect" }
func (Line) Tag() string     { return "line" }
func (Polygon) Tag() string  { return "polygon" }
func (Polyline) Tag() string { return "polyline" }
func (Path) Tag() string     { return "path" }
func (Text) Tag() string     { return "text" }
func (Group) Tag() string    { return "g" }

func (Circle) svgShape()   {}
func (Ellipse) svgShape()  {}
func (Rect) svgShape()     {}
func (Line) svgShape()     {}
func (Polygon) svgShape()  {}
func (Polyline) svgShape() {}
func (Path) svgShape()     {}
func (Text) svgShape()     {}
func (Group) svgShape()    {}

// SVGElement is a backend independent description of an SVG node: geometry,
// free-form attributes and CSS properties. Attributes are applied after the
// geometry attributes; CSS ends up in a single style attribute.
type SVGElement struct {
	Shape SVGShape
	Attrs map[string]string
	CSS   map[string]string
}

// NewSVGElement returns an element with empty attribute and CSS maps.
func NewSVGElement(shape SVGShape) SVGElement {
	return SVGElement{Shape: shape, Attrs: map[string]string{}, CSS: map[string]string{}}
}

// WithAttr sets a free-form attribute and returns the element.
func (e SVGElement) WithAttr(name, value string) SVGElement {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
	return e
}

// WithCSS sets a CSS property and returns the element.
func (e SVGElement) WithCSS(name, value string) SVGElement {
	if e.CSS == nil {
		e.CSS = map[string]string{}
	}
	e.CSS[name] = value
	return e
}

// WithTransform sets the transform attribute unless t is nil.
func (e SVGElement) WithTransform(t *geom.Transform) SVGElement {
	if t == nil || t.IsIdentity() {
		return e
	}
	return e.WithAttr("transform", t.SVG())
}

// ShapeCSS returns the paint properties of a shape style.
func ShapeCSS(s style.Shape) map[string]string {
	css := map[string]string{
		"fill":         s.FillColor.ToCSS(),
		"stroke":       s.Stroke.Color.ToCSS(),
		"stroke-width": geom.FormatFloat(s.Stroke.Width),
	}
	if !s.FillColor.IsTransparent() && s.FillColor.A != 255 {
		css["fill-opacity"] = geom.FormatFloat(s.FillColor.Opacity())
	}
	if !s.Stroke.Color.IsTransparent() && s.Stroke.Color.A != 255 {
		css["stroke-opacity"] = geom.FormatFloat(s.Stroke.Color.Opacity())
	}
	if s.Stroke.Dashed() {
		css["stroke-dasharray"] = s.Stroke.DashString()
	}
	return css
}

// TextCSS returns the paint properties of a text style.
func TextCSS(s style.Text) map[string]string {
	css := map[string]string{
		"fill":      s.Color.ToCSS(),
		"font-size": geom.FormatFloat(s.FontSize),
	}
	if s.FontFamily != "" {
		css["font-family"] = s.FontFamily
	}
	return css
}

// Styled returns a new element for shape painted with s.
func Styled(shape SVGShape, s style.Shape) SVGElement {
	return SVGElement{Shape: shape, Attrs: map[string]string{}, CSS: ShapeCSS(s)}
}

// FormatPoints renders vertices as an SVG points list: "x,y x,y ...".
func FormatPoints(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = geom.FormatFloat(p.X) + "," + geom.FormatFloat(p.Y)
	}
	return strings.Join(parts, " ")
}
