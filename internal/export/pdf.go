package export

import (
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

// PDFRenderer paints onto a gofpdf document, one board unit per point.
// Every Clear starts a new page.
type PDFRenderer struct {
	pdf        *gofpdf.Fpdf
	width      float64
	height     float64
	background style.Color
	translate  func(string) string
}

// NewPDF returns a renderer whose pages are width x height points.
func NewPDF(width, height float64, background style.Color) *PDFRenderer {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	return &PDFRenderer{
		pdf:        pdf,
		width:      width,
		height:     height,
		background: background,
		translate:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Document exposes the underlying document.
func (r *PDFRenderer) Document() *gofpdf.Fpdf { return r.pdf }

// Pages returns the number of pages painted so far.
func (r *PDFRenderer) Pages() int { return r.pdf.PageCount() }

// Output writes the document to w and closes it.
func (r *PDFRenderer) Output(w io.Writer) error {
	if r.pdf.PageCount() == 0 {
		r.Clear()
	}
	return r.pdf.Output(w)
}

func (r *PDFRenderer) ensurePage() {
	if r.pdf.PageCount() == 0 {
		r.Clear()
	}
}

func (r *PDFRenderer) Clear() {
	r.pdf.AddPage()
	if r.background.IsTransparent() {
		return
	}
	r.pdf.SetFillColor(int(r.background.R), int(r.background.G), int(r.background.B))
	r.pdf.SetAlpha(r.background.Opacity(), "Normal")
	r.pdf.Rect(0, 0, r.width, r.height, "F")
	r.pdf.SetAlpha(1, "Normal")
}

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opCubic
	opClose
)

// pathOp is one outline step in page coordinates.
type pathOp struct {
	kind opKind
	pts  [3]geom.Point
}

// outline collects an outline, mapping points through an optional transform.
type outline struct {
	t   *geom.Transform
	ops []pathOp
}

func (o *outline) apply(p geom.Point) geom.Point {
	if o.t == nil {
		return p
	}
	return o.t.Apply(p)
}

func (o *outline) moveTo(p geom.Point) {
	o.ops = append(o.ops, pathOp{kind: opMove, pts: [3]geom.Point{o.apply(p)}})
}

func (o *outline) lineTo(p geom.Point) {
	o.ops = append(o.ops, pathOp{kind: opLine, pts: [3]geom.Point{o.apply(p)}})
}

func (o *outline) cubicTo(c1, c2, p geom.Point) {
	o.ops = append(o.ops, pathOp{kind: opCubic, pts: [3]geom.Point{o.apply(c1), o.apply(c2), o.apply(p)}})
}

func (o *outline) close() { o.ops = append(o.ops, pathOp{kind: opClose}) }

func (o *outline) polygon(pts []geom.Point, closed bool) {
	for i, p := range pts {
		if i == 0 {
			o.moveTo(p)
			continue
		}
		o.lineTo(p)
	}
	if closed && len(pts) > 0 {
		o.close()
	}
}

func (o *outline) ellipse(c geom.Point, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	o.moveTo(geom.Pt(c.X+rx, c.Y))
	o.cubicTo(geom.Pt(c.X+rx, c.Y+ky), geom.Pt(c.X+kx, c.Y+ry), geom.Pt(c.X, c.Y+ry))
	o.cubicTo(geom.Pt(c.X-kx, c.Y+ry), geom.Pt(c.X-rx, c.Y+ky), geom.Pt(c.X-rx, c.Y))
	o.cubicTo(geom.Pt(c.X-rx, c.Y-ky), geom.Pt(c.X-kx, c.Y-ry), geom.Pt(c.X, c.Y-ry))
	o.cubicTo(geom.Pt(c.X+kx, c.Y-ry), geom.Pt(c.X+rx, c.Y-ky), geom.Pt(c.X+rx, c.Y))
	o.close()
}

func (o *outline) path(p geom.Path) {
	p.Walk(func(from geom.Point, c geom.Command, to geom.Point) {
		switch c := c.(type) {
		case geom.MoveTo:
			o.moveTo(to)
		case geom.LineTo, geom.HorizontalLineTo, geom.VerticalLineTo:
			o.lineTo(to)
		case geom.BezierTo:
			o.cubicTo(c.Control1, c.Control2, c.To)
		case geom.ArcTo:
			for _, b := range geom.ArcToCubics(from, c) {
				o.cubicTo(b.Control1, b.Control2, b.To)
			}
		case geom.Close:
			o.close()
		}
	})
}

// scale is the factor the transform applies to lengths.
func scale(t *geom.Transform) float64 {
	if t == nil {
		return 1
	}
	return math.Sqrt(math.Abs(t.A*t.E - t.B*t.D))
}

func (r *PDFRenderer) emit(o *outline) {
	for _, op := range o.ops {
		switch op.kind {
		case opMove:
			r.pdf.MoveTo(op.pts[0].X, op.pts[0].Y)
		case opLine:
			r.pdf.LineTo(op.pts[0].X, op.pts[0].Y)
		case opCubic:
			r.pdf.CurveBezierCubicTo(op.pts[0].X, op.pts[0].Y, op.pts[1].X, op.pts[1].Y, op.pts[2].X, op.pts[2].Y)
		case opClose:
			r.pdf.ClosePath()
		}
	}
}

// paint fills then strokes o. Fill and stroke are separate path operations
// so each gets its own opacity.
func (r *PDFRenderer) paint(o *outline, s style.Shape, fill bool) {
	if len(o.ops) == 0 {
		return
	}
	r.ensurePage()
	if fill && !s.FillColor.IsTransparent() {
		c := s.FillColor
		r.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		r.pdf.SetAlpha(c.Opacity(), "Normal")
		r.emit(o)
		r.pdf.DrawPath("F")
	}
	if s.Stroke.Width > 0 && !s.Stroke.Color.IsTransparent() {
		c := s.Stroke.Color
		k := scale(o.t)
		r.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		r.pdf.SetLineWidth(s.Stroke.Width * k)
		dash := make([]float64, len(s.Stroke.DashArray))
		for i, d := range s.Stroke.DashArray {
			dash[i] = d * k
		}
		r.pdf.SetDashPattern(dash, 0)
		r.pdf.SetAlpha(c.Opacity(), "Normal")
		r.emit(o)
		r.pdf.DrawPath("D")
	}
	r.pdf.SetAlpha(1, "Normal")
}

func (r *PDFRenderer) Path(p geom.Path, s style.Shape, t *geom.Transform) {
	o := &outline{t: t}
	o.path(p)
	r.paint(o, s, true)
}

func (r *PDFRenderer) Segment(seg geom.Segment, s style.Shape, t *geom.Transform) {
	o := &outline{t: t}
	o.polygon([]geom.Point{seg.Start, seg.End}, false)
	r.paint(o, s, false)
}

func (r *PDFRenderer) Polygon(p geom.Polygon, s style.Shape, t *geom.Transform) {
	o := &outline{t: t}
	o.polygon(p.Vertices, true)
	r.paint(o, s, true)
}

func (r *PDFRenderer) Rectangle(rect geom.Rectangle, s style.Shape, t *geom.Transform) {
	c := rect.AbsoluteSized().Corners()
	o := &outline{t: t}
	o.polygon(c[:], true)
	r.paint(o, s, true)
}

func (r *PDFRenderer) Circle(c geom.Circle, s style.Shape, t *geom.Transform) {
	o := &outline{t: t}
	o.ellipse(c.Center, c.Radius, c.Radius)
	r.paint(o, s, true)
}

func (r *PDFRenderer) Ellipse(e geom.Ellipse, s style.Shape, t *geom.Transform) {
	o := &outline{t: t}
	o.ellipse(e.Center, e.RadiusX, e.RadiusY)
	r.paint(o, s, true)
}

// Text draws with the Helvetica core font; content outside cp1252 is lost.
func (r *PDFRenderer) Text(txt geom.Text, s style.Text, t *geom.Transform) {
	if txt.Content == "" || s.Color.IsTransparent() {
		return
	}
	r.ensurePage()
	pos := txt.Position
	if t != nil {
		pos = t.Apply(pos)
	}
	r.pdf.SetFont("Helvetica", "", s.FontSize*scale(t))
	r.pdf.SetTextColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
	r.pdf.SetAlpha(s.Color.Opacity(), "Normal")
	r.pdf.Text(pos.X, pos.Y, r.translate(txt.Content))
	r.pdf.SetAlpha(1, "Normal")
}
