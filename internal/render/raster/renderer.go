// Package raster is the canvas backend: an immediate renderer painting into
// a gg context.
package raster

import (
	"image"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/style"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func regularFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Renderer paints on a gg.Context. It keeps no state besides the context,
// the background colour and a small cache of font faces.
type Renderer struct {
	ctx        *gg.Context
	background style.Color
	faces      map[float64]text.Face
	log        *zap.Logger
}

// New returns a renderer with a fresh width x height context.
func New(width, height int, background style.Color) *Renderer {
	return NewForContext(gg.NewContext(width, height), background)
}

// NewForContext wraps an existing context.
func NewForContext(ctx *gg.Context, background style.Color) *Renderer {
	return &Renderer{
		ctx:        ctx,
		background: background,
		faces:      make(map[float64]text.Face),
		log:        logging.L().Named("raster"),
	}
}

// Context returns the underlying gg context.
func (r *Renderer) Context() *gg.Context { return r.ctx }

// Image returns the painted pixels.
func (r *Renderer) Image() image.Image { return r.ctx.Image() }

// EncodePNG writes the painted pixels as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error { return r.ctx.EncodePNG(w) }

// Resize changes the surface size. The content is lost.
func (r *Renderer) Resize(width, height int) error {
	if width == r.ctx.Width() && height == r.ctx.Height() {
		return nil
	}
	return r.ctx.Resize(width, height)
}

// Close releases the context.
func (r *Renderer) Close() error { return r.ctx.Close() }

func rgba(c style.Color) gg.RGBA {
	return gg.RGBA{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: float64(c.A) / 255}
}

func matrix(t *geom.Transform) gg.Matrix {
	return gg.Matrix{A: t.A, B: t.B, C: t.C, D: t.D, E: t.E, F: t.F}
}

// Clear fills the surface with the background colour.
func (r *Renderer) Clear() {
	r.ctx.ClearWithColor(rgba(r.background))
}

// begin saves state, applies t and clears any pending path.
func (r *Renderer) begin(t *geom.Transform) {
	r.ctx.Push()
	r.ctx.ClearPath()
	if t != nil {
		r.ctx.Transform(matrix(t))
	}
}

func (r *Renderer) end() { r.ctx.Pop() }

// paint fills and strokes the current path with s. Fill and stroke share
// the context brush, so the brush is swapped in between.
func (r *Renderer) paint(s style.Shape, fill bool) {
	if fill && !s.FillColor.IsTransparent() {
		r.ctx.SetFillBrush(gg.Solid(rgba(s.FillColor)))
		if err := r.ctx.FillPreserve(); err != nil {
			r.log.Warn("fill failed", zap.Error(err))
		}
	}
	if s.Stroke.Color.IsTransparent() || s.Stroke.Width <= 0 {
		r.ctx.ClearPath()
		return
	}
	r.ctx.SetStrokeBrush(gg.Solid(rgba(s.Stroke.Color)))
	r.ctx.SetLineWidth(s.Stroke.Width)
	if s.Stroke.Dashed() {
		r.ctx.SetDash(s.Stroke.DashArray...)
	} else {
		r.ctx.ClearDash()
	}
	if err := r.ctx.Stroke(); err != nil {
		r.log.Warn("stroke failed", zap.Error(err))
	}
}

// tracePath issues every command of p. The pen position is tracked here
// because horizontal, vertical and arc commands need it in board units.
func (r *Renderer) tracePath(p geom.Path) {
	p.Walk(func(from geom.Point, c geom.Command, to geom.Point) {
		switch c := c.(type) {
		case geom.MoveTo:
			r.ctx.MoveTo(to.X, to.Y)
		case geom.LineTo, geom.HorizontalLineTo, geom.VerticalLineTo:
			r.ctx.LineTo(to.X, to.Y)
		case geom.BezierTo:
			r.ctx.CubicTo(c.Control1.X, c.Control1.Y, c.Control2.X, c.Control2.Y, c.To.X, c.To.Y)
		case geom.ArcTo:
			for _, b := range geom.ArcToCubics(from, c) {
				r.ctx.CubicTo(b.Control1.X, b.Control1.Y, b.Control2.X, b.Control2.Y, b.To.X, b.To.Y)
			}
		case geom.Close:
			r.ctx.ClosePath()
		}
	})
}

func (r *Renderer) Path(p geom.Path, s style.Shape, t *geom.Transform) {
	if p.Len() == 0 {
		return
	}
	r.begin(t)
	defer r.end()
	r.tracePath(p)
	r.paint(s, true)
}

func (r *Renderer) Segment(seg geom.Segment, s style.Shape, t *geom.Transform) {
	r.begin(t)
	defer r.end()
	r.ctx.MoveTo(seg.Start.X, seg.Start.Y)
	r.ctx.LineTo(seg.End.X, seg.End.Y)
	r.paint(s, false)
}

func (r *Renderer) Polygon(p geom.Polygon, s style.Shape, t *geom.Transform) {
	if len(p.Vertices) == 0 {
		return
	}
	r.begin(t)
	defer r.end()
	for i, v := range p.Vertices {
		if i == 0 {
			r.ctx.MoveTo(v.X, v.Y)
			continue
		}
		r.ctx.LineTo(v.X, v.Y)
	}
	r.ctx.ClosePath()
	r.paint(s, true)
}

func (r *Renderer) Rectangle(rect geom.Rectangle, s style.Shape, t *geom.Transform) {
	r.begin(t)
	defer r.end()
	c := rect.AbsoluteSized().Corners()
	r.ctx.MoveTo(c[0].X, c[0].Y)
	for _, p := range c[1:] {
		r.ctx.LineTo(p.X, p.Y)
	}
	r.ctx.ClosePath()
	r.paint(s, true)
}

func (r *Renderer) Circle(c geom.Circle, s style.Shape, t *geom.Transform) {
	r.Ellipse(geom.Ellipse{Center: c.Center, RadiusX: c.Radius, RadiusY: c.Radius}, s, t)
}

func (r *Renderer) Ellipse(e geom.Ellipse, s style.Shape, t *geom.Transform) {
	r.begin(t)
	defer r.end()
	r.ctx.DrawEllipse(e.Center.X, e.Center.Y, math.Abs(e.RadiusX), math.Abs(e.RadiusY))
	r.paint(s, true)
}

func (r *Renderer) face(size float64) (text.Face, bool) {
	if f, ok := r.faces[size]; ok {
		return f, true
	}
	src, err := regularFont()
	if err != nil {
		r.log.Warn("font unavailable", zap.Error(err))
		return nil, false
	}
	f := src.Face(size)
	r.faces[size] = f
	return f, true
}

// Text draws with Go Regular. gg draws text untransformed, so the anchor is
// mapped here and the size scaled by the transform's average scale.
func (r *Renderer) Text(txt geom.Text, s style.Text, t *geom.Transform) {
	if txt.Content == "" || s.Color.IsTransparent() {
		return
	}
	pos, size := txt.Position, s.FontSize
	if t != nil {
		pos = t.Apply(pos)
		size *= math.Sqrt(math.Abs(t.A*t.E - t.B*t.D))
	}
	if size <= 0 {
		return
	}
	f, ok := r.face(size)
	if !ok {
		return
	}
	r.ctx.Push()
	defer r.ctx.Pop()
	r.ctx.SetFont(f)
	r.ctx.SetColor(s.Color)
	r.ctx.DrawString(txt.Content, pos.X, pos.Y)
}
