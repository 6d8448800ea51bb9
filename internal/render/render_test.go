package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

func TestRecorder_ClearDiscardsPriorPaint(t *testing.T) {
	r := NewRecorder()
	s := style.DefaultShape()
	r.Rectangle(geom.Rectangle{Width: 1, Height: 1}, s, nil)
	r.Clear()
	r.Circle(geom.Circle{Radius: 2}, s, nil)
	r.Text(geom.Text{Content: "hi"}, style.DefaultText(), nil)

	assert.Equal(t, []CommandType{CmdCircle, CmdText}, r.Types())
	assert.Equal(t, 1, r.Clears())
	assert.Equal(t, "Circle", CmdCircle.String())
}

func TestRecorder_Replay(t *testing.T) {
	src := NewRecorder()
	tr := geom.Translation(1, 2)
	s := style.DefaultShape()
	src.Polygon(geom.Polygon{Vertices: []geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(0, 1)}}, s, &tr)
	src.Segment(geom.Segment{End: geom.Pt(3, 3)}, s, nil)
	src.Ellipse(geom.Ellipse{RadiusX: 1, RadiusY: 2}, s, nil)

	dst := NewRecorder()
	src.Replay(dst)

	if diff := cmp.Diff(src.Commands(), dst.Commands()); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, dst.Clears())
}

func TestTransformed(t *testing.T) {
	rec := NewRecorder()
	outer := geom.Translation(10, 0)
	r := WithTransform(rec, &outer)

	inner := geom.Scaling(2, 2)
	r.Rectangle(geom.Rectangle{Width: 1, Height: 1}, style.DefaultShape(), &inner)
	r.Path(geom.Path{}, style.DefaultShape(), nil)

	cmds := rec.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, geom.Pt(12, 2), cmds[0].Transform.Apply(geom.Pt(1, 1)))
	assert.Equal(t, outer, *cmds[1].Transform)

	assert.Same(t, rec, WithTransform(rec, nil))
	id := geom.Identity()
	assert.Same(t, rec, WithTransform(rec, &id))
}

func TestShapeCSS(t *testing.T) {
	s := style.Shape{
		FillColor: style.Color{R: 255, A: 128},
		Stroke:    style.Stroke{Color: style.Black, Width: 2, DashArray: []float64{4, 1}},
	}
	want := map[string]string{
		"fill":             "#ff0000",
		"fill-opacity":     geom.FormatFloat(128.0 / 255),
		"stroke":           "#000000",
		"stroke-width":     "2",
		"stroke-dasharray": "4 1",
	}
	if diff := cmp.Diff(want, ShapeCSS(s)); diff != "" {
		t.Errorf("ShapeCSS mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "none", ShapeCSS(style.DefaultShape())["fill"])
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "0,0 10.5,0 5,-3", FormatPoints([]geom.Point{geom.Pt(0, 0), geom.Pt(10.5, 0), geom.Pt(5, -3)}))
	assert.Equal(t, "", FormatPoints(nil))
}

func TestSVGElement_With(t *testing.T) {
	tr := geom.Translation(1, 1)
	e := Styled(Circle{Circle: geom.Circle{Radius: 3}}, style.DefaultShape()).
		WithAttr("data-kind", "dot").
		WithTransform(&tr).
		WithCSS("cursor", "move")

	assert.Equal(t, "circle", e.Shape.Tag())
	assert.Equal(t, "dot", e.Attrs["data-kind"])
	assert.Equal(t, "matrix(1 0 0 1 1 1)", e.Attrs["transform"])
	assert.Equal(t, "move", e.CSS["cursor"])
}
