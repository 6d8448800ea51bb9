package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/element"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

var redFill = style.Shape{FillColor: style.Red, Stroke: style.Stroke{Color: style.Red, Width: 1}}

func scene(t *testing.T) []*element.Entity {
	t.Helper()
	r := element.MustBuildDefault(element.KindRectangle, "alice")
	m := r.Model.(*element.RectangleModel)
	m.Rectangle = geom.Rectangle{TopLeft: geom.Pt(10, 10), Width: 30, Height: 20}
	m.Style = redFill

	p := element.MustBuildDefault(element.KindFreeHand, "alice")
	pm := p.Model.(*element.PathModel)
	pm.Path.MoveTo(geom.Pt(50, 50))
	pm.Path.LineTo(geom.Pt(60, 55))
	pm.Path.Commands = append(pm.Path.Commands, geom.ArcTo{RadiusX: 5, RadiusY: 5, To: geom.Pt(60, 45)})

	txt := element.MustBuildDefault(element.KindText, "alice")
	txt.Model.(*element.TextModel).Content = "hello"
	return []*element.Entity{r, p, txt}
}

func opts() Options { return Options{Width: 64, Height: 64, Background: style.White} }

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, scene(t), opts()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_Pages(t *testing.T) {
	r := NewPDF(100, 100, style.Transparent)
	tr := geom.Scaling(2, 2)
	r.Circle(geom.Circle{Center: geom.Pt(10, 10), Radius: 5}, redFill, &tr)
	assert.Equal(t, 1, r.Pages())

	r.Clear()
	r.Ellipse(geom.Ellipse{Center: geom.Pt(10, 10), RadiusX: 5, RadiusY: 2}, style.DefaultShape(), nil)
	r.Segment(geom.Segment{Start: geom.Pt(0, 0), End: geom.Pt(5, 5)}, style.Preview(), nil)
	r.Polygon(geom.Polygon{Vertices: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}}, redFill, nil)
	assert.Equal(t, 2, r.Pages())
	assert.NoError(t, r.Document().Error())
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, scene(t), opts()))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, style.Red, style.FromColor(img.At(25, 20)))
	assert.Equal(t, style.White, style.FromColor(img.At(2, 60)))
}

func TestSVG(t *testing.T) {
	entities := scene(t)
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, entities, opts()))
	out := buf.String()
	for _, e := range entities {
		assert.Contains(t, out, `id="`+e.HTMLID()+`"`)
	}
	assert.Contains(t, out, `<rect`)
	assert.Contains(t, out, `<path`)
	assert.Contains(t, out, `>hello</text>`)
}

func TestRasterizeSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, scene(t), opts()))

	img, err := RasterizeSVG(&buf, 64, 64, style.White)
	require.NoError(t, err)
	c := style.FromColor(img.At(25, 20))
	assert.Greater(t, c.R, uint8(200))
	assert.Less(t, c.G, uint8(50))
	assert.Equal(t, style.White, style.FromColor(img.At(2, 60)))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"board.pdf", "board.png", "board.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, scene(t), opts()), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), name)
	}

	err := WriteFile(filepath.Join(dir, "board.bmp"), nil, opts())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported"))

	assert.Error(t, PDF(&bytes.Buffer{}, nil, Options{}))
}
