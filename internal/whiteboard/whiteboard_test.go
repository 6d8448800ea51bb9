package whiteboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/element"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/render/raster"
	"LocalBoard/internal/render/svg"
	"LocalBoard/internal/style"
	"LocalBoard/internal/tool"
)

func drawRectangle(t *testing.T, w *Whiteboard) *element.Entity {
	t.Helper()
	before := w.ViewPort().Len()
	require.NoError(t, w.ActivateMoveDraw(element.KindRectangle))
	w.MouseDown(10, 10)
	w.MouseMove(40, 30)
	w.MouseUp(40, 30)
	es := w.Entities()
	require.Len(t, es, before+1, "installed when MouseUp returns")
	return es[len(es)-1]
}

func TestWhiteboard_DrawRectangle(t *testing.T) {
	w := New("alice")
	defer w.Close()

	e := drawRectangle(t, w)
	assert.Equal(t, "alice", e.ID.Owner)
	assert.Equal(t, element.KindRectangle, e.ID.Kind)
	m := e.Model.(*element.RectangleModel)
	assert.Equal(t, geom.Rectangle{TopLeft: geom.Pt(10, 10), Width: 30, Height: 20}, m.Rectangle)
}

func TestWhiteboard_DrawInvertedRectangle(t *testing.T) {
	w := New("alice")
	defer w.Close()

	require.NoError(t, w.ActivateMoveDraw(element.KindRectangle))
	w.MouseDown(50, 50)
	w.MouseMove(20, 10)
	w.MouseUp(20, 10)
	require.Equal(t, 1, w.ViewPort().Len())

	m := w.Entities()[0].Model.(*element.RectangleModel)
	assert.Equal(t, geom.Rectangle{TopLeft: geom.Pt(20, 10), Width: 30, Height: 40}, m.Rectangle)
}

func TestWhiteboard_PolygonWithEnter(t *testing.T) {
	w := New("alice")
	defer w.Close()

	require.NoError(t, w.ActivateClickDraw(element.KindPolygon))
	w.MouseDown(0, 0)
	w.MouseDown(10, 0)
	w.MouseDown(10, 10)
	w.KeyDown("Enter")
	require.Equal(t, 1, w.ViewPort().Len())

	m := w.Entities()[0].Model.(*element.PolygonModel)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}, m.Vertices)
}

func TestWhiteboard_EscAborts(t *testing.T) {
	w := New("alice")
	defer w.Close()

	require.NoError(t, w.ActivateMoveDraw(element.KindRectangle))
	w.MouseDown(10, 10)
	w.MouseMove(40, 30)
	w.KeyDown("Escape")
	w.MouseUp(40, 30)

	tl, ok := w.ViewPort().ActiveTool().(*tool.MoveDrawTool)
	require.True(t, ok)
	assert.False(t, tl.Dragging())
	w.Close()
	assert.Zero(t, w.ViewPort().Len())
}

func TestWhiteboard_SelectAndDelete(t *testing.T) {
	w := New("alice")
	defer w.Close()

	require.NoError(t, w.ActivateMoveDraw(element.KindRectangle))
	w.MouseDown(10, 10)
	w.MouseMove(40, 30)
	w.MouseUp(40, 30)
	w.ActivateSelectTool()
	w.MouseDown(15, 15)

	sel, ok := w.ViewPort().ActiveTool().(*tool.SelectTool)
	require.True(t, ok)
	_, selected := sel.Selected()
	require.True(t, selected)

	w.MouseUp(15, 15)
	w.KeyDown("Delete")
	assert.Zero(t, w.ViewPort().Len())
	w.Close()
	assert.Zero(t, w.ViewPort().Len())
}

func TestWhiteboard_SelectAndDrag(t *testing.T) {
	w := New("alice")
	defer w.Close()

	drawRectangle(t, w)
	w.ActivateSelectTool()
	w.MouseDown(15, 15)
	w.MouseMove(25, 35)
	w.MouseUp(25, 35)

	es := w.Entities()
	require.Len(t, es, 1)
	assert.Equal(t, geom.Pt(20, 30), es[0].Model.(*element.RectangleModel).TopLeft)
}

func TestWhiteboard_NudgeDistance(t *testing.T) {
	w := New("alice", WithNudgeDistance(5))
	defer w.Close()

	drawRectangle(t, w)
	w.ActivateSelectTool()
	w.MouseDown(15, 15)
	w.MouseUp(15, 15)
	w.KeyDown("ArrowUp")
	w.KeyDown("ArrowRight")

	m := w.Entities()[0].Model.(*element.RectangleModel)
	assert.Equal(t, geom.Pt(15, 5), m.TopLeft)
}

func TestWhiteboard_RetainedSVG(t *testing.T) {
	w := New("alice")
	defer w.Close()

	e := drawRectangle(t, w)
	r := svg.New()
	require.True(t, w.RenderSVG(r))

	rects := r.Root().FindAll("rect")
	require.Len(t, rects, 1)
	assert.Equal(t, fmt.Sprintf("alice-%d", e.ID.Index), rects[0].ID())
	for k, v := range map[string]string{"x": "10", "y": "10", "width": "30", "height": "20"} {
		assert.Equal(t, v, rects[0].Attrs[k], k)
	}

	w.MouseDown(100, 100)
	w.MouseMove(120, 130)
	require.True(t, w.RenderSVG(r))
	rects = r.Root().FindAll("rect")
	require.Len(t, rects, 2)
	assert.Equal(t, "20", rects[1].Attrs["width"])

	w.MouseMove(150, 130)
	require.True(t, w.RenderSVG(r))
	rects = r.Root().FindAll("rect")
	require.Len(t, rects, 2)
	assert.Equal(t, "50", rects[1].Attrs["width"])
}

func TestWhiteboard_RenderPaintsOverlayLast(t *testing.T) {
	w := New("alice")
	defer w.Close()

	drawRectangle(t, w)
	w.MouseDown(100, 100)
	w.MouseMove(120, 130)

	rec := render.NewRecorder()
	require.True(t, w.Render(rec))
	cmds := rec.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, geom.Pt(100, 100), cmds[1].Shape.(geom.Rectangle).TopLeft)
}

func TestWhiteboard_RenderCanvas(t *testing.T) {
	w := New("alice", WithStyle(style.Shape{
		FillColor: style.Red,
		Stroke:    style.Stroke{Color: style.Red, Width: 1},
	}))
	defer w.Close()

	drawRectangle(t, w)
	r := raster.New(64, 64, style.White)
	defer r.Close()
	require.True(t, w.RenderCanvas(r))
	assert.Equal(t, style.Red, style.FromColor(r.Image().At(25, 20)))
	assert.Equal(t, style.White, style.FromColor(r.Image().At(60, 60)))
}

func TestWhiteboard_SetStyle(t *testing.T) {
	w := New("alice")
	defer w.Close()

	require.NoError(t, w.ActivateMoveDraw(element.KindFreeHand))
	s := style.DefaultShape()
	s.Stroke.Color = style.Blue
	s.Stroke.Width = 5
	w.SetStyle(s)
	assert.Equal(t, s, w.Style())

	w.MouseDown(0, 0)
	w.MouseMove(5, 5)
	w.MouseUp(5, 5)
	require.Equal(t, 1, w.ViewPort().Len())
	assert.Equal(t, s, w.Entities()[0].Model.(*element.PathModel).Style)
}

func TestWhiteboard_UnknownKeysAndTools(t *testing.T) {
	w := New("alice")
	defer w.Close()

	assert.Error(t, w.ActivateMoveDraw(element.KindPolygon))
	assert.Error(t, w.ActivateClickDraw(element.KindRectangle))
	assert.NotPanics(t, func() {
		w.KeyDown("F13")
		w.MouseDown(1, 1)
	})
}

func TestWhiteboard_SnapshotLoad(t *testing.T) {
	w := New("alice")
	defer w.Close()
	drawRectangle(t, w)

	data, err := w.Snapshot()
	require.NoError(t, err)

	other := New("bob")
	defer other.Close()
	require.NoError(t, other.Load(data))
	require.Len(t, other.Entities(), 1)
	assert.Equal(t, w.Entities()[0].ID, other.Entities()[0].ID)

	again, err := other.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestWhiteboard_LoadPartial(t *testing.T) {
	w := New("alice")
	defer w.Close()

	good, err := element.MarshalEntity(element.MustBuildDefault(element.KindRectangle, "x"))
	require.NoError(t, err)
	data := []byte(`[` + string(good) + `, {"id": {"owner_id": "x"}}]`)

	err = w.Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, element.ErrParse)
	assert.Equal(t, 1, w.ViewPort().Len())

	assert.Error(t, w.Load([]byte(`{`)))
}

func TestWhiteboard_EmptySnapshot(t *testing.T) {
	w := New("")
	defer w.Close()
	assert.NotEmpty(t, w.Owner())

	data, err := w.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestWhiteboard_Clear(t *testing.T) {
	w := New("alice")
	defer w.Close()

	drawRectangle(t, w)
	w.Clear()
	assert.Empty(t, w.Entities())
}
