package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/element"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/style"
)

func drain(t *testing.T, tl Tool) []Event {
	t.Helper()
	var out []Event
	for {
		ev, ok := tl.Events().TryRecv()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func down(x, y float64) PointerDown { return PointerDown{Point: geom.Pt(x, y)} }
func move(x, y float64) PointerMove { return PointerMove{Point: geom.Pt(x, y)} }
func up(x, y float64) PointerUp     { return PointerUp{Point: geom.Pt(x, y)} }

func TestParseKey(t *testing.T) {
	for name, want := range map[string]Key{
		"Escape": KeyEsc, "Enter": KeyEnter, "Backspace": KeyBackspace, "Delete": KeyDelete,
		"ArrowLeft": KeyArrowLeft, "ArrowUp": KeyArrowUp, "ArrowRight": KeyArrowRight, "ArrowDown": KeyArrowDown,
	} {
		got, ok := ParseKey(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}
	for _, name := range []string{"a", "Esc", "Shift", ""} {
		_, ok := ParseKey(name)
		assert.False(t, ok, name)
	}
}

func TestMoveDraw_Rectangle(t *testing.T) {
	tl, err := NewMoveDraw(element.KindRectangle, "alice")
	require.NoError(t, err)

	tl.Interact(down(50, 50))
	tl.Interact(move(20, 10))
	require.True(t, tl.Dragging())
	require.Len(t, tl.InProgress(), 1)
	assert.Equal(t, -30.0, tl.InProgress()[0].Model.(*element.RectangleModel).Width)

	tl.Interact(up(20, 10))
	assert.False(t, tl.Dragging())
	assert.Empty(t, tl.InProgress())

	events := drain(t, tl)
	require.Len(t, events, 1)
	fin, ok := events[0].(FinishDrawing)
	require.True(t, ok)
	assert.Equal(t, "alice", fin.Entity.ID.Owner)
	assert.Equal(t, geom.Rectangle{TopLeft: geom.Pt(20, 10), Width: 30, Height: 40},
		fin.Entity.Model.(*element.RectangleModel).Rectangle)
}

func TestMoveDraw_FreeHandWithStyle(t *testing.T) {
	s := style.DefaultShape()
	s.Stroke.Color = style.Red
	tl, err := NewMoveDraw(element.KindFreeHand, "alice", WithStyle(s))
	require.NoError(t, err)

	tl.Interact(down(0, 0))
	tl.Interact(move(1, 1))
	tl.Interact(move(2, 3))

	rec := render.NewRecorder()
	tl.Render(rec)
	assert.Equal(t, []render.CommandType{render.CmdPath}, rec.Types())

	tl.Interact(up(2, 3))
	events := drain(t, tl)
	require.Len(t, events, 1)
	m := events[0].(FinishDrawing).Entity.Model.(*element.PathModel)
	assert.Equal(t, "M 0 0 L 1 1 L 2 3", m.Path.SVGData())
	assert.Equal(t, style.Red, m.Style.Stroke.Color)
}

func TestMoveDraw_EscDiscards(t *testing.T) {
	for _, k := range []element.Kind{element.KindRectangle, element.KindFreeHand} {
		t.Run(k.String(), func(t *testing.T) {
			tl, err := NewMoveDraw(k, "alice")
			require.NoError(t, err)
			tl.Interact(down(10, 10))
			tl.Interact(move(40, 30))
			tl.Interact(KeyDown{Key: KeyEsc})
			assert.False(t, tl.Dragging())
			tl.Interact(up(40, 30))
			assert.Empty(t, drain(t, tl))
		})
	}
}

func TestMoveDraw_RejectsClickKinds(t *testing.T) {
	_, err := NewMoveDraw(element.KindPolygon, "alice")
	assert.Error(t, err)
	_, err = NewMoveDraw(element.KindText, "alice")
	assert.Error(t, err)
}

func TestClickDraw_Polygon(t *testing.T) {
	tl, err := NewClickDraw(element.KindPolygon, "alice")
	require.NoError(t, err)

	tl.Interact(down(0, 0))
	tl.Interact(down(10, 0))
	tl.Interact(move(12, 5))

	rec := render.NewRecorder()
	tl.Render(rec)
	require.Equal(t, []render.CommandType{render.CmdPolygon, render.CmdSegment}, rec.Types())
	band := rec.Commands()[1]
	assert.Equal(t, geom.Segment{Start: geom.Pt(10, 0), End: geom.Pt(12, 5)}, band.Shape)
	assert.True(t, band.ShapeStyle.Stroke.Dashed())

	tl.Interact(down(10, 10))
	tl.Interact(KeyDown{Key: KeyEnter})
	assert.False(t, tl.Placing())

	events := drain(t, tl)
	require.Len(t, events, 1)
	poly := events[0].(FinishDrawing).Entity.Model.(*element.PolygonModel)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}, poly.Vertices)
}

func TestClickDraw_EscDiscards(t *testing.T) {
	tl, err := NewClickDraw(element.KindPolygon, "alice")
	require.NoError(t, err)
	tl.Interact(down(0, 0))
	tl.Interact(down(5, 5))
	tl.Interact(KeyDown{Key: KeyEsc})
	assert.False(t, tl.Placing())
	tl.Interact(KeyDown{Key: KeyEnter})
	assert.Empty(t, drain(t, tl))

	_, err = NewClickDraw(element.KindRectangle, "alice")
	assert.Error(t, err)
}

type fakeScene struct {
	entities []*element.Entity
}

func (s *fakeScene) EntityAt(p geom.Point) (*element.Entity, bool) {
	for i := len(s.entities) - 1; i >= 0; i-- {
		if s.entities[i].Hit(p) {
			return s.entities[i], true
		}
	}
	return nil, false
}

func (s *fakeScene) Entity(id element.ID) (*element.Entity, bool) {
	for _, e := range s.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func rect(t *testing.T, x, y, w, h float64) *element.Entity {
	t.Helper()
	e := element.MustBuildDefault(element.KindRectangle, "alice")
	e.Model.(*element.RectangleModel).Rectangle = geom.Rectangle{TopLeft: geom.Pt(x, y), Width: w, Height: h}
	return e
}

func TestSelect_FrontToBack(t *testing.T) {
	back, front := rect(t, 0, 0, 100, 100), rect(t, 10, 10, 20, 20)
	tl := NewSelect()
	tl.Attach(&fakeScene{entities: []*element.Entity{back, front}})

	tl.Interact(down(15, 15))
	id, ok := tl.Selected()
	require.True(t, ok)
	assert.Equal(t, front.ID, id)

	tl.Interact(up(15, 15))
	tl.Interact(down(80, 80))
	id, _ = tl.Selected()
	assert.Equal(t, back.ID, id)

	tl.Interact(up(80, 80))
	tl.Interact(down(500, 500))
	_, ok = tl.Selected()
	assert.False(t, ok)
}

func TestSelect_DragThreshold(t *testing.T) {
	e := rect(t, 0, 0, 50, 50)
	tl := NewSelect()
	tl.Attach(&fakeScene{entities: []*element.Entity{e}})

	tl.Interact(down(10, 10))
	tl.Interact(move(12, 12)) // 2.83, below the threshold
	assert.Empty(t, drain(t, tl))

	tl.Interact(move(13, 10)) // exactly 3 does not start a move
	assert.Empty(t, drain(t, tl))

	tl.Interact(move(14, 10))
	tl.Interact(move(20, 15))
	tl.Interact(move(20, 15))
	tl.Interact(up(20, 15))
	assert.True(t, tl.Idle())

	assert.Equal(t, []Event{
		Translate{ID: e.ID, Delta: geom.Vector{DX: 4}},
		Translate{ID: e.ID, Delta: geom.Vector{DX: 6, DY: 5}},
	}, drain(t, tl))

	_, ok := tl.Selected()
	assert.True(t, ok, "selection survives pointer up")
}

func TestSelect_DeleteAndNudge(t *testing.T) {
	e := rect(t, 10, 10, 30, 20)
	tl := NewSelect()
	tl.Attach(&fakeScene{entities: []*element.Entity{e}})

	tl.Interact(KeyDown{Key: KeyDelete})
	assert.Empty(t, drain(t, tl), "nothing selected")

	tl.Interact(down(15, 15))
	tl.Interact(KeyDown{Key: KeyDelete})
	assert.Empty(t, drain(t, tl), "not idle while pressed")
	tl.Interact(up(15, 15))

	tl.Interact(KeyDown{Key: KeyArrowLeft})
	tl.Interact(KeyDown{Key: KeyArrowDown})
	tl.Interact(KeyDown{Key: KeyBackspace})
	tl.Interact(KeyDown{Key: KeyDelete})

	assert.Equal(t, []Event{
		Translate{ID: e.ID, Delta: geom.Vector{DX: -1}},
		Translate{ID: e.ID, Delta: geom.Vector{DY: 1}},
		Remove{ID: e.ID},
	}, drain(t, tl))
}

func TestSelect_NudgeDistance(t *testing.T) {
	e := rect(t, 10, 10, 30, 20)
	tl := NewSelect(WithNudgeDistance(10), WithNudgeDistance(-1))
	tl.Attach(&fakeScene{entities: []*element.Entity{e}})

	tl.Interact(down(15, 15))
	tl.Interact(up(15, 15))
	tl.Interact(KeyDown{Key: KeyArrowRight})
	assert.Equal(t, []Event{Translate{ID: e.ID, Delta: geom.Vector{DX: 10}}}, drain(t, tl))
}

func TestSelect_RenderOutline(t *testing.T) {
	e := rect(t, 10, 10, 30, 20)
	tl := NewSelect()
	tl.Attach(&fakeScene{entities: []*element.Entity{e}})

	rec := render.NewRecorder()
	tl.Render(rec)
	assert.Empty(t, rec.Commands())

	tl.Interact(down(15, 15))
	tl.Render(rec)
	require.Len(t, rec.Commands(), 1)
	cmd := rec.Commands()[0]
	assert.Equal(t, geom.Rectangle{TopLeft: geom.Pt(8, 8), Width: 34, Height: 24}, cmd.Shape)
	assert.True(t, cmd.ShapeStyle.Stroke.Dashed())
}

func TestSelect_Unattached(t *testing.T) {
	tl := NewSelect()
	tl.Interact(down(1, 1))
	_, ok := tl.Selected()
	assert.False(t, ok)
	tl.Close()
	tl.Interact(KeyDown{Key: KeyDelete})
}
