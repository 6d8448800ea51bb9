package element

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/style"
)

func TestGenerate_Unique(t *testing.T) {
	const workers, perWorker = 8, 200

	var mu sync.Mutex
	seen := make(map[ID]bool, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, Generate("alice", KindRectangle))
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				assert.False(t, seen[id], "duplicate id %s", id)
				seen[id] = true
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}

func TestID_Forms(t *testing.T) {
	id := ID{Owner: "alice", Index: 42, Kind: KindPolygon}
	assert.Equal(t, "alice_42", id.String())
	assert.Equal(t, "alice-42", id.HTMLID())
	assert.NotEqual(t, id, ID{Owner: "alice", Index: 42, Kind: KindRectangle})

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner_id":"alice","index":42,"element_type":"Polygon"}`, string(data))
}

func TestObserve(t *testing.T) {
	loaded := ID{Owner: "bob", Index: clock.Load() + 1000, Kind: KindText}
	Observe(loaded)
	next := Generate("bob", KindText)
	assert.Greater(t, next.Index, loaded.Index)

	// observing an older index never moves the clock back
	Observe(ID{Index: 1})
	assert.Greater(t, Generate("bob", KindText).Index, next.Index)
}

func TestKind_Parse(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("Circle")
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	e := MustBuildDefault(KindRectangle, "alice")

	_, ok := Query[Render](e)
	assert.True(t, ok)
	_, ok = Query[ClickDraw](e)
	assert.False(t, ok, "rectangles are drawn by dragging")

	calls := 0
	register(e, HitTest{Hit: func(*Entity, geom.Point) bool { calls++; return true }})
	assert.True(t, e.Hit(geom.Pt(1000, 1000)), "re-registration replaces")
	assert.Equal(t, 1, calls)

	h, ok := Query[HitTest](nil)
	assert.False(t, ok)
	assert.Nil(t, h.Hit)
}

func TestBuildDefault(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			e, err := BuildDefault(k, "alice")
			require.NoError(t, err)
			assert.Equal(t, k, e.ID.Kind)
			assert.Equal(t, k, e.Model.Kind())
			assert.Equal(t, "alice", e.ID.Owner)
			for _, present := range []bool{has[Render](e), has[ToSVG](e), has[HitTest](e), has[Translate](e)} {
				assert.True(t, present)
			}
		})
	}

	r := MustBuildDefault(KindRectangle, "alice").Model.(*RectangleModel)
	assert.Equal(t, geom.Rectangle{}, r.Rectangle)
	assert.Equal(t, style.DefaultShape(), r.Style)

	_, err := BuildDefault(Kind(99), "alice")
	assert.Error(t, err)
}

func has[C any](e *Entity) bool {
	_, ok := Query[C](e)
	return ok
}

func sampleEntities(t *testing.T) []*Entity {
	t.Helper()
	rect := MustBuildDefault(KindRectangle, "alice")
	rect.Model.(*RectangleModel).Rectangle = geom.Rectangle{TopLeft: geom.Pt(10, 20), Width: 30, Height: 40}
	rect.Model.(*RectangleModel).Style.FillColor = style.Yellow

	poly := MustBuildDefault(KindPolygon, "alice")
	poly.Model.(*PolygonModel).Vertices = []geom.Point{geom.Pt(0, 0), geom.Pt(5, 0), geom.Pt(0, 5)}

	path := MustBuildDefault(KindFreeHand, "alice")
	path.Model.(*PathModel).Path = geom.Path{Commands: []geom.Command{
		geom.MoveTo{To: geom.Pt(1, 1)},
		geom.LineTo{To: geom.Pt(2, 2)},
		geom.BezierTo{Control1: geom.Pt(3, 3), Control2: geom.Pt(4, 4), To: geom.Pt(5, 5)},
	}}

	text := MustBuildDefault(KindText, "bob")
	text.Model.(*TextModel).Text = geom.Text{Position: geom.Pt(7, 8), Content: "hello"}

	group := MustBuildDefault(KindContainer, "bob")
	group.Model.(*ContainerModel).Children = []*Entity{rect.Clone(), text.Clone()}

	return []*Entity{rect, poly, path, text, group}
}

func TestJSON_RoundTrip(t *testing.T) {
	for _, e := range sampleEntities(t) {
		t.Run(e.ID.Kind.String(), func(t *testing.T) {
			data, err := MarshalEntity(e)
			require.NoError(t, err)

			got, err := BuildFromJSON(data)
			require.NoError(t, err)
			assert.Equal(t, e.ID, got.ID)

			again, err := MarshalEntity(got)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))

			wantSVG, _ := e.SVG()
			gotSVG, ok := got.SVG()
			require.True(t, ok, "capabilities installed after decoding")
			if diff := cmp.Diff(wantSVG, gotSVG); diff != "" {
				t.Errorf("svg mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSON_Format(t *testing.T) {
	e := &Entity{
		ID: ID{Owner: "alice", Index: 3, Kind: KindRectangle},
		Model: &RectangleModel{
			Rectangle: geom.Rectangle{TopLeft: geom.Pt(1, 2), Width: 3, Height: 4},
			Style:     style.DefaultShape(),
		},
	}
	data, err := MarshalEntity(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": {"owner_id": "alice", "index": 3, "element_type": "Rectangle"},
		"model": {
			"top_left": {"x": 1, "y": 2}, "width": 3, "height": 4,
			"style": {"fill_color": "#00000000", "stroke": {"color": "#000000", "width": 1}}
		}
	}`, string(data))
}

func TestBuildFromJSON_Errors(t *testing.T) {
	tests := map[string]string{
		"kind mismatch": `{"id":{"owner_id":"a","index":1,"element_type":"Polygon"},
			"model":{"top_left":{"x":0,"y":0},"width":1,"height":1,"style":{"fill_color":"#000","stroke":{"color":"#000","width":1}}}}`,
		"unknown kind":  `{"id":{"owner_id":"a","index":1,"element_type":"Circle"},"model":{}}`,
		"missing model": `{"id":{"owner_id":"a","index":1,"element_type":"Text"}}`,
		"bad child": `{"id":{"owner_id":"a","index":1,"element_type":"Container"},
			"model":{"children":[{"id":{"owner_id":"a","index":2,"element_type":"Text"},"model":{"radius":3}}]}}`,
		"unknown path field": `{"id":{"owner_id":"a","index":1,"element_type":"FreeHand"},
			"model":{"commands":[{"type":"move_to","to":{"x":0,"y":0},"vertices":[1]}],"style":{"fill_color":"#000","stroke":{"color":"#000","width":1}}}}`,
		"not json": `{`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := BuildFromJSON([]byte(in))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestStandard_Rectangle(t *testing.T) {
	e := MustBuildDefault(KindRectangle, "alice")
	md, ok := Query[MoveDraw](e)
	require.True(t, ok)

	md.Begin(e, geom.Pt(50, 50))
	md.Drag(e, geom.Pt(50, 50), geom.Pt(20, 10))
	m := e.Model.(*RectangleModel)
	assert.Equal(t, -30.0, m.Width)
	md.Finish(e)
	assert.Equal(t, geom.Rectangle{TopLeft: geom.Pt(20, 10), Width: 30, Height: 40}, m.Rectangle)

	assert.True(t, e.Hit(geom.Pt(30, 30)))
	assert.True(t, e.Hit(geom.Pt(17, 30)), "within tolerance")
	assert.False(t, e.Hit(geom.Pt(100, 100)))

	e.Move(geom.Vector{DX: 5, DY: -5})
	assert.Equal(t, geom.Pt(25, 5), m.TopLeft)

	rec := render.NewRecorder()
	e.Paint(rec, nil)
	require.Len(t, rec.Commands(), 1)
	assert.Equal(t, render.CmdRectangle, rec.Commands()[0].Type)
}

func TestStandard_PolygonAndPath(t *testing.T) {
	poly := MustBuildDefault(KindPolygon, "alice")
	cd, ok := Query[ClickDraw](poly)
	require.True(t, ok)
	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(20, 0), geom.Pt(20, 20)} {
		cd.AddVertex(poly, p)
	}
	assert.True(t, poly.Hit(geom.Pt(15, 5)))
	assert.False(t, poly.Hit(geom.Pt(0, 20)))
	b, ok := poly.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.Rectangle{Width: 20, Height: 20}, b)

	path := MustBuildDefault(KindFreeHand, "alice")
	md, ok := Query[MoveDraw](path)
	require.True(t, ok)
	md.Begin(path, geom.Pt(0, 0))
	md.Drag(path, geom.Pt(0, 0), geom.Pt(10, 0))
	md.Drag(path, geom.Pt(0, 0), geom.Pt(10, 10))
	md.Finish(path)
	assert.Equal(t, "M 0 0 L 10 0 L 10 10", path.Model.(*PathModel).Path.SVGData())
	assert.True(t, path.Hit(geom.Pt(5, 2)))
	assert.False(t, path.Hit(geom.Pt(2, 8)))
}

func TestStandard_Container(t *testing.T) {
	es := sampleEntities(t)
	group := es[4]

	assert.True(t, group.Hit(geom.Pt(20, 30)))
	group.Move(geom.Vector{DX: 1, DY: 1})
	kids := group.Model.(*ContainerModel).Children
	assert.Equal(t, geom.Pt(11, 21), kids[0].Model.(*RectangleModel).TopLeft)
	assert.Equal(t, geom.Pt(10, 20), es[0].Model.(*RectangleModel).TopLeft, "children are clones")

	el, ok := group.SVG()
	require.True(t, ok)
	g, ok := el.Shape.(render.Group)
	require.True(t, ok)
	require.Len(t, g.Children, 2)
	assert.Equal(t, kids[0].HTMLID(), g.Children[0].Attrs["id"])

	rec := render.NewRecorder()
	group.Paint(rec, nil)
	assert.Equal(t, []render.CommandType{render.CmdRectangle, render.CmdText}, rec.Types())
}

func TestClone_Independent(t *testing.T) {
	e := sampleEntities(t)[1]
	c := e.Clone()
	c.Move(geom.Vector{DX: 100})
	assert.Equal(t, geom.Pt(0, 0), e.Model.(*PolygonModel).Vertices[0])
	assert.Equal(t, geom.Pt(100, 0), c.Model.(*PolygonModel).Vertices[0])
}
