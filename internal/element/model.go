package element

import (
	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

// Model is the shape data of an entity. Implementations are the pointer
// types below; the kind of an entity's id always matches its model.
type Model interface {
	Kind() Kind
	clone() Model
}

// RectangleModel is an axis-aligned rectangle. Width and Height can be
// negative while the rectangle is being dragged.
type RectangleModel struct {
	geom.Rectangle
	Style style.Shape `json:"style"`
}

// PolygonModel is a closed polygon.
type PolygonModel struct {
	geom.Polygon
	Style style.Shape `json:"style"`
}

// PathModel is a free-hand path.
type PathModel struct {
	Path  geom.Path   `json:"commands"`
	Style style.Shape `json:"style"`
}

// TextModel is a single line of text anchored at the left of its baseline.
type TextModel struct {
	geom.Text
	Style style.Text `json:"style"`
}

// ContainerModel groups child entities. Children paint in order.
type ContainerModel struct {
	Children []*Entity `json:"children"`
}

func (*RectangleModel) Kind() Kind { return KindRectangle }
func (*PolygonModel) Kind() Kind   { return KindPolygon }
func (*PathModel) Kind() Kind      { return KindFreeHand }
func (*TextModel) Kind() Kind      { return KindText }
func (*ContainerModel) Kind() Kind { return KindContainer }

func (m *RectangleModel) clone() Model {
	c := *m
	c.Style = m.Style.Clone()
	return &c
}

func (m *PolygonModel) clone() Model {
	c := *m
	c.Vertices = append([]geom.Point(nil), m.Vertices...)
	c.Style = m.Style.Clone()
	return &c
}

func (m *PathModel) clone() Model {
	c := *m
	c.Path.Commands = append([]geom.Command(nil), m.Path.Commands...)
	c.Style = m.Style.Clone()
	return &c
}

func (m *TextModel) clone() Model {
	c := *m
	return &c
}

func (m *ContainerModel) clone() Model {
	c := &ContainerModel{Children: make([]*Entity, len(m.Children))}
	for i, child := range m.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

// newModel returns an empty model of kind k, or nil for an unknown kind.
func newModel(k Kind) Model {
	switch k {
	case KindRectangle:
		return &RectangleModel{Style: style.DefaultShape()}
	case KindPolygon:
		return &PolygonModel{Polygon: geom.Polygon{Vertices: []geom.Point{}}, Style: style.DefaultShape()}
	case KindFreeHand:
		return &PathModel{Style: style.DefaultShape()}
	case KindText:
		return &TextModel{Style: style.DefaultText()}
	case KindContainer:
		return &ContainerModel{}
	}
	return nil
}
