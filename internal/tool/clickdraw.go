package tool

import (
	"fmt"

	"go.uber.org/zap"

	"LocalBoard/internal/element"
	"LocalBoard/internal/event"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
)

// ClickDrawTool creates shapes one vertex per click. Enter finishes the
// shape, Esc drops it. Used for polygons.
type ClickDrawTool struct {
	kind  element.Kind
	owner string
	opts  options

	sender   *event.Sender[Event]
	receiver *event.Receiver[Event]

	// non-nil while placing
	drawing   *element.Entity
	lastPoint geom.Point
	preview   *geom.Point
}

// NewClickDraw returns a click-draw tool for kind. The kind must support
// vertex placement.
func NewClickDraw(kind element.Kind, owner string, opts ...Option) (*ClickDrawTool, error) {
	probe, err := element.BuildDefault(kind, owner)
	if err != nil {
		return nil, err
	}
	if _, ok := element.Query[element.ClickDraw](probe); !ok {
		return nil, fmt.Errorf("%s cannot be drawn by clicking", kind)
	}
	s, r := event.New[Event]()
	return &ClickDrawTool{
		kind:     kind,
		owner:    owner,
		opts:     buildOptions(opts),
		sender:   s,
		receiver: r,
	}, nil
}

// Placing reports whether a shape is in progress.
func (t *ClickDrawTool) Placing() bool { return t.drawing != nil }

func (t *ClickDrawTool) Interact(i Interaction) {
	switch i := i.(type) {
	case PointerDown:
		if t.drawing == nil {
			e, err := element.BuildDefault(t.kind, t.owner)
			if err != nil {
				logging.L().Named("tool").Error("build entity", zap.Error(err))
				return
			}
			if t.opts.style != nil {
				e.SetShapeStyle(*t.opts.style)
			}
			t.drawing = e
		}
		cd, _ := element.Query[element.ClickDraw](t.drawing)
		cd.AddVertex(t.drawing, i.Point)
		t.lastPoint = i.Point
		t.preview = nil

	case PointerMove:
		if t.drawing == nil {
			return
		}
		p := i.Point
		t.preview = &p

	case KeyDown:
		if t.drawing == nil {
			return
		}
		switch i.Key {
		case KeyEnter:
			e := t.drawing
			t.reset()
			if err := t.sender.Send(FinishDrawing{Entity: e}); err != nil {
				logging.L().Named("tool").Warn("finish drawing dropped", zap.Stringer("id", e), zap.Error(err))
			}
		case KeyEsc:
			logging.L().Named("tool").Debug("drawing discarded", zap.Stringer("id", t.drawing))
			t.reset()
		}
	}
}

func (t *ClickDrawTool) reset() {
	t.drawing = nil
	t.preview = nil
}

// Render paints the shape placed so far and a dashed rubber band from the
// last vertex to the pointer.
func (t *ClickDrawTool) Render(r render.Renderer) {
	if t.drawing == nil {
		return
	}
	t.drawing.Paint(r, nil)
	if t.preview != nil {
		r.Segment(geom.Segment{Start: t.lastPoint, End: *t.preview}, t.opts.previewStyle, nil)
	}
}

func (t *ClickDrawTool) InProgress() []*element.Entity {
	if t.drawing == nil {
		return nil
	}
	return []*element.Entity{t.drawing}
}

func (t *ClickDrawTool) Events() *event.Receiver[Event] { return t.receiver }

func (t *ClickDrawTool) Close() { t.sender.Close() }
