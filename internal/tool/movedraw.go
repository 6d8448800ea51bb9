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

// MoveDrawTool creates shapes by dragging: press to start, move to size,
// release to finish. Used for rectangles and free-hand paths.
type MoveDrawTool struct {
	kind  element.Kind
	owner string
	opts  options

	sender   *event.Sender[Event]
	receiver *event.Receiver[Event]

	// non-nil while dragging
	drawing *element.Entity
	anchor  geom.Point
}

// NewMoveDraw returns a move-draw tool for kind. The kind must support
// drag creation.
func NewMoveDraw(kind element.Kind, owner string, opts ...Option) (*MoveDrawTool, error) {
	probe, err := element.BuildDefault(kind, owner)
	if err != nil {
		return nil, err
	}
	if _, ok := element.Query[element.MoveDraw](probe); !ok {
		return nil, fmt.Errorf("%s cannot be drawn by dragging", kind)
	}
	s, r := event.New[Event]()
	return &MoveDrawTool{
		kind:     kind,
		owner:    owner,
		opts:     buildOptions(opts),
		sender:   s,
		receiver: r,
	}, nil
}

// Dragging reports whether a shape is in progress.
func (t *MoveDrawTool) Dragging() bool { return t.drawing != nil }

func (t *MoveDrawTool) Interact(i Interaction) {
	switch i := i.(type) {
	case PointerDown:
		if t.drawing != nil {
			return
		}
		e, err := element.BuildDefault(t.kind, t.owner)
		if err != nil {
			logging.L().Named("tool").Error("build entity", zap.Error(err))
			return
		}
		if t.opts.style != nil {
			e.SetShapeStyle(*t.opts.style)
		}
		md, _ := element.Query[element.MoveDraw](e)
		md.Begin(e, i.Point)
		t.drawing, t.anchor = e, i.Point

	case PointerMove:
		if t.drawing == nil {
			return
		}
		md, _ := element.Query[element.MoveDraw](t.drawing)
		md.Drag(t.drawing, t.anchor, i.Point)

	case PointerUp:
		if t.drawing == nil {
			return
		}
		e := t.drawing
		t.drawing = nil
		md, _ := element.Query[element.MoveDraw](e)
		md.Finish(e)
		t.emit(e)

	case KeyDown:
		if i.Key == KeyEsc && t.drawing != nil {
			logging.L().Named("tool").Debug("drawing discarded", zap.Stringer("id", t.drawing))
			t.drawing = nil
		}
	}
}

func (t *MoveDrawTool) emit(e *element.Entity) {
	if err := t.sender.Send(FinishDrawing{Entity: e}); err != nil {
		logging.L().Named("tool").Warn("finish drawing dropped", zap.Stringer("id", e), zap.Error(err))
	}
}

func (t *MoveDrawTool) Render(r render.Renderer) {
	if t.drawing != nil {
		t.drawing.Paint(r, nil)
	}
}

func (t *MoveDrawTool) InProgress() []*element.Entity {
	if t.drawing == nil {
		return nil
	}
	return []*element.Entity{t.drawing}
}

func (t *MoveDrawTool) Events() *event.Receiver[Event] { return t.receiver }

func (t *MoveDrawTool) Close() { t.sender.Close() }
