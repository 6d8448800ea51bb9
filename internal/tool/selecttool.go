package tool

import (
	"go.uber.org/zap"

	"LocalBoard/internal/element"
	"LocalBoard/internal/event"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
)

// DefaultDragThreshold is how far, in board units, a pressed pointer must
// travel before the select tool starts moving the entity.
const DefaultDragThreshold = 3

type selectState uint8

const (
	selectIdle selectState = iota
	selectPressed
	selectMoving
)

// SelectTool picks the front-most entity under the pointer, moves it by
// dragging, nudges it with the arrow keys and removes it with Delete or
// Backspace. It stores only the id of the selection.
type SelectTool struct {
	opts  options
	scene Scene

	sender   *event.Sender[Event]
	receiver *event.Receiver[Event]

	state     selectState
	selected  *element.ID
	pressAt   geom.Point
	lastPoint geom.Point
}

// NewSelect returns an idle select tool. It does nothing until attached to a
// scene.
func NewSelect(opts ...Option) *SelectTool {
	s, r := event.New[Event]()
	return &SelectTool{opts: buildOptions(opts), sender: s, receiver: r}
}

// Attach implements SceneAware.
func (t *SelectTool) Attach(s Scene) { t.scene = s }

// Selected returns the id of the selected entity.
func (t *SelectTool) Selected() (element.ID, bool) {
	if t.selected == nil {
		return element.ID{}, false
	}
	return *t.selected, true
}

// Idle reports whether no press is in progress.
func (t *SelectTool) Idle() bool { return t.state == selectIdle }

func (t *SelectTool) Interact(i Interaction) {
	switch i := i.(type) {
	case PointerDown:
		t.selected = nil
		t.state = selectIdle
		if t.scene == nil {
			return
		}
		e, ok := t.scene.EntityAt(i.Point)
		if !ok {
			return
		}
		id := e.ID
		t.selected = &id
		t.state = selectPressed
		t.pressAt, t.lastPoint = i.Point, i.Point

	case PointerMove:
		switch t.state {
		case selectPressed:
			if i.Point.DistanceTo(t.pressAt) <= t.opts.dragThreshold {
				return
			}
			t.state = selectMoving
			t.send(Translate{ID: *t.selected, Delta: i.Point.Sub(t.pressAt)})
			t.lastPoint = i.Point
		case selectMoving:
			d := i.Point.Sub(t.lastPoint)
			if d.IsZero() {
				return
			}
			t.send(Translate{ID: *t.selected, Delta: d})
			t.lastPoint = i.Point
		}

	case PointerUp:
		t.state = selectIdle

	case KeyDown:
		if t.state != selectIdle || t.selected == nil {
			return
		}
		switch i.Key {
		case KeyDelete, KeyBackspace:
			t.send(Remove{ID: *t.selected})
			t.selected = nil
		case KeyEsc:
			t.selected = nil
		default:
			if d, ok := i.Key.arrow(); ok {
				t.send(Translate{ID: *t.selected, Delta: geom.Vector{DX: d.DX * t.opts.nudgeDistance, DY: d.DY * t.opts.nudgeDistance}})
			}
		}
	}
}

func (t *SelectTool) send(e Event) {
	if err := t.sender.Send(e); err != nil {
		logging.L().Named("tool").Warn("select event dropped", zap.Error(err))
	}
}

// Render outlines the selection with a dashed bounding box.
func (t *SelectTool) Render(r render.Renderer) {
	if t.selected == nil || t.scene == nil {
		return
	}
	e, ok := t.scene.Entity(*t.selected)
	if !ok {
		return
	}
	b, ok := e.Bounds()
	if !ok {
		return
	}
	r.Rectangle(b.Inset(-2), t.opts.previewStyle, nil)
}

func (t *SelectTool) InProgress() []*element.Entity { return nil }

func (t *SelectTool) Events() *event.Receiver[Event] { return t.receiver }

func (t *SelectTool) Close() { t.sender.Close() }
