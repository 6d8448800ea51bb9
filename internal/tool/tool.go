package tool

import (
	"LocalBoard/internal/element"
	"LocalBoard/internal/event"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/style"
)

// Tool is an interaction state machine. Interact and Render are called by the
// view port with its lock held, never concurrently.
type Tool interface {
	Interact(i Interaction)
	// Render paints the tool's overlay: in-progress shapes, previews and
	// selection outlines.
	Render(r render.Renderer)
	// InProgress returns the entities the tool is currently drawing.
	InProgress() []*element.Entity
	Events() *event.Receiver[Event]
	// Close closes the event sender. Queued events are still delivered.
	Close()
}

// Scene is the read-only view of installed entities a tool may consult.
type Scene interface {
	// EntityAt returns the front-most entity hit at p.
	EntityAt(p geom.Point) (*element.Entity, bool)
	Entity(id element.ID) (*element.Entity, bool)
}

// SceneAware tools are bound to the view port's scene on activation.
type SceneAware interface {
	Attach(s Scene)
}

// Option configures a drawing tool.
type Option func(*options)

type options struct {
	style         *style.Shape
	dragThreshold float64
	previewStyle  style.Shape
	nudgeDistance float64
}

func defaultOptions() options {
	return options{
		dragThreshold: DefaultDragThreshold,
		previewStyle:  style.Preview(),
		nudgeDistance: 1,
	}
}

// WithStyle applies s to every shape the tool creates.
func WithStyle(s style.Shape) Option {
	return func(o *options) {
		c := s.Clone()
		o.style = &c
	}
}

// WithDragThreshold sets the distance a pressed pointer must travel before
// the select tool starts moving the entity.
func WithDragThreshold(d float64) Option {
	return func(o *options) {
		if d >= 0 {
			o.dragThreshold = d
		}
	}
}

// WithNudgeDistance sets how far an arrow key moves the selection.
func WithNudgeDistance(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.nudgeDistance = d
		}
	}
}

// WithPreviewStyle sets the style of rubber bands and selection outlines.
func WithPreviewStyle(s style.Shape) Option {
	return func(o *options) { o.previewStyle = s.Clone() }
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
