// Package render defines the drawing contract every backend implements.
//
// Immediate renderers (raster, PDF, SVG in immediate mode) are repainted from
// scratch each frame: Clear followed by one primitive per shape, in paint
// order. Incremental renderers keep a retained tree and accept per-entity
// deltas instead.
package render

import (
	"errors"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

var (
	// ErrNotFound is returned when an incremental update names an element
	// the renderer does not hold.
	ErrNotFound = errors.New("render: element not found")
	// ErrUnsupported is returned by backends for primitives they cannot draw.
	ErrUnsupported = errors.New("render: unsupported primitive")
)

// Renderer is an immediate-mode 2D drawing surface. Calls never fail; a
// backend that cannot honour a call logs it and carries on. A nil transform
// means identity.
type Renderer interface {
	Clear()
	Path(p geom.Path, s style.Shape, t *geom.Transform)
	Segment(seg geom.Segment, s style.Shape, t *geom.Transform)
	Polygon(p geom.Polygon, s style.Shape, t *geom.Transform)
	Rectangle(r geom.Rectangle, s style.Shape, t *geom.Transform)
	Circle(c geom.Circle, s style.Shape, t *geom.Transform)
	Ellipse(e geom.Ellipse, s style.Shape, t *geom.Transform)
	Text(txt geom.Text, s style.Text, t *geom.Transform)
}

// Element is what an incremental renderer needs from an entity.
type Element interface {
	// HTMLID is the key of the element inside the retained tree.
	HTMLID() string
	// SVG returns the element's markup, and false when it has none.
	SVG() (SVGElement, bool)
}

// Incremental is implemented by retained-mode renderers.
type Incremental interface {
	Add(e Element) error
	Modify(e Element) error
	Remove(htmlID string) error
}
