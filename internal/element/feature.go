package element

import (
	"reflect"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
)

// Capabilities. Each is a plain value keyed by its type in the entity's
// feature set; Query looks them up.

// Render paints the entity on an immediate renderer.
type Render struct {
	Paint func(e *Entity, r render.Renderer, t *geom.Transform)
}

// ToSVG describes the entity as an SVG element.
type ToSVG struct {
	Build func(e *Entity) render.SVGElement
}

// HitTest reports whether a board point touches the entity.
type HitTest struct {
	Hit func(e *Entity, p geom.Point) bool
}

// Translate moves the entity in place.
type Translate struct {
	Apply func(e *Entity, d geom.Vector)
}

// Bounds returns the canonical bounding box, false for empty entities.
type Bounds struct {
	Of func(e *Entity) (geom.Rectangle, bool)
}

// MoveDraw drives shapes created by dragging: Begin on press, Drag on every
// move with the press point as anchor, Finish on release.
type MoveDraw struct {
	Begin  func(e *Entity, p geom.Point)
	Drag   func(e *Entity, anchor, p geom.Point)
	Finish func(e *Entity)
}

// ClickDraw drives shapes created one vertex per click.
type ClickDraw struct {
	AddVertex func(e *Entity, p geom.Point)
}

type featureSet map[reflect.Type]any

func (fs featureSet) clone() featureSet {
	out := make(featureSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// register installs c, replacing any capability of the same type.
func register[C any](e *Entity, c C) {
	if e.features == nil {
		e.features = featureSet{}
	}
	e.features[reflect.TypeFor[C]()] = c
}

// Query returns the capability of type C, or the zero value and false when
// the entity does not have it.
func Query[C any](e *Entity) (C, bool) {
	var zero C
	if e == nil || e.features == nil {
		return zero, false
	}
	v, ok := e.features[reflect.TypeFor[C]()]
	if !ok {
		return zero, false
	}
	return v.(C), true
}
