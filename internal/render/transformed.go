package render

import (
	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

// Transformed applies an outer transform to every call before passing it on
// to the wrapped renderer. A nil Outer is a pass-through.
type Transformed struct {
	Inner Renderer
	Outer *geom.Transform
}

// WithTransform wraps r unless outer is nil or the identity.
func WithTransform(r Renderer, outer *geom.Transform) Renderer {
	if outer == nil || outer.IsIdentity() {
		return r
	}
	return &Transformed{Inner: r, Outer: outer}
}

func (t *Transformed) compose(inner *geom.Transform) *geom.Transform {
	return geom.Compose(t.Outer, inner)
}

func (t *Transformed) Clear() { t.Inner.Clear() }

func (t *Transformed) Path(p geom.Path, s style.Shape, tr *geom.Transform) {
	t.Inner.Path(p, s, t.compose(tr))
}

func (t *Transformed) Segment(seg geom.Segment, s style.Shape, tr *geom.Transform) {
	t.Inner.Segment(seg, s, t.compose(tr))
}

func (t *Transformed) Polygon(p geom.Polygon, s style.Shape, tr *geom.Transform) {
	t.Inner.Polygon(p, s, t.compose(tr))
}

func (t *Transformed) Rectangle(r geom.Rectangle, s style.Shape, tr *geom.Transform) {
	t.Inner.Rectangle(r, s, t.compose(tr))
}

func (t *Transformed) Circle(c geom.Circle, s style.Shape, tr *geom.Transform) {
	t.Inner.Circle(c, s, t.compose(tr))
}

func (t *Transformed) Ellipse(e geom.Ellipse, s style.Shape, tr *geom.Transform) {
	t.Inner.Ellipse(e, s, t.compose(tr))
}

func (t *Transformed) Text(txt geom.Text, s style.Text, tr *geom.Transform) {
	t.Inner.Text(txt, s, t.compose(tr))
}
