package geom

import "fmt"

// Transform is a 2D affine transform in row-major form:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{A: 1, E: 1} }

// Translation returns a transform moving points by (x, y).
func Translation(x, y float64) Transform { return Transform{A: 1, C: x, E: 1, F: y} }

// Scaling returns a transform scaling about the origin.
func Scaling(sx, sy float64) Transform { return Transform{A: sx, E: sy} }

// Multiply returns t * o, i.e. o is applied first.
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.B*o.D,
		B: t.A*o.B + t.B*o.E,
		C: t.A*o.C + t.B*o.F + t.C,
		D: t.D*o.A + t.E*o.D,
		E: t.D*o.B + t.E*o.E,
		F: t.D*o.C + t.E*o.F + t.F,
	}
}

// Apply transforms p.
func (t Transform) Apply(p Point) Point {
	return Point{X: t.A*p.X + t.B*p.Y + t.C, Y: t.D*p.X + t.E*p.Y + t.F}
}

// IsIdentity reports whether t leaves every point unchanged.
func (t Transform) IsIdentity() bool { return t == Identity() }

// SVG renders t as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		FormatFloat(t.A), FormatFloat(t.D), FormatFloat(t.B),
		FormatFloat(t.E), FormatFloat(t.C), FormatFloat(t.F))
}

// Compose combines an outer and an inner optional transform. The inner
// transform is applied first. Nil means identity.
func Compose(outer, inner *Transform) *Transform {
	switch {
	case outer == nil:
		return inner
	case inner == nil:
		return outer
	}
	m := outer.Multiply(*inner)
	return &m
}
