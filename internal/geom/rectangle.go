package geom

import "math"

// Rectangle is an axis-aligned rectangle. Width and Height may be negative while
// a rectangle is being dragged out; AbsoluteSized returns the canonical form.
type Rectangle struct {
	TopLeft Point   `json:"top_left"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ZeroSized returns an empty rectangle anchored at p.
func ZeroSized(p Point) Rectangle { return Rectangle{TopLeft: p} }

// RectFromCorners returns the canonical rectangle spanning a and b.
func RectFromCorners(a, b Point) Rectangle {
	return Rectangle{
		TopLeft: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Width:   math.Abs(b.X - a.X),
		Height:  math.Abs(b.Y - a.Y),
	}
}

// AbsoluteSized returns an equivalent rectangle with non-negative extents.
// The four corner points are unchanged.
func (r Rectangle) AbsoluteSized() Rectangle {
	out := r
	if out.Width < 0 {
		out.TopLeft.X += out.Width
		out.Width = -out.Width
	}
	if out.Height < 0 {
		out.TopLeft.Y += out.Height
		out.Height = -out.Height
	}
	return out
}

// Corners returns the four corners in the order top-left, top-right,
// bottom-right, bottom-left of the rectangle as stored.
func (r Rectangle) Corners() [4]Point {
	x0, y0 := r.TopLeft.X, r.TopLeft.Y
	x1, y1 := x0+r.Width, y0+r.Height
	return [4]Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Max returns the corner opposite TopLeft once canonicalised.
func (r Rectangle) Max() Point {
	a := r.AbsoluteSized()
	return Point{X: a.TopLeft.X + a.Width, Y: a.TopLeft.Y + a.Height}
}

// Contains reports whether p lies inside r grown by tolerance on every side.
func (r Rectangle) Contains(p Point, tolerance float64) bool {
	a := r.AbsoluteSized()
	return p.X >= a.TopLeft.X-tolerance && p.X <= a.TopLeft.X+a.Width+tolerance &&
		p.Y >= a.TopLeft.Y-tolerance && p.Y <= a.TopLeft.Y+a.Height+tolerance
}

// Overlaps reports whether the two rectangles share any point.
func (r Rectangle) Overlaps(o Rectangle) bool {
	a, b := r.AbsoluteSized(), o.AbsoluteSized()
	return !(a.TopLeft.X+a.Width < b.TopLeft.X || b.TopLeft.X+b.Width < a.TopLeft.X ||
		a.TopLeft.Y+a.Height < b.TopLeft.Y || b.TopLeft.Y+b.Height < a.TopLeft.Y)
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	a, b := r.AbsoluteSized(), o.AbsoluteSized()
	return RectFromCorners(
		Point{X: math.Min(a.TopLeft.X, b.TopLeft.X), Y: math.Min(a.TopLeft.Y, b.TopLeft.Y)},
		Point{X: math.Max(a.TopLeft.X+a.Width, b.TopLeft.X+b.Width), Y: math.Max(a.TopLeft.Y+a.Height, b.TopLeft.Y+b.Height)},
	)
}

// Inset grows (negative d) or shrinks (positive d) the canonical rectangle.
func (r Rectangle) Inset(d float64) Rectangle {
	a := r.AbsoluteSized()
	return Rectangle{
		TopLeft: Point{X: a.TopLeft.X + d, Y: a.TopLeft.Y + d},
		Width:   a.Width - 2*d,
		Height:  a.Height - 2*d,
	}
}

// Translate moves the rectangle by v.
func (r Rectangle) Translate(v Vector) Rectangle {
	r.TopLeft = r.TopLeft.Add(v)
	return r
}

// BoundingBox returns the canonical bounding box of points, and false when
// points is empty.
func BoundingBox(points []Point) (Rectangle, bool) {
	if len(points) == 0 {
		return Rectangle{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return RectFromCorners(Point{minX, minY}, Point{maxX, maxY}), true
}
