// Package geom holds the plain geometric value types shared by shape models,
// tools and renderers.
package geom

import (
	"math"
	"strconv"
)

// Point is a position on the board in board units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a displacement between two points.
type Vector struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add moves p by v.
func (p Point) Add(v Vector) Point { return Point{X: p.X + v.DX, Y: p.Y + v.DY} }

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector { return Vector{DX: p.X - q.X, DY: p.Y - q.Y} }

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Length returns the Euclidean length of v.
func (v Vector) Length() float64 { return math.Hypot(v.DX, v.DY) }

// IsZero reports whether v is the null displacement.
func (v Vector) IsZero() bool { return v.DX == 0 && v.DY == 0 }

// FormatFloat renders v the way SVG attributes and path data expect it:
// shortest representation, no exponent for ordinary board coordinates.
func FormatFloat(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
