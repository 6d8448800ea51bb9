package geom

import "math"

// Segment is a straight line between two points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// DistanceTo returns the shortest distance from p to the segment.
func (s Segment) DistanceTo(p Point) float64 {
	d := s.End.Sub(s.Start)
	lenSq := d.DX*d.DX + d.DY*d.DY
	if lenSq == 0 {
		return p.DistanceTo(s.Start)
	}
	t := ((p.X-s.Start.X)*d.DX + (p.Y-s.Start.Y)*d.DY) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(Point{X: s.Start.X + t*d.DX, Y: s.Start.Y + t*d.DY})
}

// Polygon is an ordered list of vertices. The closing edge from the last
// vertex back to the first is implied.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// Contains reports whether p lies inside the polygon using the even-odd rule.
// Polygons with fewer than three vertices contain nothing.
func (pg Polygon) Contains(p Point) bool {
	n := len(pg.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pg.Vertices[i], pg.Vertices[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Edges returns the polygon outline including the closing edge.
func (pg Polygon) Edges() []Segment {
	n := len(pg.Vertices)
	if n < 2 {
		return nil
	}
	edges := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Segment{Start: pg.Vertices[i], End: pg.Vertices[(i+1)%n]})
	}
	return edges
}

// Translate returns a copy of the polygon moved by v.
func (pg Polygon) Translate(v Vector) Polygon {
	out := Polygon{Vertices: make([]Point, len(pg.Vertices))}
	for i, p := range pg.Vertices {
		out.Vertices[i] = p.Add(v)
	}
	return out
}

// Circle is defined by its centre and radius.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center  Point   `json:"center"`
	RadiusX float64 `json:"rx"`
	RadiusY float64 `json:"ry"`
}

// Text is a run of text anchored at the left end of its baseline.
type Text struct {
	Position Point  `json:"position"`
	Content  string `json:"content"`
}
