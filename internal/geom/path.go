package geom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Command is one drawing directive of a Path.
type Command interface {
	// Name is the persisted command name, e.g. "line_to".
	Name() string
	command()
}

// MoveTo starts a new sub-path at To.
type MoveTo struct {
	To Point `json:"to"`
}

// LineTo draws a straight line to To.
type LineTo struct {
	To Point `json:"to"`
}

// HorizontalLineTo draws a horizontal line to the absolute x coordinate X.
type HorizontalLineTo struct {
	X float64 `json:"x"`
}

// VerticalLineTo draws a vertical line to the absolute y coordinate Y.
type VerticalLineTo struct {
	Y float64 `json:"y"`
}

// BezierTo draws a cubic Bézier curve to To.
type BezierTo struct {
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	To       Point `json:"to"`
}

// ArcTo draws an SVG elliptical arc to To.
type ArcTo struct {
	RadiusX  float64 `json:"rx"`
	RadiusY  float64 `json:"ry"`
	Rotation float64 `json:"rotation"` // degrees
	LargeArc bool    `json:"large_arc"`
	Sweep    bool    `json:"sweep"`
	To       Point   `json:"to"`
}

// Close closes the current sub-path.
type Close struct{}

func (MoveTo) Name() string           { return "move_to" }
func (LineTo) Name() string           { return "line_to" }
func (HorizontalLineTo) Name() string { return "horizontal_line_to" }
func (VerticalLineTo) Name() string   { return "vertical_line_to" }
func (BezierTo) Name() string         { return "bezier_to" }
func (ArcTo) Name() string            { return "arc_to" }
func (Close) Name() string            { return "close" }

func (MoveTo) command()           {}
func (LineTo) command()           {}
func (HorizontalLineTo) command() {}
func (VerticalLineTo) command()   {}
func (BezierTo) command()         {}
func (ArcTo) command()            {}
func (Close) command()            {}

// Path is an ordered list of drawing commands with absolute coordinates.
type Path struct {
	Commands []Command
}

// MoveTo appends a MoveTo command.
func (p *Path) MoveTo(to Point) { p.Commands = append(p.Commands, MoveTo{To: to}) }

// LineTo appends a LineTo command.
func (p *Path) LineTo(to Point) { p.Commands = append(p.Commands, LineTo{To: to}) }

// Close appends a Close command.
func (p *Path) Close() { p.Commands = append(p.Commands, Close{}) }

// Len returns the number of commands.
func (p Path) Len() int { return len(p.Commands) }

// SVGData serialises the path as the value of an SVG "d" attribute.
func (p Path) SVGData() string {
	parts := make([]string, 0, len(p.Commands))
	for _, c := range p.Commands {
		switch c := c.(type) {
		case MoveTo:
			parts = append(parts, "M "+FormatFloat(c.To.X)+" "+FormatFloat(c.To.Y))
		case LineTo:
			parts = append(parts, "L "+FormatFloat(c.To.X)+" "+FormatFloat(c.To.Y))
		case HorizontalLineTo:
			parts = append(parts, "H "+FormatFloat(c.X))
		case VerticalLineTo:
			parts = append(parts, "V "+FormatFloat(c.Y))
		case BezierTo:
			parts = append(parts, fmt.Sprintf("C %s %s %s %s %s %s",
				FormatFloat(c.Control1.X), FormatFloat(c.Control1.Y),
				FormatFloat(c.Control2.X), FormatFloat(c.Control2.Y),
				FormatFloat(c.To.X), FormatFloat(c.To.Y)))
		case ArcTo:
			parts = append(parts, fmt.Sprintf("A %s %s %s %d %d %s %s",
				FormatFloat(c.RadiusX), FormatFloat(c.RadiusY), FormatFloat(c.Rotation),
				boolFlag(c.LargeArc), boolFlag(c.Sweep),
				FormatFloat(c.To.X), FormatFloat(c.To.Y)))
		case Close:
			parts = append(parts, "Z")
		}
	}
	return strings.Join(parts, " ")
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Walk visits every command with the pen position before it. Sub-path starts
// are tracked so Close reports the point it returns to.
func (p Path) Walk(fn func(from Point, c Command, to Point)) {
	var cur, start Point
	for _, c := range p.Commands {
		next := cur
		switch c := c.(type) {
		case MoveTo:
			next = c.To
			start = c.To
		case LineTo:
			next = c.To
		case HorizontalLineTo:
			next = Point{X: c.X, Y: cur.Y}
		case VerticalLineTo:
			next = Point{X: cur.X, Y: c.Y}
		case BezierTo:
			next = c.To
		case ArcTo:
			next = c.To
		case Close:
			next = start
		}
		fn(cur, c, next)
		cur = next
	}
}

// Segments flattens the path into straight segments. Curves are subdivided
// into a fixed number of pieces, which is precise enough for hit-testing.
func (p Path) Segments() []Segment {
	const steps = 16
	var out []Segment
	p.Walk(func(from Point, c Command, to Point) {
		switch c := c.(type) {
		case LineTo, HorizontalLineTo, VerticalLineTo, Close:
			out = append(out, Segment{Start: from, End: to})
		case BezierTo:
			prev := from
			for i := 1; i <= steps; i++ {
				pt := cubicAt(from, c.Control1, c.Control2, c.To, float64(i)/steps)
				out = append(out, Segment{Start: prev, End: pt})
				prev = pt
			}
		case ArcTo:
			start := from
			for _, b := range ArcToCubics(from, c) {
				prev := start
				for i := 1; i <= steps; i++ {
					pt := cubicAt(start, b.Control1, b.Control2, b.To, float64(i)/steps)
					out = append(out, Segment{Start: prev, End: pt})
					prev = pt
				}
				start = b.To
			}
		}
	})
	return out
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Points returns every end point of the path in order.
func (p Path) Points() []Point {
	var out []Point
	p.Walk(func(_ Point, c Command, to Point) {
		if _, ok := c.(Close); ok {
			return
		}
		out = append(out, to)
	})
	return out
}

// Translate returns a copy of the path moved by v.
func (p Path) Translate(v Vector) Path {
	out := Path{Commands: make([]Command, len(p.Commands))}
	for i, c := range p.Commands {
		switch c := c.(type) {
		case MoveTo:
			out.Commands[i] = MoveTo{To: c.To.Add(v)}
		case LineTo:
			out.Commands[i] = LineTo{To: c.To.Add(v)}
		case HorizontalLineTo:
			out.Commands[i] = HorizontalLineTo{X: c.X + v.DX}
		case VerticalLineTo:
			out.Commands[i] = VerticalLineTo{Y: c.Y + v.DY}
		case BezierTo:
			out.Commands[i] = BezierTo{Control1: c.Control1.Add(v), Control2: c.Control2.Add(v), To: c.To.Add(v)}
		case ArcTo:
			c.To = c.To.Add(v)
			out.Commands[i] = c
		default:
			out.Commands[i] = c
		}
	}
	return out
}

type commandJSON struct {
	Type     string   `json:"type"`
	To       *Point   `json:"to,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Control1 *Point   `json:"control1,omitempty"`
	Control2 *Point   `json:"control2,omitempty"`
	RadiusX  *float64 `json:"rx,omitempty"`
	RadiusY  *float64 `json:"ry,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	LargeArc *bool    `json:"large_arc,omitempty"`
	Sweep    *bool    `json:"sweep,omitempty"`
}

// MarshalJSON encodes the path as a list of tagged commands.
func (p Path) MarshalJSON() ([]byte, error) {
	out := make([]commandJSON, 0, len(p.Commands))
	for _, c := range p.Commands {
		cj := commandJSON{Type: c.Name()}
		switch c := c.(type) {
		case MoveTo:
			cj.To = &c.To
		case LineTo:
			cj.To = &c.To
		case HorizontalLineTo:
			cj.X = &c.X
		case VerticalLineTo:
			cj.Y = &c.Y
		case BezierTo:
			cj.Control1, cj.Control2, cj.To = &c.Control1, &c.Control2, &c.To
		case ArcTo:
			cj.RadiusX, cj.RadiusY, cj.Rotation = &c.RadiusX, &c.RadiusY, &c.Rotation
			cj.LargeArc, cj.Sweep, cj.To = &c.LargeArc, &c.Sweep, &c.To
		}
		out = append(out, cj)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list of tagged commands. Missing operands and
// unknown fields are errors.
func (p *Path) UnmarshalJSON(data []byte) error {
	var raw []commandJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	cmds := make([]Command, 0, len(raw))
	for i, cj := range raw {
		c, err := cj.command()
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		cmds = append(cmds, c)
	}
	p.Commands = cmds
	return nil
}

func (cj commandJSON) command() (Command, error) {
	missing := func(field string) error {
		return fmt.Errorf("%s requires %q", cj.Type, field)
	}
	switch cj.Type {
	case "move_to", "line_to":
		if cj.To == nil {
			return nil, missing("to")
		}
		if cj.Type == "move_to" {
			return MoveTo{To: *cj.To}, nil
		}
		return LineTo{To: *cj.To}, nil
	case "horizontal_line_to":
		if cj.X == nil {
			return nil, missing("x")
		}
		return HorizontalLineTo{X: *cj.X}, nil
	case "vertical_line_to":
		if cj.Y == nil {
			return nil, missing("y")
		}
		return VerticalLineTo{Y: *cj.Y}, nil
	case "bezier_to":
		if cj.Control1 == nil || cj.Control2 == nil || cj.To == nil {
			return nil, missing("control1, control2, to")
		}
		return BezierTo{Control1: *cj.Control1, Control2: *cj.Control2, To: *cj.To}, nil
	case "arc_to":
		if cj.RadiusX == nil || cj.RadiusY == nil || cj.To == nil {
			return nil, missing("rx, ry, to")
		}
		a := ArcTo{RadiusX: *cj.RadiusX, RadiusY: *cj.RadiusY, To: *cj.To}
		if cj.Rotation != nil {
			a.Rotation = *cj.Rotation
		}
		if cj.LargeArc != nil {
			a.LargeArc = *cj.LargeArc
		}
		if cj.Sweep != nil {
			a.Sweep = *cj.Sweep
		}
		return a, nil
	case "close":
		return Close{}, nil
	default:
		return nil, fmt.Errorf("unknown path command %q", cj.Type)
	}
}
