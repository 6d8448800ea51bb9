package render

import (
	"sync"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/style"
)

// CommandType identifies a recorded renderer call.
type CommandType uint8

const (
	CmdClear CommandType = iota
	CmdPath
	CmdSegment
	CmdPolygon
	CmdRectangle
	CmdCircle
	CmdEllipse
	CmdText
)

var commandTypeNames = [...]string{
	CmdClear:     "Clear",
	CmdPath:      "Path",
	CmdSegment:   "Segment",
	CmdPolygon:   "Polygon",
	CmdRectangle: "Rectangle",
	CmdCircle:    "Circle",
	CmdEllipse:   "Ellipse",
	CmdText:      "Text",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded call. Shape holds the geometry argument (for
// example a geom.Rectangle); exactly one of ShapeStyle and TextStyle is
// meaningful depending on Type.
type Command struct {
	Type       CommandType
	Shape      any
	ShapeStyle style.Shape
	TextStyle  style.Text
	Transform  *geom.Transform
}

// Recorder is a Renderer that stores every call. Clear drops the calls
// recorded so far, mirroring what Clear does to a real surface.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
	clears   int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(c Command) {
	if c.Transform != nil {
		t := *c.Transform
		c.Transform = &t
	}
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}

// Commands returns a copy of the calls recorded since the last Clear.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Types returns the types of the recorded calls in order.
func (r *Recorder) Types() []CommandType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CommandType, len(r.commands))
	for i, c := range r.commands {
		out[i] = c.Type
	}
	return out
}

// Clears returns how many times Clear was called.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// Replay issues the recorded calls against dst, starting with a Clear.
func (r *Recorder) Replay(dst Renderer) {
	dst.Clear()
	for _, c := range r.Commands() {
		switch s := c.Shape.(type) {
		case geom.Path:
			dst.Path(s, c.ShapeStyle, c.Transform)
		case geom.Segment:
			dst.Segment(s, c.ShapeStyle, c.Transform)
		case geom.Polygon:
			dst.Polygon(s, c.ShapeStyle, c.Transform)
		case geom.Rectangle:
			dst.Rectangle(s, c.ShapeStyle, c.Transform)
		case geom.Circle:
			dst.Circle(s, c.ShapeStyle, c.Transform)
		case geom.Ellipse:
			dst.Ellipse(s, c.ShapeStyle, c.Transform)
		case geom.Text:
			dst.Text(s, c.TextStyle, c.Transform)
		}
	}
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	r.commands = r.commands[:0]
	r.clears++
	r.mu.Unlock()
}

func (r *Recorder) Path(p geom.Path, s style.Shape, t *geom.Transform) {
	r.record(Command{Type: CmdPath, Shape: p, ShapeStyle: s, Transform: t})
}

func (r *Recorder) Segment(seg geom.Segment, s style.Shape, t *geom.Transform) {
	r.record(Command{Type: CmdSegment, Shape: seg, ShapeStyle: s, Transform: t})
}

func (r *Recorder) Polygon(p geom.Polygon, s style.Shape, t *geom.Transform) {
	r.record(Command{Type: CmdPolygon, Shape: p, ShapeStyle: s, Transform: t})
}

func (r *Recorder) Rectangle(rect geom.Rectangle, s style.Shape, t *geom.Transform) {
	r.record(Command{Type: CmdRectangle, Shape: rect, ShapeStyle: s, Transform: t})
}

func (r *Recorder) Circle(c geom.Circle, s style.Shape, t *geom.Transform) {
	r.record(Command{Type: CmdCircle, Shape: c, ShapeStyle: s, Transform: t})
}

func (r *Recorder) Ellipse(e geom.Ellipse, s style.Shape, t *geom.Transform) {
	r.record(Command{Type: CmdEllipse, Shape: e, ShapeStyle: s, Transform: t})
}

func (r *Recorder) Text(txt geom.Text, s style.Text, t *geom.Transform) {
	r.record(Command{Type: CmdText, Shape: txt, TextStyle: s, Transform: t})
}
