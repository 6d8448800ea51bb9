package svg

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/style"
)

const namespace = "http://www.w3.org/2000/svg"

// Renderer owns a tree rooted at <svg>. It implements both render.Renderer
// and render.Incremental; a given renderer should be driven in one of the two
// modes at a time.
type Renderer struct {
	mu     sync.Mutex
	root   *Node
	byID   map[string]*Node
	strict bool
	log    *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStrict makes Modify and Remove panic on unknown ids instead of
// returning render.ErrNotFound. Meant for debug builds and tests.
func WithStrict(strict bool) Option {
	return func(r *Renderer) { r.strict = strict }
}

// WithSize sets the width, height and viewBox of the root element.
func WithSize(width, height float64) Option {
	return func(r *Renderer) {
		w, h := geom.FormatFloat(width), geom.FormatFloat(height)
		r.root.Attrs["width"] = w
		r.root.Attrs["height"] = h
		r.root.Attrs["viewBox"] = "0 0 " + w + " " + h
	}
}

// New returns a renderer with an empty <svg> root.
func New(opts ...Option) *Renderer {
	root := newNode("svg")
	root.Attrs["xmlns"] = namespace
	r := &Renderer{
		root: root,
		byID: make(map[string]*Node),
		log:  logging.L().Named("svg"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns a deep copy of the tree.
func (r *Renderer) Root() *Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root.Clone()
}

// Len returns the number of top level nodes.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.root.Children)
}

// WriteTo serialises the tree.
func (r *Renderer) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root.WriteTo(w)
}

func (r *Renderer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root.String()
}

// Build converts an element description into a node.
func Build(el render.SVGElement) *Node {
	n := newNode(el.Shape.Tag())
	a := n.Attrs
	f := geom.FormatFloat
	switch s := el.Shape.(type) {
	case render.Circle:
		a["cx"], a["cy"], a["r"] = f(s.Circle.Center.X), f(s.Circle.Center.Y), f(s.Circle.Radius)
	case render.Ellipse:
		a["cx"], a["cy"] = f(s.Ellipse.Center.X), f(s.Ellipse.Center.Y)
		a["rx"], a["ry"] = f(s.Ellipse.RadiusX), f(s.Ellipse.RadiusY)
	case render.Rect:
		rect := s.Rect.AbsoluteSized()
		a["x"], a["y"] = f(rect.TopLeft.X), f(rect.TopLeft.Y)
		a["width"], a["height"] = f(rect.Width), f(rect.Height)
	case render.Line:
		a["x1"], a["y1"] = f(s.Line.Start.X), f(s.Line.Start.Y)
		a["x2"], a["y2"] = f(s.Line.End.X), f(s.Line.End.Y)
	case render.Polygon:
		a["points"] = render.FormatPoints(s.Points)
	case render.Polyline:
		a["points"] = render.FormatPoints(s.Points)
	case render.Path:
		a["d"] = s.Path.SVGData()
	case render.Text:
		a["x"], a["y"] = f(s.Text.Position.X), f(s.Text.Position.Y)
		n.Text = s.Text.Content
	case render.Group:
		for _, c := range s.Children {
			n.Children = append(n.Children, Build(c))
		}
	}
	for k, v := range el.Attrs {
		a[k] = v
	}
	if css := collapseCSS(el.CSS); css != "" {
		a["style"] = css
	}
	return n
}

// collapseCSS renders properties as "name: value; ..." sorted by name.
func collapseCSS(css map[string]string) string {
	if len(css) == 0 {
		return ""
	}
	names := make([]string, 0, len(css))
	for k := range css {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + ": " + css[k]
	}
	return strings.Join(parts, "; ")
}

// Immediate mode.

// Clear empties the tree, including nodes added incrementally.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root.Children = nil
	clear(r.byID)
}

func (r *Renderer) appendElement(el render.SVGElement, t *geom.Transform) {
	n := Build(el.WithTransform(t))
	r.mu.Lock()
	r.root.Children = append(r.root.Children, n)
	r.mu.Unlock()
}

func (r *Renderer) Path(p geom.Path, s style.Shape, t *geom.Transform) {
	r.appendElement(render.Styled(render.Path{Path: p}, s), t)
}

func (r *Renderer) Segment(seg geom.Segment, s style.Shape, t *geom.Transform) {
	r.appendElement(render.Styled(render.Line{Line: seg}, s), t)
}

func (r *Renderer) Polygon(p geom.Polygon, s style.Shape, t *geom.Transform) {
	r.appendElement(render.Styled(render.Polygon{Points: p.Vertices}, s), t)
}

func (r *Renderer) Rectangle(rect geom.Rectangle, s style.Shape, t *geom.Transform) {
	r.appendElement(render.Styled(render.Rect{Rect: rect}, s), t)
}

func (r *Renderer) Circle(c geom.Circle, s style.Shape, t *geom.Transform) {
	r.appendElement(render.Styled(render.Circle{Circle: c}, s), t)
}

func (r *Renderer) Ellipse(e geom.Ellipse, s style.Shape, t *geom.Transform) {
	r.appendElement(render.Styled(render.Ellipse{Ellipse: e}, s), t)
}

func (r *Renderer) Text(txt geom.Text, s style.Text, t *geom.Transform) {
	el := render.SVGElement{Shape: render.Text{Text: txt}, Attrs: map[string]string{}, CSS: render.TextCSS(s)}
	r.appendElement(el, t)
}

// Incremental mode.

func (r *Renderer) build(e render.Element) (*Node, error) {
	el, ok := e.SVG()
	if !ok {
		return nil, fmt.Errorf("%s has no svg form: %w", e.HTMLID(), render.ErrUnsupported)
	}
	n := Build(el)
	n.Attrs["id"] = e.HTMLID()
	return n, nil
}

// Add appends the element's node. Adding an id that is already present
// replaces the existing node in place.
func (r *Renderer) Add(e render.Element) error {
	n, err := r.build(e)
	if err != nil {
		r.log.Warn("add skipped", zap.Error(err))
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := e.HTMLID()
	if old, ok := r.byID[id]; ok {
		*old = *n
		return nil
	}
	r.root.Children = append(r.root.Children, n)
	r.byID[id] = n
	return nil
}

// Modify rebuilds the element's node. Attributes are replaced wholesale so
// the result is identical to a fresh Add.
func (r *Renderer) Modify(e render.Element) error {
	id := e.HTMLID()
	r.mu.Lock()
	old, ok := r.byID[id]
	r.mu.Unlock()
	if !ok {
		return r.notFound("modify", id)
	}
	n, err := r.build(e)
	if err != nil {
		r.log.Warn("modify skipped", zap.Error(err))
		return err
	}
	r.mu.Lock()
	*old = *n
	r.mu.Unlock()
	return nil
}

// Remove drops the node with the given id.
func (r *Renderer) Remove(id string) error {
	r.mu.Lock()
	n, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
		kids := r.root.Children
		for i, c := range kids {
			if c == n {
				r.root.Children = append(kids[:i], kids[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()
	if !ok {
		return r.notFound("remove", id)
	}
	return nil
}

func (r *Renderer) notFound(op, id string) error {
	err := fmt.Errorf("%s %s: %w", op, id, render.ErrNotFound)
	if r.strict {
		panic(err)
	}
	r.log.Warn("incremental update for unknown element", zap.String("op", op), zap.String("id", id))
	return err
}
