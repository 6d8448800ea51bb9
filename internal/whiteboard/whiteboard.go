// Package whiteboard is the embedding API: one Whiteboard per board session,
// driven by a host (desktop window, websocket client) through plain method
// calls. Calls never panic into the host; failures are logged.
package whiteboard

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"LocalBoard/internal/element"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/render/raster"
	"LocalBoard/internal/render/svg"
	"LocalBoard/internal/state"
	"LocalBoard/internal/style"
	"LocalBoard/internal/tool"
)

// Whiteboard couples a view port with tool activation and the renderers.
type Whiteboard struct {
	owner    string
	viewPort *state.ViewPort

	mu            sync.Mutex
	style         style.Shape
	dragThreshold float64
	nudge         float64
	activate      func(opts []tool.Option) (tool.Tool, error)
	reconcilers   map[*svg.Renderer]*state.Reconciler

	log *zap.Logger
}

// Option configures a Whiteboard.
type Option func(*Whiteboard)

// WithStyle sets the style of newly drawn shapes.
func WithStyle(s style.Shape) Option {
	return func(w *Whiteboard) { w.style = s.Clone() }
}

// WithDragThreshold sets the select tool's drag threshold.
func WithDragThreshold(d float64) Option {
	return func(w *Whiteboard) { w.dragThreshold = d }
}

// WithNudgeDistance sets how far the arrow keys move the selection.
func WithNudgeDistance(d float64) Option {
	return func(w *Whiteboard) { w.nudge = d }
}

// New returns an empty board whose entities are owned by owner. An empty
// owner gets a random one.
func New(owner string, opts ...Option) *Whiteboard {
	if owner == "" {
		owner = element.NewOwner()
	}
	w := &Whiteboard{
		owner:         owner,
		viewPort:      state.NewViewPort(),
		style:         style.DefaultShape(),
		dragThreshold: tool.DefaultDragThreshold,
		reconcilers:   make(map[*svg.Renderer]*state.Reconciler),
		log:           logging.L().Named("whiteboard").With(zap.String("owner", owner)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// recoverBoundary logs a panic instead of letting it reach the host.
func (w *Whiteboard) recoverBoundary(op string) {
	if r := recover(); r != nil {
		w.log.Error("recovered panic", zap.String("op", op), zap.Any("panic", r), zap.Stack("stack"))
	}
}

// Owner returns the owner id stamped on new entities.
func (w *Whiteboard) Owner() string { return w.owner }

// ViewPort exposes the underlying view port.
func (w *Whiteboard) ViewPort() *state.ViewPort { return w.viewPort }

func (w *Whiteboard) toolOptions() []tool.Option {
	return []tool.Option{
		tool.WithStyle(w.style),
		tool.WithDragThreshold(w.dragThreshold),
		tool.WithNudgeDistance(w.nudge),
	}
}

// activateWith builds a tool with the current settings and remembers the
// factory so SetStyle can rebuild it.
func (w *Whiteboard) activateWith(factory func(opts []tool.Option) (tool.Tool, error)) error {
	w.mu.Lock()
	w.activate = factory
	t, err := factory(w.toolOptions())
	w.mu.Unlock()
	if err != nil {
		return err
	}
	return w.viewPort.ActivateTool(t)
}

// ActivateMoveDraw activates drag drawing of kind (Rectangle or FreeHand).
func (w *Whiteboard) ActivateMoveDraw(kind element.Kind) (err error) {
	defer w.recoverBoundary("activate move draw")
	err = w.activateWith(func(opts []tool.Option) (tool.Tool, error) {
		return tool.NewMoveDraw(kind, w.owner, opts...)
	})
	if err != nil {
		w.log.Warn("activate move draw", zap.Stringer("kind", kind), zap.Error(err))
	}
	return err
}

// ActivateClickDraw activates click drawing of kind (Polygon).
func (w *Whiteboard) ActivateClickDraw(kind element.Kind) (err error) {
	defer w.recoverBoundary("activate click draw")
	err = w.activateWith(func(opts []tool.Option) (tool.Tool, error) {
		return tool.NewClickDraw(kind, w.owner, opts...)
	})
	if err != nil {
		w.log.Warn("activate click draw", zap.Stringer("kind", kind), zap.Error(err))
	}
	return err
}

// ActivateSelectTool activates selection.
func (w *Whiteboard) ActivateSelectTool() {
	defer w.recoverBoundary("activate select")
	err := w.activateWith(func(opts []tool.Option) (tool.Tool, error) {
		return tool.NewSelect(opts...), nil
	})
	if err != nil {
		w.log.Warn("activate select", zap.Error(err))
	}
}

// SetStyle changes the style of newly drawn shapes. The active drawing tool
// is rebuilt so it picks the style up; a shape in progress is dropped.
func (w *Whiteboard) SetStyle(s style.Shape) {
	defer w.recoverBoundary("set style")
	w.mu.Lock()
	w.style = s.Clone()
	factory := w.activate
	w.mu.Unlock()
	if factory == nil {
		return
	}
	if err := w.activateWith(factory); err != nil {
		w.log.Warn("reactivate tool", zap.Error(err))
	}
}

// Style returns the style of newly drawn shapes.
func (w *Whiteboard) Style() style.Shape {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.style.Clone()
}

func (w *Whiteboard) interact(op string, i tool.Interaction) {
	defer w.recoverBoundary(op)
	if err := w.viewPort.InteractionEvent(i); err != nil {
		w.log.Warn("interaction dropped", zap.String("op", op), zap.Error(err))
	}
}

// PointerDown delivers a pointer press at board coordinates (x, y).
func (w *Whiteboard) PointerDown(x, y float64, d tool.Device) {
	w.interact("pointer down", tool.PointerDown{Point: geom.Pt(x, y), Device: d})
}

// PointerMove delivers a pointer move.
func (w *Whiteboard) PointerMove(x, y float64, d tool.Device) {
	w.interact("pointer move", tool.PointerMove{Point: geom.Pt(x, y), Device: d})
}

// PointerUp delivers a pointer release.
func (w *Whiteboard) PointerUp(x, y float64, d tool.Device) {
	w.interact("pointer up", tool.PointerUp{Point: geom.Pt(x, y), Device: d})
}

func (w *Whiteboard) MouseDown(x, y float64) { w.PointerDown(x, y, tool.Mouse) }
func (w *Whiteboard) MouseMove(x, y float64) { w.PointerMove(x, y, tool.Mouse) }
func (w *Whiteboard) MouseUp(x, y float64)   { w.PointerUp(x, y, tool.Mouse) }

// KeyDown delivers a key press by host key name, e.g. "Escape". Keys tools
// do not know are dropped.
func (w *Whiteboard) KeyDown(name string) {
	if k, ok := tool.ParseKey(name); ok {
		w.interact("key down", tool.KeyDown{Key: k})
	}
}

// KeyUp delivers a key release by host key name.
func (w *Whiteboard) KeyUp(name string) {
	if k, ok := tool.ParseKey(name); ok {
		w.interact("key up", tool.KeyUp{Key: k})
	}
}

// Render repaints r from scratch. It reports false when the frame was
// skipped because the scene was being written.
func (w *Whiteboard) Render(r render.Renderer) (painted bool) {
	defer w.recoverBoundary("render")
	return w.viewPort.Render(r)
}

// RenderCanvas repaints a canvas renderer.
func (w *Whiteboard) RenderCanvas(r *raster.Renderer) bool {
	return w.Render(r)
}

// RenderSVG updates a retained SVG renderer incrementally. The first call
// for a renderer clears it.
func (w *Whiteboard) RenderSVG(r *svg.Renderer) (painted bool) {
	defer w.recoverBoundary("render svg")
	w.mu.Lock()
	rec, ok := w.reconcilers[r]
	if !ok {
		r.Clear()
		rec = state.NewReconciler(r)
		w.reconcilers[r] = rec
	}
	w.mu.Unlock()
	return w.viewPort.Reconcile(rec)
}

// ForgetSVG drops the reconciliation state kept for r.
func (w *Whiteboard) ForgetSVG(r *svg.Renderer) {
	w.mu.Lock()
	delete(w.reconcilers, r)
	w.mu.Unlock()
}

// SetTransform sets the view transform. Nil resets it.
func (w *Whiteboard) SetTransform(t *geom.Transform) {
	defer w.recoverBoundary("set transform")
	if err := w.viewPort.SetTransform(t); err != nil {
		w.log.Warn("set transform", zap.Error(err))
	}
}

// OnChange registers fn to run after every change of the scene or the tool
// overlay. Hosts use it to schedule a repaint.
func (w *Whiteboard) OnChange(fn func()) { w.viewPort.OnChange(fn) }

// Entities returns copies of the installed entities in paint order.
func (w *Whiteboard) Entities() []*element.Entity { return w.viewPort.Entities() }

// Snapshot encodes the scene as a JSON array of entities.
func (w *Whiteboard) Snapshot() ([]byte, error) {
	entities := w.viewPort.Entities()
	if entities == nil {
		entities = []*element.Entity{}
	}
	data, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return data, nil
}

// Load replaces the scene with the entities in a snapshot. Entities that
// fail to decode are skipped; their errors are combined in the result.
func (w *Whiteboard) Load(data []byte) (err error) {
	defer w.recoverBoundary("load")
	entities, err := DecodeScene(data)
	if entities == nil {
		w.log.Warn("scene not loaded", zap.Error(err))
		return err
	}
	if lerr := w.viewPort.Load(entities); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	if err != nil {
		w.log.Warn("scene loaded with errors", zap.Int("loaded", len(entities)), zap.Error(err))
	}
	return err
}

// Clear removes every entity.
func (w *Whiteboard) Clear() {
	defer w.recoverBoundary("clear")
	if err := w.viewPort.Load(nil); err != nil {
		w.log.Warn("clear", zap.Error(err))
	}
}

// DecodeScene decodes a snapshot. It returns every entity that decoded and
// the combined errors of the others.
func DecodeScene(data []byte) ([]*element.Entity, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	var errs error
	entities := make([]*element.Entity, 0, len(raw))
	for i, r := range raw {
		e, err := element.BuildFromJSON(r)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entity %d: %w", i, err))
			continue
		}
		entities = append(entities, e)
	}
	return entities, errs
}

// Close deactivates the tool and waits for its pending events.
func (w *Whiteboard) Close() {
	defer w.recoverBoundary("close")
	w.viewPort.Close()
}
