// Package state owns the board's entity set and arbitrates between tools
// mutating it and renderers reading it.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"LocalBoard/internal/element"
	"LocalBoard/internal/event"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/tool"
)

var (
	// ErrLocked is returned by every write once a panic poisoned the view port.
	ErrLocked = errors.New("state: view port lock poisoned")
	// ErrDuplicateID is returned when an entity with the same id is installed.
	ErrDuplicateID = errors.New("state: duplicate entity id")
	// ErrNotFound is returned when an operation names an unknown entity.
	ErrNotFound = errors.New("state: entity not found")
)

// ViewPort owns the installed entities, in paint order, and the active tool.
// Writers (interactions, tool activation, entity mutations) hold the lock
// exclusively; Render and Reconcile never wait for it and skip the frame
// instead.
type ViewPort struct {
	mu        sync.RWMutex
	entities  []*element.Entity
	ids       map[element.ID]struct{}
	tool      tool.Tool
	pending   []*event.Receiver[tool.Event]
	transform *geom.Transform
	onChange  func()

	poisoned  atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	consumers sync.WaitGroup
	log       *zap.Logger
}

// NewViewPort returns an empty view port with no active tool.
func NewViewPort() *ViewPort {
	ctx, cancel := context.WithCancel(context.Background())
	return &ViewPort{
		ids:    make(map[element.ID]struct{}),
		ctx:    ctx,
		cancel: cancel,
		log:    logging.L().Named("viewport"),
	}
}

// write runs fn under the writer lock, then applies the tool events queued
// so far before releasing it. A panic in fn poisons the view port.
func (v *ViewPort) write(op string, fn func() (changed bool, err error)) (err error) {
	if v.poisoned.Load() {
		return fmt.Errorf("%s: %w", op, ErrLocked)
	}

	var changed bool
	var notify func()
	func() {
		v.mu.Lock()
		defer func() {
			if r := recover(); r != nil {
				v.poisoned.Store(true)
				v.log.Error("panic while holding the lock, view port poisoned",
					zap.String("op", op), zap.Any("panic", r), zap.Stack("stack"))
				err = fmt.Errorf("%s: panic %v: %w", op, r, ErrLocked)
			}
			notify = v.onChange
			v.mu.Unlock()
		}()
		changed, err = fn()
		if v.drainLocked() {
			changed = true
		}
	}()

	if changed && notify != nil {
		notify()
	}
	return err
}

// Poisoned reports whether a panic poisoned the view port.
func (v *ViewPort) Poisoned() bool { return v.poisoned.Load() }

// OnChange registers fn to be called, outside the lock, after every write
// that changed the scene or the tool overlay.
func (v *ViewPort) OnChange(fn func()) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// AddEntity appends e to the paint order.
func (v *ViewPort) AddEntity(e *element.Entity) error {
	return v.write("add entity", func() (bool, error) {
		if err := v.addLocked(e); err != nil {
			return false, err
		}
		v.log.Debug("entity added", zap.Stringer("id", e), zap.Stringer("kind", e.ID.Kind))
		return true, nil
	})
}

func (v *ViewPort) addLocked(e *element.Entity) error {
	if e == nil {
		return errors.New("add entity: nil entity")
	}
	if _, exists := v.ids[e.ID]; exists {
		return fmt.Errorf("add entity %s: %w", e.ID, ErrDuplicateID)
	}
	v.entities = append(v.entities, e)
	v.ids[e.ID] = struct{}{}
	return nil
}

func (v *ViewPort) indexLocked(id element.ID) int {
	if _, ok := v.ids[id]; !ok {
		return -1
	}
	for i, e := range v.entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// RemoveEntity drops the entity with the given id.
func (v *ViewPort) RemoveEntity(id element.ID) error {
	return v.write("remove entity", func() (bool, error) {
		return v.removeLocked(id)
	})
}

func (v *ViewPort) removeLocked(id element.ID) (bool, error) {
	i := v.indexLocked(id)
	if i < 0 {
		return false, fmt.Errorf("remove entity %s: %w", id, ErrNotFound)
	}
	v.entities = append(v.entities[:i], v.entities[i+1:]...)
	delete(v.ids, id)
	v.log.Debug("entity removed", zap.Stringer("id", id))
	return true, nil
}

// TranslateEntity moves the entity with the given id by d.
func (v *ViewPort) TranslateEntity(id element.ID, d geom.Vector) error {
	return v.write("translate entity", func() (bool, error) {
		return v.translateLocked(id, d)
	})
}

func (v *ViewPort) translateLocked(id element.ID, d geom.Vector) (bool, error) {
	i := v.indexLocked(id)
	if i < 0 {
		return false, fmt.Errorf("translate entity %s: %w", id, ErrNotFound)
	}
	if !v.entities[i].Move(d) {
		return false, fmt.Errorf("translate entity %s: not movable", id)
	}
	return true, nil
}

// Load replaces the scene with entities. Entities whose id is already taken
// are skipped and reported.
func (v *ViewPort) Load(entities []*element.Entity) error {
	var errs error
	werr := v.write("load", func() (bool, error) {
		v.entities = v.entities[:0]
		clear(v.ids)
		for _, e := range entities {
			errs = multierr.Append(errs, v.addLocked(e))
		}
		v.log.Info("scene loaded", zap.Int("entities", len(v.entities)))
		return true, nil
	})
	return multierr.Append(werr, errs)
}

// Entities returns deep copies of the installed entities in paint order.
func (v *ViewPort) Entities() []*element.Entity {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*element.Entity, len(v.entities))
	for i, e := range v.entities {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of installed entities.
func (v *ViewPort) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entities)
}

// SetTransform sets the transform applied to everything the view port
// paints. Nil resets it.
func (v *ViewPort) SetTransform(t *geom.Transform) error {
	return v.write("set transform", func() (bool, error) {
		if t == nil {
			v.transform = nil
			return true, nil
		}
		c := *t
		v.transform = &c
		return true, nil
	})
}

// ActivateTool makes t the active tool. The previous tool's sender is closed
// and its queued events are applied before t sees any interaction. Events a
// tool sends from Interact are applied before the call that delivered the
// interaction returns; a goroutine picks up events sent at any other time.
func (v *ViewPort) ActivateTool(t tool.Tool) error {
	return v.write("activate tool", func() (bool, error) {
		if v.tool != nil {
			v.tool.Close()
		}
		v.drainLocked()
		v.tool = t
		if t == nil {
			return true, nil
		}
		if sa, ok := t.(tool.SceneAware); ok {
			sa.Attach(lockedScene{v: v})
		}
		rx := t.Events()
		v.pending = append(v.pending, rx)
		v.consumers.Add(1)
		go v.consume(rx)
		return true, nil
	})
}

// ActiveTool returns the active tool, or nil.
func (v *ViewPort) ActiveTool() tool.Tool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tool
}

// consume waits for events rx receives outside a write and applies them.
// Events are only ever taken off the bus under the writer lock.
func (v *ViewPort) consume(rx *event.Receiver[tool.Event]) {
	defer v.consumers.Done()
	defer v.forget(rx)
	for {
		if err := rx.Wait(v.ctx); err != nil {
			return
		}
		if err := v.write("tool events", func() (bool, error) { return false, nil }); err != nil {
			return
		}
	}
}

func (v *ViewPort) forget(rx *event.Receiver[tool.Event]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, p := range v.pending {
		if p == rx {
			v.pending = append(v.pending[:i], v.pending[i+1:]...)
			return
		}
	}
}

// drainLocked applies every queued tool event, older tools first. It reports
// whether any event changed the scene.
func (v *ViewPort) drainLocked() bool {
	changed := false
	for _, rx := range v.pending {
		for {
			ev, ok := rx.TryRecv()
			if !ok {
				break
			}
			if v.applyLocked(ev) {
				changed = true
			}
		}
	}
	return changed
}

func (v *ViewPort) applyLocked(ev tool.Event) bool {
	var changed bool
	var err error
	switch ev := ev.(type) {
	case tool.FinishDrawing:
		if err = v.addLocked(ev.Entity); err == nil {
			changed = true
			v.log.Debug("entity added", zap.Stringer("id", ev.Entity), zap.Stringer("kind", ev.Entity.ID.Kind))
		}
	case tool.Translate:
		changed, err = v.translateLocked(ev.ID, ev.Delta)
	case tool.Remove:
		changed, err = v.removeLocked(ev.ID)
	}
	if err != nil {
		v.log.Warn("tool event not applied", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))
	}
	return changed
}

// InteractionEvent forwards i to the active tool.
func (v *ViewPort) InteractionEvent(i tool.Interaction) error {
	return v.write("interaction", func() (bool, error) {
		if v.tool == nil {
			return false, nil
		}
		v.tool.Interact(i)
		return true, nil
	})
}

// Render clears r and paints every entity in insertion order followed by the
// active tool's overlay. It returns false without touching r when a writer
// holds the lock or the view port is poisoned.
func (v *ViewPort) Render(r render.Renderer) bool {
	if v.poisoned.Load() || !v.mu.TryRLock() {
		return false
	}
	defer v.mu.RUnlock()

	rr := render.WithTransform(r, v.transform)
	rr.Clear()
	for _, e := range v.entities {
		e.Paint(rr, nil)
	}
	if v.tool != nil {
		v.tool.Render(rr)
	}
	return true
}

// Reconcile brings rec's retained tree in line with the installed entities
// followed by the active tool's in-progress entities. Like Render it never
// waits for the lock.
func (v *ViewPort) Reconcile(rec *Reconciler) bool {
	if v.poisoned.Load() || !v.mu.TryRLock() {
		return false
	}
	defer v.mu.RUnlock()

	elems := make([]render.Element, 0, len(v.entities)+1)
	for _, e := range v.entities {
		elems = append(elems, e)
	}
	if v.tool != nil {
		for _, e := range v.tool.InProgress() {
			elems = append(elems, e)
		}
	}
	rec.Sync(elems)
	return true
}

// Close closes the active tool and waits until every tool's queued events
// are applied.
func (v *ViewPort) Close() {
	func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.tool != nil {
			v.tool.Close()
			v.tool = nil
		}
		if !v.poisoned.Load() {
			v.drainLocked()
		}
	}()
	v.consumers.Wait()
	v.cancel()
}

// lockedScene lets tools look at entities during Interact and Render, which
// the view port calls with its lock held.
type lockedScene struct {
	v *ViewPort
}

func (s lockedScene) EntityAt(p geom.Point) (*element.Entity, bool) {
	es := s.v.entities
	for i := len(es) - 1; i >= 0; i-- {
		if es[i].Hit(p) {
			return es[i], true
		}
	}
	return nil, false
}

func (s lockedScene) Entity(id element.ID) (*element.Entity, bool) {
	if i := s.v.indexLocked(id); i >= 0 {
		return s.v.entities[i], true
	}
	return nil, false
}
