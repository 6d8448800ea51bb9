package state

import (
	"errors"

	"go.uber.org/zap"

	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
)

// Reconciler drives an incremental renderer from successive snapshots of the
// scene. It remembers which elements it added, in tree order, and turns each
// new snapshot into Add, Modify and Remove calls.
type Reconciler struct {
	target render.Incremental
	order  []string
	log    *zap.Logger
}

// NewReconciler returns a reconciler for target. The target's tree is assumed
// to hold none of the scene's elements yet.
func NewReconciler(target render.Incremental) *Reconciler {
	return &Reconciler{target: target, log: logging.L().Named("reconciler")}
}

// Known returns the ids currently in the target, in tree order.
func (r *Reconciler) Known() []string {
	return append([]string(nil), r.order...)
}

// Sync updates the target so that it holds exactly elems, in order.
func (r *Reconciler) Sync(elems []render.Element) {
	want := make(map[string]render.Element, len(elems))
	wantOrder := make([]string, 0, len(elems))
	for _, e := range elems {
		id := e.HTMLID()
		if _, dup := want[id]; dup {
			continue
		}
		want[id] = e
		wantOrder = append(wantOrder, id)
	}

	// drop elements that left the scene
	kept := r.order[:0]
	for _, id := range r.order {
		if _, ok := want[id]; ok {
			kept = append(kept, id)
			continue
		}
		r.remove(id)
	}
	r.order = kept

	// longest common prefix stays in place and is modified; the rest is
	// re-appended so tree order follows paint order
	prefix := 0
	for prefix < len(r.order) && prefix < len(wantOrder) && r.order[prefix] == wantOrder[prefix] {
		prefix++
	}
	for _, id := range r.order[prefix:] {
		r.remove(id)
	}
	r.order = r.order[:prefix]

	for _, id := range wantOrder[:prefix] {
		if err := r.target.Modify(want[id]); err != nil {
			r.log.Warn("modify failed, re-adding", zap.String("id", id), zap.Error(err))
			if errors.Is(err, render.ErrNotFound) {
				if err := r.target.Add(want[id]); err != nil {
					r.log.Warn("add failed", zap.String("id", id), zap.Error(err))
				}
			}
		}
	}
	for _, id := range wantOrder[prefix:] {
		if err := r.target.Add(want[id]); err != nil {
			r.log.Warn("add failed", zap.String("id", id), zap.Error(err))
			continue
		}
		r.order = append(r.order, id)
	}
}

func (r *Reconciler) remove(id string) {
	if err := r.target.Remove(id); err != nil {
		r.log.Warn("remove failed", zap.String("id", id), zap.Error(err))
	}
}

// Reset forgets every element without touching the target. Use it after the
// target was cleared by other means.
func (r *Reconciler) Reset() {
	r.order = nil
}
