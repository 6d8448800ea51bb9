package state

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"LocalBoard/internal/render"
)

type stubElement struct {
	id      string
	version int
}

func (s stubElement) HTMLID() string { return s.id }

func (s stubElement) SVG() (render.SVGElement, bool) {
	return render.NewSVGElement(render.Rect{}).WithAttr("data-version", fmt.Sprint(s.version)), true
}

// fakeTarget logs calls and keeps the resulting id order.
type fakeTarget struct {
	calls []string
	tree  []string
}

func (f *fakeTarget) index(id string) int {
	for i, t := range f.tree {
		if t == id {
			return i
		}
	}
	return -1
}

func (f *fakeTarget) Add(e render.Element) error {
	f.calls = append(f.calls, "add "+e.HTMLID())
	f.tree = append(f.tree, e.HTMLID())
	return nil
}

func (f *fakeTarget) Modify(e render.Element) error {
	f.calls = append(f.calls, "modify "+e.HTMLID())
	if f.index(e.HTMLID()) < 0 {
		return render.ErrNotFound
	}
	return nil
}

func (f *fakeTarget) Remove(id string) error {
	f.calls = append(f.calls, "remove "+id)
	i := f.index(id)
	if i < 0 {
		return render.ErrNotFound
	}
	f.tree = append(f.tree[:i], f.tree[i+1:]...)
	return nil
}

func elems(ids ...string) []render.Element {
	out := make([]render.Element, len(ids))
	for i, id := range ids {
		out[i] = stubElement{id: id}
	}
	return out
}

func TestReconciler_Sync(t *testing.T) {
	target := &fakeTarget{}
	r := NewReconciler(target)

	r.Sync(elems("a", "b", "c"))
	assert.Equal(t, []string{"add a", "add b", "add c"}, target.calls)

	target.calls = nil
	r.Sync(elems("a", "c"))
	assert.Equal(t, []string{"remove b", "modify a", "modify c"}, target.calls)

	target.calls = nil
	r.Sync(elems("c", "a", "d"))
	if diff := cmp.Diff([]string{"remove a", "remove c", "add c", "add a", "add d"}, target.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"c", "a", "d"}, target.tree)
	assert.Equal(t, []string{"c", "a", "d"}, r.Known())
}

func TestReconciler_DuplicatesIgnored(t *testing.T) {
	target := &fakeTarget{}
	r := NewReconciler(target)
	r.Sync(elems("a", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, target.tree)
}

func TestReconciler_ModifyMissingReAdds(t *testing.T) {
	target := &fakeTarget{}
	r := NewReconciler(target)
	r.Sync(elems("a"))
	target.tree = nil

	r.Sync(elems("a"))
	assert.Equal(t, []string{"a"}, target.tree)
}

func TestReconciler_Reset(t *testing.T) {
	target := &fakeTarget{}
	r := NewReconciler(target)
	r.Sync(elems("a"))
	r.Reset()
	target.tree = nil
	target.calls = nil

	r.Sync(elems("a"))
	assert.Equal(t, []string{"add a"}, target.calls)
}
