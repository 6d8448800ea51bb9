package tool

import (
	"LocalBoard/internal/element"
	"LocalBoard/internal/geom"
)

// Event is published by tools and applied by the view port.
type Event interface {
	event()
}

// FinishDrawing hands a completed entity over to the view port. The tool
// keeps no reference to it afterwards.
type FinishDrawing struct {
	Entity *element.Entity
}

// Translate moves an installed entity.
type Translate struct {
	ID    element.ID
	Delta geom.Vector
}

// Remove deletes an installed entity.
type Remove struct {
	ID element.ID
}

func (FinishDrawing) event() {}
func (Translate) event()     {}
func (Remove) event()        {}
