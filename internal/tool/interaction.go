// Package tool holds the interaction state machines that turn pointer and
// keyboard input into entity lifecycle events.
package tool

import (
	"LocalBoard/internal/geom"
)

// Device is the pointing device that produced a pointer interaction.
type Device uint8

const (
	Mouse Device = iota
	Pen
	Touch
)

func (d Device) String() string {
	switch d {
	case Pen:
		return "pen"
	case Touch:
		return "touch"
	default:
		return "mouse"
	}
}

// ParseDevice maps "mouse", "pen" and "touch" (as reported by browser pointer
// events) to a Device. Anything else is a mouse.
func ParseDevice(name string) Device {
	switch name {
	case "pen":
		return Pen
	case "touch":
		return Touch
	default:
		return Mouse
	}
}

// Key is one of the keys tools react to.
type Key uint8

const (
	KeyEsc Key = iota + 1
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyArrowLeft
	KeyArrowUp
	KeyArrowRight
	KeyArrowDown
)

var keyNames = map[string]Key{
	"Escape":     KeyEsc,
	"Enter":      KeyEnter,
	"Backspace":  KeyBackspace,
	"Delete":     KeyDelete,
	"ArrowLeft":  KeyArrowLeft,
	"ArrowUp":    KeyArrowUp,
	"ArrowRight": KeyArrowRight,
	"ArrowDown":  KeyArrowDown,
}

// ParseKey maps a host key name to a Key. Unknown names report false and
// must be dropped by the caller.
func ParseKey(name string) (Key, bool) {
	k, ok := keyNames[name]
	return k, ok
}

func (k Key) String() string {
	for name, v := range keyNames {
		if v == k {
			return name
		}
	}
	return "Unknown"
}

// arrow returns the unit displacement of an arrow key.
func (k Key) arrow() (geom.Vector, bool) {
	switch k {
	case KeyArrowLeft:
		return geom.Vector{DX: -1}, true
	case KeyArrowRight:
		return geom.Vector{DX: 1}, true
	case KeyArrowUp:
		return geom.Vector{DY: -1}, true
	case KeyArrowDown:
		return geom.Vector{DY: 1}, true
	}
	return geom.Vector{}, false
}

// Interaction is one input event delivered to a tool.
type Interaction interface {
	interaction()
}

type (
	PointerDown struct {
		Point  geom.Point
		Device Device
	}
	PointerMove struct {
		Point  geom.Point
		Device Device
	}
	PointerUp struct {
		Point  geom.Point
		Device Device
	}
	KeyDown struct{ Key Key }
	KeyUp   struct{ Key Key }
)

func (PointerDown) interaction() {}
func (PointerMove) interaction() {}
func (PointerUp) interaction()   {}
func (KeyDown) interaction()     {}
func (KeyUp) interaction()       {}
