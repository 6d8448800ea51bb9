package element

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// index clock shared by every owner in the process
var clock atomic.Uint64

func nextIndex() uint64 {
	return clock.Add(1)
}

// Observe advances the clock past id so ids generated afterwards never reuse
// the index of a loaded entity.
func Observe(id ID) {
	for {
		cur := clock.Load()
		if id.Index <= cur || clock.CompareAndSwap(cur, id.Index) {
			return
		}
	}
}

// NewOwner returns a random owner id for sessions that were not given one.
func NewOwner() string {
	return uuid.NewString()
}
