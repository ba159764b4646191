package cell

import "sync/atomic"

// globalIDCounter is the source of unique IDs for all cells and listeners.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
