package cell

// Batch groups multiple writes into a single invalidation phase.
// Listeners marked dirty inside fn are collected, deduplicated and notified
// once when the outermost batch completes. Event subscribers ("change",
// "beforeChange", "arrayChange") are not deferred.
//
//	cell.Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	})
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
			releaseTrackingContext()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// Untracked runs fn without tracking reads as dependencies.
//
// For a single cell, Peek is clearer.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer restoreListener(old)
	fn()
}

// Ignore evaluates fn untracked and returns its result.
func Ignore(fn func() any) any {
	var v any
	Untracked(func() {
		v = fn()
	})
	return v
}
