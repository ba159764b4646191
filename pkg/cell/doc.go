// Package cell provides the reactive primitives the reactor engine is built
// on: writable observables, observable arrays, lazily evaluated computed
// cells and bare multicast subscribables.
//
// Dependencies are tracked automatically at runtime. Reading a cell with Get
// while a computed cell is evaluating subscribes that computed cell to the
// read cell, and a later write marks it dirty.
//
// # Core Types
//
// Observable is a reactive value container:
//
//	count := cell.NewObservable(0)
//	count.Get()  // Read (subscribes current listener)
//	count.Set(5) // Write (notifies subscribers)
//
// Computed is a cached derived computation:
//
//	doubled := cell.NewComputed(func() any { return count.Get().(int) * 2 })
//	doubled.Get() // Recomputes only if dependencies changed
//
// ObservableArray holds a []any and reports structural diffs:
//
//	items := cell.NewObservableArray(nil)
//	items.Subscribe(func(v any) {
//	    for _, c := range v.([]cell.ArrayChange) { ... }
//	}, cell.EventArrayChange)
//	items.Push("a")
//
// # Events
//
// Every cell is also a Subscribable. Writes notify "beforeChange" subscribers
// with the old value, then "change" subscribers with the new one, in
// subscription order, before the write returns.
//
// # Extenders
//
// Extend applies named modifiers to a cell:
//
//	count.Extend(cell.ExtendSpec{"notify": "always"})
//
// New extenders are added with RegisterExtender.
//
// # Batching
//
// Batch defers dependency invalidation until the outermost batch returns.
// Event subscribers are always notified synchronously.
//
// # Thread Safety
//
// Cells guard their own state, but notification order is only defined for a
// single goroutine. The tracking context is per goroutine.
package cell
