// Package reactor turns declared properties into reactive cells on demand.
//
// A Type declares properties; objects created from it start with every
// property declared but not materialized. The first write installs the
// property's cell, and from then on reads and writes go through it:
//
//	var Todo = reactor.NewType("Todo").
//	    Scalar("title").
//	    Scalar("done").
//	    Derived("label", func(o *reactor.Object) any {
//	        return fmt.Sprintf("%v (%v)", o.MustGet("title"), o.MustGet("done"))
//	    })
//
//	todo := Todo.New()
//	todo.Set("title", "milk")
//	todo.Set("done", false)
//	todo.MustGet("label") // "milk (false)", recomputed only when title or done change
//
// # Property Kinds
//
//   - Scalar: a value cell, or an array cell when the first value is a slice.
//     With Deep, map[string]any values become reactive records.
//   - ArrayProp: an array cell exposed as *Array. Mutating methods on the
//     *Array notify once per call; with Deep, inserted records and slices are
//     materialized first.
//   - Derived: a memoized computed cell over a getter, created on first read.
//   - Event: a multicast *Event.
//
// # Extenders
//
// Extend and ExtendFunc attach cell.ExtendSpec values to a property. They are
// applied to the cell when it is created, supertype specs first. A subtype's
// extenders never leak to its supertype or siblings.
//
// # Subscriptions
//
// Subscribe observes an event, a func() any dependency (through a hidden
// computed cell that lives exactly as long as the subscription), or the
// structural diffs of an array. Disposable collects subscriptions for
// teardown.
//
// # Concurrency
//
// The engine is synchronous: a write notifies every subscriber, in
// subscription order, before it returns. Objects and arrays are not safe for
// concurrent use; serialize access externally.
package reactor
