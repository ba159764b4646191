package cell

import (
	"slices"

	"github.com/vango-dev/reactor/internal/arrayops"
)

// ObservableArray is an Observable whose value is a []any. Mutating methods
// bracket the change with ValueWillMutate/ValueHasMutated, so each call
// notifies exactly once. Subscribers of EventArrayChange receive a
// []ArrayChange describing the elements added and removed by the call.
type ObservableArray struct {
	Observable

	// pending is the snapshot taken before a mutation while someone listens
	// for array changes.
	pending   []any
	capturing bool
}

// NewObservableArray creates an array cell. The slice is adopted, not copied.
func NewObservableArray(items []any) *ObservableArray {
	a := &ObservableArray{}
	a.id = nextID()
	a.value = items
	a.equal = DefaultEquality
	return a
}

// Slice returns the current items and subscribes the current listener.
// Callers must not modify the returned slice.
func (a *ObservableArray) Slice() []any {
	return asSlice(a.Get())
}

// PeekSlice returns the current items without subscribing.
// Callers must not modify the returned slice.
func (a *ObservableArray) PeekSlice() []any {
	return asSlice(a.Peek())
}

// Len returns the number of items and subscribes the current listener.
func (a *ObservableArray) Len() int {
	return len(a.Slice())
}

// Set replaces the whole array. v must be a []any or nil.
func (a *ObservableArray) Set(v any) {
	items := asSlice(v)
	if eq := a.Equality(); eq != nil && eq(a.Peek(), v) {
		return
	}
	a.Mutate(func([]any) []any { return items })
}

// ValueWillMutate snapshots the items for diffing and notifies
// "beforeChange" subscribers.
func (a *ObservableArray) ValueWillMutate() {
	a.capture()
	a.Observable.ValueWillMutate()
}

// ValueHasMutated notifies "change" subscribers, then "arrayChange"
// subscribers, then dependents.
func (a *ObservableArray) ValueHasMutated() {
	a.valueHasMutated(a.flushChanges)
}

// Mutate runs fn on the live items between ValueWillMutate and
// ValueHasMutated. fn may assign by index in place and returns the slice to
// store.
func (a *ObservableArray) Mutate(fn func(items []any) []any) {
	a.ValueWillMutate()

	done := false
	defer func() {
		if !done {
			// fn panicked: drop the snapshot so the next mutation diffs
			// from scratch.
			a.pending, a.capturing = nil, false
		}
	}()

	items := fn(a.PeekSlice())
	done = true

	a.mu.Lock()
	a.value = items
	a.mu.Unlock()

	a.ValueHasMutated()
}

// Push appends items and returns the new length.
func (a *ObservableArray) Push(items ...any) int {
	var n int
	a.Mutate(func(s []any) []any {
		s = arrayops.Push(s, items...)
		n = len(s)
		return s
	})
	return n
}

// Pop removes and returns the last item.
func (a *ObservableArray) Pop() any {
	var v any
	a.Mutate(func(s []any) []any {
		s, v = arrayops.Pop(s)
		return s
	})
	return v
}

// Shift removes and returns the first item.
func (a *ObservableArray) Shift() any {
	var v any
	a.Mutate(func(s []any) []any {
		s, v = arrayops.Shift(s)
		return s
	})
	return v
}

// Unshift inserts items at the front and returns the new length.
func (a *ObservableArray) Unshift(items ...any) int {
	var n int
	a.Mutate(func(s []any) []any {
		s = arrayops.Unshift(s, items...)
		n = len(s)
		return s
	})
	return n
}

// Splice removes deleteCount items at start, inserts items there and
// returns the removed items.
func (a *ObservableArray) Splice(start, deleteCount int, items ...any) []any {
	var removed []any
	a.Mutate(func(s []any) []any {
		s, removed = arrayops.Splice(s, start, deleteCount, items...)
		return s
	})
	return removed
}

// Reverse reverses the items in place.
func (a *ObservableArray) Reverse() {
	a.Mutate(arrayops.Reverse)
}

// Sort sorts the items with less, or by string form when less is nil.
func (a *ObservableArray) Sort(less func(x, y any) bool) {
	a.Mutate(func(s []any) []any {
		return arrayops.Sort(s, less)
	})
}

// Remove removes every item identical to item. Nothing is notified when no
// item matches.
func (a *ObservableArray) Remove(item any) []any {
	return a.RemoveFunc(func(v any) bool { return arrayops.Same(v, item) })
}

// RemoveFunc removes every item matching pred. Nothing is notified when no
// item matches.
func (a *ObservableArray) RemoveFunc(pred func(any) bool) []any {
	if !arrayops.Any(a.PeekSlice(), pred) {
		return nil
	}
	var removed []any
	a.Mutate(func(s []any) []any {
		s, removed = arrayops.RemoveFunc(s, pred)
		return s
	})
	return removed
}

// RemoveAll removes the given items, or every item when none are given.
func (a *ObservableArray) RemoveAll(items ...any) []any {
	var removed []any
	a.Mutate(func(s []any) []any {
		s, removed = arrayops.RemoveAll(s, items...)
		return s
	})
	return removed
}

// Destroy flags every item identical to item as destroyed.
func (a *ObservableArray) Destroy(item any) {
	a.DestroyFunc(func(v any) bool { return arrayops.Same(v, item) })
}

// DestroyFunc flags every item matching pred as destroyed.
func (a *ObservableArray) DestroyFunc(pred func(any) bool) {
	a.Mutate(func(s []any) []any {
		arrayops.DestroyFunc(s, pred)
		return s
	})
}

// DestroyAll flags the given items, or every item, as destroyed.
func (a *ObservableArray) DestroyAll(items ...any) {
	a.Mutate(func(s []any) []any {
		arrayops.DestroyAll(s, items...)
		return s
	})
}

// Replace swaps the first item identical to old with item.
func (a *ObservableArray) Replace(old, item any) {
	i := arrayops.IndexOf(a.PeekSlice(), old)
	if i < 0 {
		return
	}
	a.Mutate(func(s []any) []any {
		s[i] = item
		return s
	})
}

// IndexOf returns the index of item, or -1, without subscribing.
func (a *ObservableArray) IndexOf(item any) int {
	return arrayops.IndexOf(a.PeekSlice(), item)
}

// Extend applies spec to the array cell.
func (a *ObservableArray) Extend(spec ExtendSpec) (Cell, error) {
	return applySpec(a, spec)
}

// capture snapshots the items if array-change subscribers exist. Nested
// brackets keep the outermost snapshot.
func (a *ObservableArray) capture() {
	if a.capturing || !a.HasSubscriptions(EventArrayChange) {
		return
	}
	a.pending = slices.Clone(a.PeekSlice())
	a.capturing = true
}

// flushChanges diffs the snapshot against the current items and notifies
// "arrayChange" subscribers when anything moved.
func (a *ObservableArray) flushChanges() {
	if !a.capturing {
		return
	}
	prev := a.pending
	a.pending, a.capturing = nil, false

	if changes := CompareArrays(prev, a.PeekSlice()); len(changes) > 0 {
		a.NotifySubscribers(changes, EventArrayChange)
	}
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

var _ Cell = (*ObservableArray)(nil)
