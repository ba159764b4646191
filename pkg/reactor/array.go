package reactor

import (
	"iter"
	"slices"

	"github.com/vango-dev/reactor/internal/arrayops"
	"github.com/vango-dev/reactor/pkg/cell"
)

// Array is the array value client code sees under an array property.
//
// While attached to a property, every mutating method routes through the
// property's array cell: the result is the same sequence a plain slice
// operation would produce, and the cell notifies exactly once per call. In
// deep mode, inserted records and slices are materialized first.
//
// When the property is assigned another value the Array is detached: it
// keeps a private copy of its items and behaves as a plain array, with no
// notifications.
//
// The zero value is an empty detached array.
type Array struct {
	binding *arrayBinding
	items   []any
}

// arrayBinding ties an exposed Array to the cell of one property.
type arrayBinding struct {
	owner *Object
	key   string
	deep  bool

	cell    *cell.ObservableArray
	exposed *Array

	// inWrite is set while the cell's storage is being mutated; live then
	// points at the slice being edited. Calls made on the exposed array in
	// that window (from a sort comparator or a Mutate callback) act on live
	// directly instead of re-entering the cell.
	inWrite bool
	live    *[]any
}

// NewArray creates a standalone reactive array that belongs to no property.
// The items are copied; in deep mode records and slices among them are
// materialized.
func NewArray(items []any, deep bool) *Array {
	copied, _ := toItems(items)
	if deep {
		w := newWalker()
		for i := range copied {
			copied[i] = w.value(copied[i])
		}
	}
	return newBoundArray(copied, deep)
}

// newBoundArray adopts items as the storage of a fresh standalone cell.
func newBoundArray(items []any, deep bool) *Array {
	a := &Array{}
	a.binding = &arrayBinding{
		deep:    deep,
		cell:    cell.NewObservableArray(items),
		exposed: a,
	}
	return a
}

func (b *arrayBinding) subject() (string, string) {
	if b.owner == nil {
		return "", b.key
	}
	return b.owner.typeName(), b.key
}

// adopt turns v into the Array that b will expose and returns the items the
// cell should store. v must satisfy isArrayValue. An Array attached
// elsewhere is cloned so two properties never share one.
func (b *arrayBinding) adopt(v any, w *walker) (*Array, []any) {
	var next *Array
	var items []any

	if a, ok := v.(*Array); ok {
		if a.binding != nil {
			a = &Array{items: a.Peek()}
		}
		next, items = a, a.items
		if items == nil {
			items = []any{}
		}
	} else {
		items, _ = toItems(v)
		next = &Array{}
	}

	if b.deep {
		for i := range items {
			items[i] = w.value(items[i])
		}
	}

	next.items = nil
	next.binding = b
	return next, items
}

// assign replaces the property's array with v.
func (b *arrayBinding) assign(v any) {
	if prev := b.exposed; prev != nil {
		prev.items = slices.Clone(b.cell.PeekSlice())
		if prev.items == nil {
			prev.items = []any{}
		}
		prev.binding = nil
		b.exposed = nil
		detached(b)
	}

	next, items := b.adopt(v, newWalker())
	b.exposed = next
	b.store(items)
}

// store feeds items into the cell with the cell's equality check.
func (b *arrayBinding) store(items []any) {
	if eq := b.cell.Equality(); eq != nil && eq(b.cell.Peek(), items) {
		return
	}
	b.mutate(func(s *[]any) { *s = items })
}

// mutate edits the cell's storage inside its mutation bracket. The
// reentrancy flag is restored on every path, including panics.
func (b *arrayBinding) mutate(fn func(items *[]any)) {
	b.cell.Mutate(func(s []any) []any {
		prevInWrite, prevLive := b.inWrite, b.live
		b.inWrite, b.live = true, &s
		defer func() {
			b.inWrite, b.live = prevInWrite, prevLive
		}()

		fn(&s)
		return s
	})
}

// prepare materializes items about to be inserted, in deep mode.
func (b *arrayBinding) prepare(items []any) []any {
	if !b.deep || len(items) == 0 {
		return items
	}
	w := newWalker()
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = w.value(v)
	}
	return out
}

// native returns the slice to operate on directly: the private items of a
// detached array, or the live storage during a reentrant call. It returns
// nil when the call must go through the cell.
func (a *Array) native() *[]any {
	if a.binding == nil {
		return &a.items
	}
	if a.binding.inWrite {
		return a.binding.live
	}
	return nil
}

// IsAttached reports whether the array is backed by a reactive cell.
func (a *Array) IsAttached() bool {
	return a.binding != nil
}

// Deep reports whether inserted elements are materialized.
func (a *Array) Deep() bool {
	return a.binding != nil && a.binding.deep
}

// Cell returns the backing array cell, or nil when detached.
func (a *Array) Cell() *cell.ObservableArray {
	if a.binding == nil {
		return nil
	}
	return a.binding.cell
}

// view returns the current items, tracking the cell when attached.
// Callers must not modify the result.
func (a *Array) view() []any {
	if s := a.native(); s != nil {
		return *s
	}
	return a.binding.cell.Slice()
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.view())
}

// At returns the item at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	items := a.view()
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

// Items returns a copy of the items.
func (a *Array) Items() []any {
	return slices.Clone(a.view())
}

// Peek returns a copy of the items without tracking.
func (a *Array) Peek() []any {
	if s := a.native(); s != nil {
		return slices.Clone(*s)
	}
	return slices.Clone(a.binding.cell.PeekSlice())
}

// IndexOf returns the index of the first item identical to item, or -1.
func (a *Array) IndexOf(item any) int {
	return arrayops.IndexOf(a.view(), item)
}

// Slice returns a copy of items[start:end]. Negative indexes count from the
// end and both bounds are clamped, as for a JavaScript slice.
func (a *Array) Slice(start, end int) []any {
	items := a.view()
	n := len(items)
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return min(max(i, 0), n)
	}
	start, end = clamp(start), clamp(end)
	if start >= end {
		return []any{}
	}
	return slices.Clone(items[start:end])
}

// All iterates over the items.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, v := range a.view() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	if s := a.native(); s != nil {
		*s = arrayops.Push(*s, items...)
		return len(*s)
	}
	items = a.binding.prepare(items)
	var n int
	a.binding.mutate(func(s *[]any) {
		*s = arrayops.Push(*s, items...)
		n = len(*s)
	})
	return n
}

// Pop removes and returns the last item.
func (a *Array) Pop() any {
	var v any
	if s := a.native(); s != nil {
		*s, v = arrayops.Pop(*s)
		return v
	}
	a.binding.mutate(func(s *[]any) {
		*s, v = arrayops.Pop(*s)
	})
	return v
}

// Shift removes and returns the first item.
func (a *Array) Shift() any {
	var v any
	if s := a.native(); s != nil {
		*s, v = arrayops.Shift(*s)
		return v
	}
	a.binding.mutate(func(s *[]any) {
		*s, v = arrayops.Shift(*s)
	})
	return v
}

// Unshift inserts items at the front and returns the new length.
func (a *Array) Unshift(items ...any) int {
	if s := a.native(); s != nil {
		*s = arrayops.Unshift(*s, items...)
		return len(*s)
	}
	items = a.binding.prepare(items)
	var n int
	a.binding.mutate(func(s *[]any) {
		*s = arrayops.Unshift(*s, items...)
		n = len(*s)
	})
	return n
}

// Splice removes deleteCount items at start, inserts items in their place
// and returns the removed items.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	var removed []any
	if s := a.native(); s != nil {
		*s, removed = arrayops.Splice(*s, start, deleteCount, items...)
		return removed
	}
	items = a.binding.prepare(items)
	a.binding.mutate(func(s *[]any) {
		*s, removed = arrayops.Splice(*s, start, deleteCount, items...)
	})
	return removed
}

// Set replaces the item at i and returns the previous one. It is a
// one-item Splice.
func (a *Array) Set(i int, item any) any {
	removed := a.Splice(i, 1, item)
	if len(removed) == 0 {
		return nil
	}
	return removed[0]
}

// Reverse reverses the items in place.
func (a *Array) Reverse() {
	if s := a.native(); s != nil {
		*s = arrayops.Reverse(*s)
		return
	}
	a.binding.mutate(func(s *[]any) {
		*s = arrayops.Reverse(*s)
	})
}

// Sort sorts the items with less, or by their string form when less is nil.
// The sort is stable.
func (a *Array) Sort(less func(x, y any) bool) {
	if s := a.native(); s != nil {
		*s = arrayops.Sort(*s, less)
		return
	}
	a.binding.mutate(func(s *[]any) {
		*s = arrayops.Sort(*s, less)
	})
}

// Remove removes every item identical to item and returns them.
func (a *Array) Remove(item any) []any {
	return a.RemoveFunc(func(v any) bool { return arrayops.Same(v, item) })
}

// RemoveFunc removes every item matching pred and returns them. Nothing is
// notified when no item matches.
func (a *Array) RemoveFunc(pred func(any) bool) []any {
	var removed []any
	if s := a.native(); s != nil {
		*s, removed = arrayops.RemoveFunc(*s, pred)
		return removed
	}
	if !arrayops.Any(a.binding.cell.PeekSlice(), pred) {
		return nil
	}
	a.binding.mutate(func(s *[]any) {
		*s, removed = arrayops.RemoveFunc(*s, pred)
	})
	return removed
}

// RemoveAll removes the given items, or every item when none are given.
func (a *Array) RemoveAll(items ...any) []any {
	var removed []any
	if s := a.native(); s != nil {
		*s, removed = arrayops.RemoveAll(*s, items...)
		return removed
	}
	a.binding.mutate(func(s *[]any) {
		*s, removed = arrayops.RemoveAll(*s, items...)
	})
	return removed
}

// Destroy flags every item identical to item as destroyed without removing
// it. Only items with a MarkDestroyed method, such as *Object, are flagged.
func (a *Array) Destroy(item any) {
	a.DestroyFunc(func(v any) bool { return arrayops.Same(v, item) })
}

// DestroyFunc flags every item matching pred as destroyed.
func (a *Array) DestroyFunc(pred func(any) bool) {
	if s := a.native(); s != nil {
		arrayops.DestroyFunc(*s, pred)
		return
	}
	a.binding.mutate(func(s *[]any) {
		arrayops.DestroyFunc(*s, pred)
	})
}

// DestroyAll flags the given items, or every item, as destroyed.
func (a *Array) DestroyAll(items ...any) {
	if s := a.native(); s != nil {
		arrayops.DestroyAll(*s, items...)
		return
	}
	a.binding.mutate(func(s *[]any) {
		arrayops.DestroyAll(*s, items...)
	})
}

// Replace swaps the first item identical to old with item. It reports
// whether old was found; nothing is notified when it was not.
func (a *Array) Replace(old, item any) bool {
	if s := a.native(); s != nil {
		var ok bool
		*s, ok = arrayops.Replace(*s, old, item)
		return ok
	}
	if arrayops.IndexOf(a.binding.cell.PeekSlice(), old) < 0 {
		return false
	}
	prepared := a.binding.prepare([]any{item})[0]
	a.binding.mutate(func(s *[]any) {
		*s, _ = arrayops.Replace(*s, old, prepared)
	})
	return true
}

// Mutate runs fn on the live items so it can assign by index. The call is
// bracketed by the cell's mutation notifications, and in deep mode every
// item is materialized again afterwards. Methods of a called from inside fn
// act on the live items without notifying.
func (a *Array) Mutate(fn func(items []any)) {
	if s := a.native(); s != nil {
		fn(*s)
		return
	}
	b := a.binding
	b.mutate(func(s *[]any) {
		fn(*s)
		if b.deep {
			w := newWalker()
			for i, v := range *s {
				(*s)[i] = w.value(v)
			}
		}
	})
}

// Subscribe registers fn on the backing cell for event ("change",
// "beforeChange" or "arrayChange"). A detached array has no cell and fails
// with ErrNotReactiveArray.
func (a *Array) Subscribe(fn func(any), event string) (*cell.Subscription, error) {
	if a.binding == nil {
		return nil, newError(ErrNotReactiveArray, "", "")
	}
	return a.binding.cell.Subscribe(fn, event), nil
}
