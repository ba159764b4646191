// Package arrayops implements JavaScript-style array mutation semantics on
// []any. Both the reactive array cell and the exposed array wrapper use these
// helpers, so a routed call and a native call always produce the same
// sequence.
//
// Every function takes the current slice and returns the resulting slice.
// Callers must store the returned slice; the input may be modified in place.
package arrayops

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// Push appends items and returns the new slice.
func Push(s []any, items ...any) []any {
	return append(s, items...)
}

// Pop removes the last element. It returns the shortened slice and the
// removed value, or nil when s is empty.
func Pop(s []any) ([]any, any) {
	if len(s) == 0 {
		return s, nil
	}
	last := s[len(s)-1]
	s[len(s)-1] = nil
	return s[:len(s)-1], last
}

// Shift removes the first element.
func Shift(s []any) ([]any, any) {
	if len(s) == 0 {
		return s, nil
	}
	first := s[0]
	copy(s, s[1:])
	s[len(s)-1] = nil
	return s[:len(s)-1], first
}

// Unshift inserts items at the front.
func Unshift(s []any, items ...any) []any {
	return slices.Insert(s, 0, items...)
}

// Splice removes deleteCount elements starting at start and inserts items in
// their place. A negative start counts back from the end; start and
// deleteCount are clamped to the slice bounds. It returns the resulting slice
// and a fresh slice holding the removed elements.
func Splice(s []any, start, deleteCount int, items ...any) ([]any, []any) {
	n := len(s)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	removed := slices.Clone(s[start : start+deleteCount])
	s = slices.Replace(s, start, start+deleteCount, items...)
	return s, removed
}

// Reverse reverses s in place.
func Reverse(s []any) []any {
	slices.Reverse(s)
	return s
}

// Sort sorts s in place with a stable sort. A nil less orders elements by
// their string form, like a JavaScript sort without a comparator.
func Sort(s []any, less func(a, b any) bool) []any {
	if less == nil {
		less = func(a, b any) bool {
			return fmt.Sprint(a) < fmt.Sprint(b)
		}
	}
	sort.SliceStable(s, func(i, j int) bool {
		return less(s[i], s[j])
	})
	return s
}

// RemoveFunc removes every element for which pred returns true. The order of
// the remaining elements is preserved.
func RemoveFunc(s []any, pred func(any) bool) ([]any, []any) {
	var removed []any
	kept := s[:0]
	for _, v := range s {
		if pred(v) {
			removed = append(removed, v)
			continue
		}
		kept = append(kept, v)
	}
	clear(s[len(kept):])
	return kept, removed
}

// Remove removes every element identical to item.
func Remove(s []any, item any) ([]any, []any) {
	return RemoveFunc(s, func(v any) bool { return Same(v, item) })
}

// RemoveAll removes every element identical to one of items. With no items
// it empties the slice.
func RemoveAll(s []any, items ...any) ([]any, []any) {
	if len(items) == 0 {
		removed := slices.Clone(s)
		clear(s)
		return s[:0], removed
	}
	return RemoveFunc(s, func(v any) bool { return Contains(items, v) })
}

// Replace swaps the first element identical to old with item. It reports
// whether a replacement took place.
func Replace(s []any, old, item any) ([]any, bool) {
	i := IndexOf(s, old)
	if i < 0 {
		return s, false
	}
	s[i] = item
	return s, true
}

// Destroyable is implemented by elements that can be flagged as destroyed
// without being removed from their array.
type Destroyable interface {
	MarkDestroyed()
}

// DestroyFunc flags every matching element that implements Destroyable and
// returns how many were flagged.
func DestroyFunc(s []any, pred func(any) bool) int {
	n := 0
	for _, v := range s {
		if !pred(v) {
			continue
		}
		if d, ok := v.(Destroyable); ok {
			d.MarkDestroyed()
			n++
		}
	}
	return n
}

// DestroyAll flags elements identical to one of items, or every element when
// items is empty.
func DestroyAll(s []any, items ...any) int {
	if len(items) == 0 {
		return DestroyFunc(s, func(any) bool { return true })
	}
	return DestroyFunc(s, func(v any) bool { return Contains(items, v) })
}

// IndexOf returns the index of the first element identical to item, or -1.
func IndexOf(s []any, item any) int {
	for i, v := range s {
		if Same(v, item) {
			return i
		}
	}
	return -1
}

// Contains reports whether s holds an element identical to item.
func Contains(s []any, item any) bool {
	return IndexOf(s, item) >= 0
}

// Any reports whether pred matches at least one element.
func Any(s []any, pred func(any) bool) bool {
	return slices.ContainsFunc(s, pred)
}

// Same reports whether a and b are the same value. Comparable values are
// compared with ==; maps, slices and funcs compare by identity.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}
