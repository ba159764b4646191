package reactor

import (
	"reflect"
	"sort"
	"sync"
	"unsafe"
)

// recordMemo maps every deep-materialized map to its record, so the same map
// written anywhere later yields the same record. Entries hold the map so its
// address is never reused while the entry exists. ForgetRecord drops one.
var recordMemo = struct {
	sync.Mutex
	entries map[unsafe.Pointer]recordEntry
}{entries: make(map[unsafe.Pointer]recordEntry)}

type recordEntry struct {
	src map[string]any
	obj *Object
}

func lookupRecord(p unsafe.Pointer) (*Object, bool) {
	recordMemo.Lock()
	defer recordMemo.Unlock()
	e, ok := recordMemo.entries[p]
	return e.obj, ok
}

func rememberRecord(p unsafe.Pointer, m map[string]any, obj *Object) {
	recordMemo.Lock()
	recordMemo.entries[p] = recordEntry{src: m, obj: obj}
	recordMemo.Unlock()
}

// ForgetRecord drops the link between o and the map it was built from. A
// later deep write of that map builds a new record. It is a no-op for typed
// objects and records already forgotten.
func ForgetRecord(o *Object) {
	if o == nil || o.source == nil {
		return
	}
	recordMemo.Lock()
	if e, ok := recordMemo.entries[o.source]; ok && e.obj == o {
		delete(recordMemo.entries, o.source)
	}
	recordMemo.Unlock()
	o.source = nil
}

// walker memoizes one deep materialization pass so shared and cyclic
// slices are converted once. Records are memoized in recordMemo.
type walker struct {
	arrays map[sliceKey]*Array
}

// sliceKey identifies a slice by its backing array and length.
type sliceKey struct {
	ptr uintptr
	len int
}

func newWalker() *walker {
	return &walker{
		arrays: make(map[sliceKey]*Array),
	}
}

// prepare converts v for storage in a cell: in deep mode plain records become
// *Object records and plain arrays become reactive *Array values. Anything
// else, and everything in shallow mode, is returned unchanged.
func prepare(v any, deep bool, w *walker) any {
	if !deep {
		return v
	}
	return w.value(v)
}

func (w *walker) value(v any) any {
	switch Classify(v) {
	case ShapeRecord:
		return w.record(v.(map[string]any))
	case ShapeArray:
		return w.array(v)
	default:
		return v
	}
}

// record converts m into a record whose fields are deep reactive scalars.
// m itself is left untouched. A map converted before returns its existing
// record; a nil map always gets a fresh one.
func (w *walker) record(m map[string]any) *Object {
	obj := newRecord()
	if p := reflect.ValueOf(m).UnsafePointer(); p != nil {
		if known, ok := lookupRecord(p); ok {
			return known
		}
		obj.source = p
		rememberRecord(p, m, obj)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		d := obj.addField(k)
		// Records have no extenders, so materialization cannot fail.
		_ = obj.materialize(obj.slot(d), m[k], w)
	}
	return obj
}

// array converts a slice into a standalone deep reactive array.
func (w *walker) array(v any) *Array {
	rv := reflect.ValueOf(v)
	key := sliceKey{ptr: rv.Pointer(), len: rv.Len()}
	if key.len > 0 {
		if a, ok := w.arrays[key]; ok {
			return a
		}
	}

	items, _ := toItems(v)
	a := newBoundArray(items, true)
	if key.len > 0 {
		w.arrays[key] = a
	}
	for i := range items {
		items[i] = w.value(items[i])
	}
	return a
}

func newRecord() *Object {
	return &Object{slots: make(map[string]*slot)}
}

// NewRecord deep-materializes m into an untyped record. Nested maps become
// records and nested slices become reactive arrays.
func NewRecord(m map[string]any) *Object {
	return newWalker().record(m)
}

// addField declares a deep scalar field on a record.
func (o *Object) addField(key string) *propDecl {
	d := &propDecl{key: key, kind: KindScalar, deep: true}
	o.fields = append(o.fields, d)
	return d
}
