package reactor

import (
	"strings"
	"unsafe"

	"github.com/vango-dev/reactor/pkg/cell"
)

// slotState is the two-state lifecycle of a property on one object.
type slotState uint8

const (
	stateDeclared slotState = iota
	stateMaterialized
)

// valueCell is what a scalar property's cell must offer after extenders ran.
type valueCell interface {
	cell.Cell
	Get() any
	Set(v any)
}

// readCell is what a derived property's cell must offer after extenders ran.
type readCell interface {
	cell.Cell
	Get() any
}

// slot is one property of one object. It moves from declared to
// materialized exactly once.
type slot struct {
	decl  *propDecl
	state slotState

	// Exactly one of these is set once materialized.
	value   valueCell
	array   *arrayBinding
	derived readCell
	event   *Event
}

// raw returns the cell behind the slot.
func (s *slot) raw() cell.Cell {
	switch {
	case s.value != nil:
		return s.value
	case s.array != nil:
		return s.array.cell
	case s.derived != nil:
		return s.derived
	}
	return nil
}

// Object is an instance of a Type, or an untyped record produced by deep
// materialization of a map[string]any.
//
// Objects are not safe for concurrent use. Reads and writes, and the
// notifications they trigger, run to completion on the caller's goroutine.
type Object struct {
	typ *Type

	// fields declares the keys of an untyped record, in order.
	fields []*propDecl

	slots     map[string]*slot
	destroyed bool

	// source is the identity of the map a record was built from.
	source unsafe.Pointer
}

// Type returns the object's type, or nil for a record.
func (o *Object) Type() *Type {
	return o.typ
}

func (o *Object) typeName() string {
	if o.typ == nil {
		return "record"
	}
	return o.typ.name
}

// decl resolves key on the object's type, or among the record fields.
func (o *Object) decl(key string) *propDecl {
	if o.typ != nil {
		return o.typ.lookup(key)
	}
	for _, d := range o.fields {
		if d.key == key {
			return d
		}
	}
	return nil
}

// Keys returns the declared keys.
func (o *Object) Keys() []string {
	if o.typ != nil {
		return o.typ.Keys()
	}
	keys := make([]string, len(o.fields))
	for i, d := range o.fields {
		keys[i] = d.key
	}
	return keys
}

// Has reports whether key is declared.
func (o *Object) Has(key string) bool {
	return o.decl(key) != nil
}

// Materialized reports whether key's cell exists.
func (o *Object) Materialized(key string) bool {
	s, ok := o.slots[key]
	return ok && s.state == stateMaterialized
}

func (o *Object) slot(d *propDecl) *slot {
	s, ok := o.slots[d.key]
	if !ok {
		s = &slot{decl: d}
		o.slots[d.key] = s
	}
	return s
}

// MarkDestroyed flags the object as destroyed. Arrays' Destroy methods call
// it instead of removing the object. A destroyed record is forgotten, see
// ForgetRecord.
func (o *Object) MarkDestroyed() {
	o.destroyed = true
	ForgetRecord(o)
}

// Destroyed reports whether MarkDestroyed was called.
func (o *Object) Destroyed() bool {
	return o.destroyed
}

// Get reads key. Inside a tracked context the read subscribes the current
// listener to the property's cell.
//
// Scalar properties return their value, or *Array when they hold an array.
// Array properties return *Array. Derived properties return the computed
// value, creating the cell on first read. Events return *Event.
//
// Get("_" + key) returns the raw cell of a property declared with Expose,
// without tracking.
func (o *Object) Get(key string) (any, error) {
	if raw, ok := strings.CutPrefix(key, "_"); ok {
		if d := o.decl(raw); d != nil && d.expose {
			return o.exposed(d)
		}
	}

	d := o.decl(key)
	if d == nil {
		if o.typ == nil {
			return nil, newError(ErrUninitialized, o.typeName(), key)
		}
		return nil, newError(ErrUnknownProperty, o.typeName(), key)
	}
	s := o.slot(d)

	switch d.kind {
	case KindDerived:
		if err := o.materializeDerived(s); err != nil {
			return nil, err
		}
		return s.derived.Get(), nil
	case KindEvent:
		o.materializeEvent(s)
		return s.event, nil
	}

	if s.state != stateMaterialized {
		return nil, newError(ErrUninitialized, o.typeName(), key)
	}
	if s.array != nil {
		s.array.cell.Get()
		return s.array.exposed, nil
	}
	return s.value.Get(), nil
}

func (o *Object) exposed(d *propDecl) (any, error) {
	s := o.slot(d)
	if d.kind == KindDerived {
		if err := o.materializeDerived(s); err != nil {
			return nil, err
		}
	}
	if s.state != stateMaterialized {
		return nil, newError(ErrUninitialized, o.typeName(), d.key)
	}
	return s.raw(), nil
}

// MustGet is like Get but panics on error.
func (o *Object) MustGet(key string) any {
	v, err := o.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

// GetAs reads key and asserts its type.
func GetAs[T any](o *Object, key string) (T, error) {
	var zero T
	v, err := o.Get(key)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, newError(ErrWrongType, o.typeName(), key)
	}
	return t, nil
}

// Peek reads key without tracking.
func (o *Object) Peek(key string) (any, error) {
	var v any
	var err error
	cell.Untracked(func() {
		v, err = o.Get(key)
	})
	return v, err
}

// Array reads key and returns it as *Array.
func (o *Object) Array(key string) (*Array, error) {
	v, err := o.Get(key)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*Array)
	if !ok {
		return nil, newError(ErrNotArray, o.typeName(), key)
	}
	return a, nil
}

// Event reads key and returns it as *Event.
func (o *Object) Event(key string) (*Event, error) {
	d := o.decl(key)
	if d == nil {
		return nil, newError(ErrUnknownProperty, o.typeName(), key)
	}
	if d.kind != KindEvent {
		return nil, newError(ErrNoCell, o.typeName(), key)
	}
	s := o.slot(d)
	o.materializeEvent(s)
	return s.event, nil
}

// Set writes key. The first write materializes the property's cell; later
// writes go through that cell and notify when the value changed.
//
// Writing an unknown key on a record adds a deep reactive field.
func (o *Object) Set(key string, v any) error {
	if strings.HasPrefix(key, "_") {
		if d := o.decl(key[1:]); d != nil && d.expose {
			return newError(ErrReadOnly, o.typeName(), key)
		}
	}

	d := o.decl(key)
	if d == nil {
		if o.typ != nil {
			return newError(ErrUnknownProperty, o.typeName(), key)
		}
		d = o.addField(key)
	}
	s := o.slot(d)

	switch d.kind {
	case KindDerived:
		if d.setter == nil {
			return newError(ErrReadOnly, o.typeName(), key)
		}
		var err error
		cell.Untracked(func() {
			err = d.setter(o, v)
		})
		return err
	case KindEvent:
		return newError(ErrReadOnly, o.typeName(), key)
	case KindArray:
		if !isArrayValue(v) {
			return newError(ErrNotArray, o.typeName(), key)
		}
	}

	if s.state != stateMaterialized {
		return o.materialize(s, v, newWalker())
	}
	if s.array != nil {
		if !isArrayValue(v) {
			return newError(ErrNotArray, o.typeName(), key)
		}
		s.array.assign(v)
		return nil
	}
	s.value.Set(prepare(v, d.deep, newWalker()))
	return nil
}

// MustSet is like Set but panics on error.
func (o *Object) MustSet(key string, v any) {
	if err := o.Set(key, v); err != nil {
		panic(err)
	}
}

// materialize installs the cell of a scalar or array slot, seeded with v.
func (o *Object) materialize(s *slot, v any, w *walker) error {
	d := s.decl
	if d.kind == KindArray || (v != nil && isArrayValue(v)) {
		return o.materializeArray(s, v, w)
	}

	obs := cell.NewObservable(prepare(v, d.deep, w))
	c, err := o.applyExtenders(d.key, obs)
	if err != nil {
		return err
	}
	vc, ok := c.(valueCell)
	if !ok {
		return wrapError(ErrExtenderFailed, o.typeName(), d.key, cell.ErrInvalidExtenderOption)
	}
	s.value = vc
	s.state = stateMaterialized
	materialized(o, d.key, KindScalar)
	return nil
}

func (o *Object) materializeArray(s *slot, v any, w *walker) error {
	d := s.decl
	b := &arrayBinding{owner: o, key: d.key, deep: d.deep}
	next, items := b.adopt(v, w)
	b.cell = cell.NewObservableArray(items)
	b.exposed = next

	c, err := o.applyExtenders(d.key, b.cell)
	if err == nil {
		arr, ok := c.(*cell.ObservableArray)
		if !ok {
			err = wrapError(ErrExtenderFailed, o.typeName(), d.key, cell.ErrInvalidExtenderOption)
		}
		b.cell = arr
	}
	if err != nil {
		next.binding, next.items = nil, items
		return err
	}

	s.array = b
	s.state = stateMaterialized
	materialized(o, d.key, KindArray)
	return nil
}

// materializeDerived creates the computed cell of a derived slot on first
// use.
func (o *Object) materializeDerived(s *slot) error {
	if s.state == stateMaterialized {
		return nil
	}
	d := s.decl
	comp := cell.NewComputed(func() any { return d.getter(o) }, cell.Pure(d.pure))
	c, err := o.applyExtenders(d.key, comp)
	if err != nil {
		comp.Dispose()
		return err
	}
	rc, ok := c.(readCell)
	if !ok {
		comp.Dispose()
		return wrapError(ErrExtenderFailed, o.typeName(), d.key, cell.ErrInvalidExtenderOption)
	}
	s.derived = rc
	s.state = stateMaterialized
	materialized(o, d.key, KindDerived)
	return nil
}

func (o *Object) materializeEvent(s *slot) {
	if s.state == stateMaterialized {
		return
	}
	s.event = NewEvent(s.decl.key)
	s.state = stateMaterialized
	materialized(o, s.decl.key, KindEvent)
}

// applyExtenders folds the extender specs declared for key onto c.
func (o *Object) applyExtenders(key string, c cell.Cell) (cell.Cell, error) {
	if o.typ == nil {
		return c, nil
	}
	for _, spec := range o.typ.extendersFor(key) {
		next, err := c.Extend(spec.resolve(o))
		if err != nil {
			return nil, wrapError(ErrExtenderFailed, o.typeName(), key, err)
		}
		c = next
	}
	return c, nil
}
