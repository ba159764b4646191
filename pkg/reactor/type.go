package reactor

import (
	"sync"

	"github.com/vango-dev/reactor/pkg/cell"
)

// Kind is the declared kind of a property.
type Kind int

const (
	// KindScalar properties hold a value cell, or an array cell when the
	// first value written is a slice.
	KindScalar Kind = iota

	// KindArray properties always hold an array cell.
	KindArray

	// KindDerived properties hold a memoized computed cell over a getter.
	KindDerived

	// KindEvent properties hold a multicast event.
	KindEvent
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindDerived:
		return "derived"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// propDecl is one declared property.
type propDecl struct {
	key    string
	kind   Kind
	deep   bool
	expose bool

	getter func(*Object) any
	setter func(*Object, any) error
	pure   bool
}

// extenderSpec is either a literal spec or a factory evaluated against the
// owning object.
type extenderSpec struct {
	spec    cell.ExtendSpec
	factory func(*Object) cell.ExtendSpec
}

func (s extenderSpec) resolve(o *Object) cell.ExtendSpec {
	if s.factory != nil {
		return s.factory(o)
	}
	return s.spec
}

// Type declares the reactive properties of a family of objects. Types are
// declared once, usually in package-level variables, and are safe for
// concurrent use after that.
//
//	var Todo = reactor.NewType("Todo").
//	    Scalar("title").
//	    Scalar("done").
//	    Extend("title", cell.ExtendSpec{"notify": "always"})
//
// Declaration mistakes are programming errors and panic with an *Error.
type Type struct {
	name   string
	parent *Type

	// props holds this type's own declarations; order their declaration
	// sequence.
	props map[string]*propDecl
	order []string

	// extenders is this type's extender table. Until ownsExtenders is set the
	// table is read from the nearest ancestor that owns one.
	extenders     map[string][]extenderSpec
	ownsExtenders bool

	mu sync.RWMutex
}

// TypeOption configures a Type.
type TypeOption func(*Type)

// Extends makes parent the supertype: its properties and extenders are
// inherited.
func Extends(parent *Type) TypeOption {
	return func(t *Type) {
		t.parent = parent
	}
}

// NewType declares a new type.
func NewType(name string, opts ...TypeOption) *Type {
	t := &Type{
		name:  name,
		props: make(map[string]*propDecl),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the type's name.
func (t *Type) Name() string {
	return t.name
}

// Parent returns the supertype, or nil.
func (t *Type) Parent() *Type {
	return t.parent
}

// PropOption configures a scalar or array property.
type PropOption func(*propDecl)

// Deep makes the property materialize nested records and arrays.
func Deep() PropOption {
	return func(d *propDecl) {
		d.deep = true
	}
}

// Expose makes the property's raw cell readable as Get("_" + key).
func Expose() PropOption {
	return func(d *propDecl) {
		d.expose = true
	}
}

// Scalar declares a reactive property. The first value written decides its
// shape: a slice or *Array installs an array cell, anything else a value
// cell.
func (t *Type) Scalar(key string, opts ...PropOption) *Type {
	d := &propDecl{key: key, kind: KindScalar}
	for _, opt := range opts {
		opt(d)
	}
	t.declare(d)
	return t
}

// ArrayProp declares a reactive array property.
func (t *Type) ArrayProp(key string, opts ...PropOption) *Type {
	d := &propDecl{key: key, kind: KindArray}
	for _, opt := range opts {
		opt(d)
	}
	t.declare(d)
	return t
}

// DerivedOption configures a derived property.
type DerivedOption func(*propDecl)

// WithSetter makes a derived property writable. The setter runs untracked.
func WithSetter(fn func(o *Object, v any) error) DerivedOption {
	return func(d *propDecl) {
		d.setter = fn
	}
}

// Pure controls when the derived cell evaluates. See cell.Pure.
func Pure(pure bool) DerivedOption {
	return func(d *propDecl) {
		d.pure = pure
	}
}

// ExposeDerived makes the derived property's computed cell readable as
// Get("_" + key).
func ExposeDerived() DerivedOption {
	return func(d *propDecl) {
		d.expose = true
	}
}

// Derived declares a memoized property computed by getter. The cell is
// created on the first read of each object.
func (t *Type) Derived(key string, getter func(o *Object) any, opts ...DerivedOption) *Type {
	if getter == nil {
		panic(newError(ErrMissingGetter, t.name, key))
	}
	d := &propDecl{key: key, kind: KindDerived, getter: getter, pure: true}
	for _, opt := range opts {
		opt(d)
	}
	t.declare(d)
	return t
}

// Event declares an event property.
func (t *Type) Event(key string) *Type {
	t.declare(&propDecl{key: key, kind: KindEvent})
	return t
}

func (t *Type) declare(d *propDecl) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.props[d.key]; ok {
		panic(newError(ErrDuplicateProperty, t.name, d.key))
	}
	t.props[d.key] = d
	t.order = append(t.order, d.key)
}

// Extend appends an extender spec for key. Specs are applied to the
// property's cell in registration order, supertype specs first.
func (t *Type) Extend(key string, spec cell.ExtendSpec) *Type {
	t.addExtender(key, extenderSpec{spec: spec})
	return t
}

// ExtendFunc appends an extender factory for key. The factory is called with
// the owning object each time the property is materialized.
func (t *Type) ExtendFunc(key string, factory func(o *Object) cell.ExtendSpec) *Type {
	t.addExtender(key, extenderSpec{factory: factory})
	return t
}

func (t *Type) addExtender(key string, spec extenderSpec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ownsExtenders {
		// Copy on write: clone the inherited table and every list so
		// additions here stay invisible to ancestors and siblings. Only
		// ancestors' locks are taken while t.mu is held.
		t.extenders = t.parent.cloneExtenderTable()
		t.ownsExtenders = true
	}
	t.extenders[key] = append(t.extenders[key], spec)
}

// cloneExtenderTable returns a deep copy of the table in effect for t, taken
// under the owning type's lock.
func (t *Type) cloneExtenderTable() map[string][]extenderSpec {
	for ; t != nil; t = t.parent {
		t.mu.RLock()
		if t.ownsExtenders {
			own := make(map[string][]extenderSpec, len(t.extenders)+1)
			for k, specs := range t.extenders {
				own[k] = append([]extenderSpec(nil), specs...)
			}
			t.mu.RUnlock()
			return own
		}
		t.mu.RUnlock()
	}
	return make(map[string][]extenderSpec)
}

// extendersFor returns a copy of the specs in effect for key.
func (t *Type) extendersFor(key string) []extenderSpec {
	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		if cur.ownsExtenders {
			specs := append([]extenderSpec(nil), cur.extenders[key]...)
			cur.mu.RUnlock()
			return specs
		}
		cur.mu.RUnlock()
	}
	return nil
}

// lookup resolves key through the type hierarchy.
func (t *Type) lookup(key string) *propDecl {
	for ; t != nil; t = t.parent {
		t.mu.RLock()
		d, ok := t.props[key]
		t.mu.RUnlock()
		if ok {
			return d
		}
	}
	return nil
}

// Keys returns every declared key, supertype keys first.
func (t *Type) Keys() []string {
	if t == nil {
		return nil
	}
	keys := t.parent.Keys()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, k := range t.order {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Kind returns the declared kind of key.
func (t *Type) Kind(key string) (Kind, bool) {
	d := t.lookup(key)
	if d == nil {
		return 0, false
	}
	return d.kind, true
}

// New creates an object of type t. Every property starts declared but not
// materialized.
func (t *Type) New() *Object {
	return &Object{
		typ:   t,
		slots: make(map[string]*slot),
	}
}
