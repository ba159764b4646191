package cell

import "sync"

// Observable is a reactive value container.
// Reading it with Get inside a tracked context subscribes the current
// listener; writing it with Set notifies event subscribers and invalidates
// dependents when the value changed.
type Observable struct {
	Subscribable

	id   uint64
	deps dependents

	// value is the current value.
	value any

	// equal decides whether a write is a change. nil means always changed.
	equal EqualityFunc

	// mu protects value and equal.
	mu sync.RWMutex
}

// NewObservable creates an observable holding initial.
func NewObservable(initial any) *Observable {
	return &Observable{
		id:    nextID(),
		value: initial,
		equal: DefaultEquality,
	}
}

// ID returns the unique identifier for this observable.
func (o *Observable) ID() uint64 {
	return o.id
}

// Get returns the current value and subscribes the current listener.
func (o *Observable) Get() any {
	o.mu.RLock()
	value := o.value
	o.mu.RUnlock()

	// Track after releasing the value lock.
	o.deps.track()
	return value
}

// Peek returns the current value without subscribing.
func (o *Observable) Peek() any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set writes value. If the equality function reports a change, it notifies
// "beforeChange" subscribers with the old value, stores value, notifies
// "change" subscribers and marks dependents dirty.
func (o *Observable) Set(value any) {
	o.write(value, nil)
}

// write implements Set. after runs between the "change" notification and
// dependent invalidation. It reports whether the write was a change.
func (o *Observable) write(value any, after func()) bool {
	o.mu.RLock()
	old, eq := o.value, o.equal
	o.mu.RUnlock()

	if eq != nil && eq(old, value) {
		return false
	}

	o.NotifySubscribers(old, EventBeforeChange)
	o.mu.Lock()
	o.value = value
	o.mu.Unlock()
	o.valueHasMutated(after)
	return true
}

// ValueWillMutate notifies "beforeChange" subscribers ahead of an in-place
// mutation of the current value.
func (o *Observable) ValueWillMutate() {
	o.NotifySubscribers(o.Peek(), EventBeforeChange)
}

// ValueHasMutated notifies "change" subscribers and dependents after an
// in-place mutation of the current value.
func (o *Observable) ValueHasMutated() {
	o.valueHasMutated(nil)
}

func (o *Observable) valueHasMutated(after func()) {
	o.NotifySubscribers(o.Peek(), EventChange)
	if after != nil {
		after()
	}
	o.deps.notify()
}

// SetEquality replaces the change-detection function.
func (o *Observable) SetEquality(fn EqualityFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.equal = fn
}

// Equality returns the change-detection function.
func (o *Observable) Equality() EqualityFunc {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.equal
}

// Extend applies spec to the observable.
func (o *Observable) Extend(spec ExtendSpec) (Cell, error) {
	return applySpec(o, spec)
}

// DependentCount returns how many listeners currently depend on the
// observable.
func (o *Observable) DependentCount() int {
	return o.deps.count()
}

var (
	_ Cell      = (*Observable)(nil)
	_ Equatable = (*Observable)(nil)
)
