package cell

import "sync"

// Computed is a cached computation that tracks its dependencies.
// When a dependency changes the cached value is invalidated. A pure computed
// without event subscribers recomputes lazily on the next read; one with
// subscribers (or a non-pure one) re-evaluates at once and notifies
// "beforeChange"/"change" when the value differs.
//
// A Computed is itself a Listener for the cells it reads, and can be read
// by other computed cells.
type Computed struct {
	Subscribable

	id   uint64
	deps dependents

	// read computes the value.
	read func() any

	value     any
	valid     bool
	computing bool
	disposed  bool
	pure      bool
	equal     EqualityFunc

	// sources are the cells read during the last evaluation.
	sources []*dependents

	mu sync.Mutex
}

// ComputedOption configures a Computed.
type ComputedOption func(*Computed)

// Pure controls evaluation. A pure computed (the default) evaluates on
// demand. A non-pure computed evaluates at construction and whenever a
// dependency changes.
func Pure(pure bool) ComputedOption {
	return func(c *Computed) {
		c.pure = pure
	}
}

// WithEquality sets the function deciding whether a re-evaluation produced a
// new value.
func WithEquality(fn EqualityFunc) ComputedOption {
	return func(c *Computed) {
		c.equal = fn
	}
}

// NewComputed creates a computed cell over read.
func NewComputed(read func() any, opts ...ComputedOption) *Computed {
	c := &Computed{
		id:    nextID(),
		read:  read,
		pure:  true,
		equal: DefaultEquality,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.pure {
		c.evaluate()
	}
	return c
}

// ID returns the unique identifier for this computed cell.
// Implements the Listener interface.
func (c *Computed) ID() uint64 {
	return c.id
}

// Get returns the value, recomputing if necessary, and subscribes the
// current listener.
func (c *Computed) Get() any {
	c.deps.track()
	return c.Peek()
}

// Peek returns the value without subscribing. It still recomputes when the
// cached value is stale.
func (c *Computed) Peek() any {
	c.mu.Lock()
	stale := !c.valid && !c.disposed
	c.mu.Unlock()

	if stale {
		c.evaluate()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Subscribe registers fn for event and wakes the computed so its
// dependencies are tracked from now on.
func (c *Computed) Subscribe(fn func(any), event string) *Subscription {
	sub := c.Subscribable.Subscribe(fn, event)
	c.Peek()
	return sub
}

// MarkDirty invalidates the cached value and propagates to dependents.
// Implements the Listener interface.
func (c *Computed) MarkDirty() {
	c.mu.Lock()
	if c.disposed || !c.valid {
		c.mu.Unlock()
		return
	}
	c.valid = false
	old := c.value
	eager := !c.pure
	c.mu.Unlock()

	if eager || c.HasSubscriptions(EventChange) || c.HasSubscriptions(EventBeforeChange) {
		c.evaluate()

		c.mu.Lock()
		value, eq := c.value, c.equal
		c.mu.Unlock()

		if eq == nil || !eq(old, value) {
			c.NotifySubscribers(old, EventBeforeChange)
			c.NotifySubscribers(value, EventChange)
		}
	}

	c.deps.notify()
}

// Dispose releases every source. The last value stays readable, but the
// computed never re-evaluates or notifies again.
func (c *Computed) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	sources := c.sources
	c.sources = nil
	c.mu.Unlock()

	for _, source := range sources {
		source.remove(c)
	}
}

// IsDisposed reports whether Dispose has been called.
func (c *Computed) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// SetEquality replaces the change-detection function.
func (c *Computed) SetEquality(fn EqualityFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.equal = fn
}

// Equality returns the change-detection function.
func (c *Computed) Equality() EqualityFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.equal
}

// Extend applies spec to the computed cell.
func (c *Computed) Extend(spec ExtendSpec) (Cell, error) {
	return applySpec(c, spec)
}

// DependencyCount returns how many cells the last evaluation read.
func (c *Computed) DependencyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

// addSource records a cell read during evaluation.
func (c *Computed) addSource(source *dependents) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

// evaluate runs read with the computed as the tracking listener.
func (c *Computed) evaluate() {
	c.mu.Lock()
	if c.computing || c.disposed {
		// Circular read: keep the stale value.
		c.mu.Unlock()
		return
	}
	c.computing = true
	sources := c.sources
	c.sources = nil
	c.mu.Unlock()

	for _, source := range sources {
		source.remove(c)
	}

	defer func() {
		c.mu.Lock()
		c.computing = false
		c.mu.Unlock()
	}()

	var value any
	WithListener(c, func() {
		value = c.read()
	})

	c.mu.Lock()
	c.value = value
	c.valid = true
	c.mu.Unlock()
}

var (
	_ Cell      = (*Computed)(nil)
	_ Equatable = (*Computed)(nil)
	_ Listener  = (*Computed)(nil)
)
