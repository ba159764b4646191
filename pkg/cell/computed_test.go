package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputedIsLazy(t *testing.T) {
	o := NewObservable(1)
	runs := 0
	c := NewComputed(func() any {
		runs++
		return o.Get().(int) * 2
	})

	assert.Zero(t, runs)
	assert.Equal(t, 2, c.Get())
	assert.Equal(t, 2, c.Get())
	assert.Equal(t, 1, runs)

	o.Set(5)
	assert.Equal(t, 1, runs, "invalidation alone must not recompute")
	assert.Equal(t, 10, c.Get())
	assert.Equal(t, 2, runs)
}

func TestComputedNonPureEvaluatesEagerly(t *testing.T) {
	o := NewObservable(1)
	runs := 0
	NewComputed(func() any {
		runs++
		return o.Get()
	}, Pure(false))

	assert.Equal(t, 1, runs)
	o.Set(2)
	assert.Equal(t, 2, runs)
}

func TestComputedSubscribeNotifiesOnChange(t *testing.T) {
	first := NewObservable("a")
	last := NewObservable("b")
	c := NewComputed(func() any {
		return first.Get().(string) + last.Get().(string)
	})

	var before, after []any
	c.Subscribe(func(v any) { before = append(before, v) }, EventBeforeChange)
	c.Subscribe(func(v any) { after = append(after, v) }, EventChange)

	first.Set("x")
	last.Set("y")

	assert.Equal(t, []any{"ab", "xb"}, before)
	assert.Equal(t, []any{"xb", "xy"}, after)
}

func TestComputedSkipsEqualResult(t *testing.T) {
	o := NewObservable(1)
	c := NewComputed(func() any { return o.Get().(int) > 0 })
	calls := 0
	c.Subscribe(func(any) { calls++ }, EventChange)

	o.Set(2)
	assert.Zero(t, calls)

	o.Set(-1)
	assert.Equal(t, 1, calls)
}

func TestComputedChain(t *testing.T) {
	o := NewObservable(1)
	double := NewComputed(func() any { return o.Get().(int) * 2 })
	quad := NewComputed(func() any { return double.Get().(int) * 2 })

	assert.Equal(t, 4, quad.Get())
	o.Set(3)
	assert.Equal(t, 12, quad.Get())
}

func TestComputedDropsStaleSources(t *testing.T) {
	useA := NewObservable(true)
	a := NewObservable("a")
	b := NewObservable("b")
	c := NewComputed(func() any {
		if useA.Get().(bool) {
			return a.Get()
		}
		return b.Get()
	})

	c.Get()
	assert.Equal(t, 1, a.DependentCount())
	assert.Zero(t, b.DependentCount())

	useA.Set(false)
	c.Get()
	assert.Zero(t, a.DependentCount())
	assert.Equal(t, 1, b.DependentCount())
	assert.Equal(t, 2, c.DependencyCount())
}

func TestComputedDispose(t *testing.T) {
	o := NewObservable(1)
	c := NewComputed(func() any { return o.Get() })
	calls := 0
	c.Subscribe(func(any) { calls++ }, EventChange)

	c.Dispose()
	c.Dispose()
	o.Set(2)

	assert.True(t, c.IsDisposed())
	assert.Zero(t, calls)
	assert.Zero(t, o.DependentCount())
	assert.Equal(t, 1, c.Get(), "last value stays readable")
}

func TestComputedCircularReadKeepsStaleValue(t *testing.T) {
	var c *Computed
	c = NewComputed(func() any {
		if v, ok := c.Peek().(int); ok {
			return v + 1
		}
		return 1
	})
	assert.Equal(t, 1, c.Get())
}

func TestComputedExtend(t *testing.T) {
	o := NewObservable(1)
	c := NewComputed(func() any { return o.Get() })

	_, err := c.Extend(ExtendSpec{"equals": func(a, b any) bool { return true }})
	require.NoError(t, err)

	calls := 0
	c.Subscribe(func(any) { calls++ }, EventChange)
	o.Set(2)
	assert.Zero(t, calls)
}

func TestComputedBatched(t *testing.T) {
	first := NewObservable(1)
	second := NewObservable(2)
	runs := 0
	c := NewComputed(func() any {
		runs++
		return first.Get().(int) + second.Get().(int)
	})
	calls := 0
	c.Subscribe(func(any) { calls++ }, EventChange)
	runs = 0

	Batch(func() {
		first.Set(10)
		second.Set(20)
	})

	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 30, c.Peek())
}
