package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchDeduplicatesListeners(t *testing.T) {
	first := NewObservable("a")
	last := NewObservable("b")
	l := newTestListener()

	WithListener(l, func() {
		first.Get()
		last.Get()
	})

	Batch(func() {
		first.Set("John")
		last.Set("Doe")
		assert.Zero(t, l.getDirtyCount(), "listeners are deferred until the batch ends")
	})
	assert.Equal(t, 1, l.getDirtyCount())
}

func TestBatchNested(t *testing.T) {
	o := NewObservable(0)
	l := newTestListener()
	WithListener(l, func() { o.Get() })

	Batch(func() {
		Batch(func() {
			o.Set(1)
		})
		assert.Zero(t, l.getDirtyCount(), "inner batch must not flush")
		o.Set(2)
	})
	assert.Equal(t, 1, l.getDirtyCount())
}

func TestBatchDoesNotDeferEvents(t *testing.T) {
	o := NewObservable(0)
	var seen []any
	o.Subscribe(func(v any) { seen = append(seen, v) }, EventChange)

	Batch(func() {
		o.Set(1)
		assert.Equal(t, []any{1}, seen)
		o.Set(2)
	})
	assert.Equal(t, []any{1, 2}, seen)
}

func TestBatchFlushesOnPanic(t *testing.T) {
	o := NewObservable(0)
	l := newTestListener()
	WithListener(l, func() { o.Get() })

	assert.Panics(t, func() {
		Batch(func() {
			o.Set(1)
			panic("boom")
		})
	})
	assert.Equal(t, 1, l.getDirtyCount())
	assert.Zero(t, getBatchDepth())
}
