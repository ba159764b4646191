package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservableSetNotifiesInOrder(t *testing.T) {
	o := NewObservable(1)
	var log []string

	o.Subscribe(func(v any) { log = append(log, "before:"+toString(v)) }, EventBeforeChange)
	o.Subscribe(func(v any) { log = append(log, "change1:"+toString(v)) }, EventChange)
	o.Subscribe(func(v any) { log = append(log, "change2:"+toString(v)) }, "")

	o.Set(2)
	assert.Equal(t, []string{"before:1", "change1:2", "change2:2"}, log)
}

func TestObservableSkipsEqualPrimitive(t *testing.T) {
	o := NewObservable("x")
	calls := 0
	o.Subscribe(func(any) { calls++ }, EventChange)

	o.Set("x")
	assert.Zero(t, calls)

	o.Set("y")
	assert.Equal(t, 1, calls)
}

func TestObservableObjectsAlwaysChange(t *testing.T) {
	m := map[string]any{"a": 1}
	o := NewObservable(m)
	calls := 0
	o.Subscribe(func(any) { calls++ }, EventChange)

	o.Set(m)
	assert.Equal(t, 1, calls)
}

func TestObservableNotifyAlwaysExtender(t *testing.T) {
	o := NewObservable(1)
	calls := 0
	o.Subscribe(func(any) { calls++ }, EventChange)

	c, err := o.Extend(ExtendSpec{"notify": "always"})
	require.NoError(t, err)
	assert.Same(t, o, c)

	o.Set(1)
	assert.Equal(t, 1, calls)
}

func TestObservableSubscriptionDispose(t *testing.T) {
	o := NewObservable(0)
	calls := 0
	sub := o.Subscribe(func(any) { calls++ }, EventChange)

	o.Set(1)
	sub.Dispose()
	sub.Dispose()
	o.Set(2)

	assert.Equal(t, 1, calls)
	assert.True(t, sub.IsDisposed())
	assert.False(t, o.HasSubscriptions(EventChange))
}

func TestSubscriptionDisposedDuringNotify(t *testing.T) {
	o := NewObservable(0)
	var second *Subscription
	calls := 0

	o.Subscribe(func(any) { second.Dispose() }, EventChange)
	second = o.Subscribe(func(any) { calls++ }, EventChange)

	o.Set(1)
	assert.Zero(t, calls)
}

func TestSubscriptionOnDispose(t *testing.T) {
	s := NewSubscribable()
	sub := s.Subscribe(func(any) {}, "fire")

	var order []int
	sub.OnDispose(func() { order = append(order, 1) })
	sub.OnDispose(func() { order = append(order, 2) })

	sub.Dispose()
	assert.Equal(t, []int{1, 2}, order)

	sub.OnDispose(func() { order = append(order, 3) })
	assert.Equal(t, []int{1, 2, 3}, order, "late disposer runs immediately")
}

func TestObservableValueMutatedBracket(t *testing.T) {
	m := map[string]any{"a": 1}
	o := NewObservable(m)
	l := newTestListener()
	WithListener(l, func() { o.Get() })

	var events []string
	o.Subscribe(func(any) { events = append(events, EventBeforeChange) }, EventBeforeChange)
	o.Subscribe(func(any) { events = append(events, EventChange) }, EventChange)

	o.ValueWillMutate()
	m["a"] = 2
	o.ValueHasMutated()

	assert.Equal(t, []string{EventBeforeChange, EventChange}, events)
	assert.Equal(t, 1, l.getDirtyCount())
}

func toString(v any) string {
	switch v := v.(type) {
	case int:
		return string(rune('0' + v))
	case string:
		return v
	}
	return "?"
}
