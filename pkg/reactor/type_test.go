package reactor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/reactor/pkg/cell"
)

// traceLog records, per cell, the options of every "test.trace" extender
// applied to it.
var traceLog = struct {
	sync.Mutex
	applied map[uint64][]string
}{applied: make(map[uint64][]string)}

func init() {
	cell.RegisterExtender("test.trace", func(target cell.Cell, option any) (cell.Cell, error) {
		traceLog.Lock()
		defer traceLog.Unlock()
		traceLog.applied[target.ID()] = append(traceLog.applied[target.ID()], fmt.Sprint(option))
		return target, nil
	})
	cell.RegisterExtender("test.replace", func(target cell.Cell, option any) (cell.Cell, error) {
		return cell.NewComputed(func() any { return option }), nil
	})
}

func traced(t *testing.T, o *Object, key string) []string {
	t.Helper()
	c, err := Unwrap(o, key)
	require.NoError(t, err)
	traceLog.Lock()
	defer traceLog.Unlock()
	return traceLog.applied[c.ID()]
}

func TestExtendersInheritDownOnly(t *testing.T) {
	Base := NewType("Base").Scalar("x").
		Extend("x", cell.ExtendSpec{"test.trace": "base"})
	Sub := NewType("Sub", Extends(Base)).
		Extend("x", cell.ExtendSpec{"test.trace": "sub"})
	Sibling := NewType("Sibling", Extends(Base))

	sub := Sub.New()
	sub.MustSet("x", 1)
	assert.Equal(t, []string{"base", "sub"}, traced(t, sub, "x"))

	base := Base.New()
	base.MustSet("x", 1)
	assert.Equal(t, []string{"base"}, traced(t, base, "x"))

	sibling := Sibling.New()
	sibling.MustSet("x", 1)
	assert.Equal(t, []string{"base"}, traced(t, sibling, "x"))
}

func TestExtendersAppliedOncePerMaterialization(t *testing.T) {
	Counter := NewType("Counter").Scalar("n").
		Extend("n", cell.ExtendSpec{"test.trace": 1}).
		Extend("n", cell.ExtendSpec{"test.trace": 2})
	c := Counter.New()
	c.MustSet("n", 1)
	c.MustSet("n", 2)
	c.MustSet("n", 3)

	assert.Equal(t, []string{"1", "2"}, traced(t, c, "n"))
}

func TestExtendFuncSeesOwner(t *testing.T) {
	Named := NewType("Named").Scalar("v").
		ExtendFunc("v", func(o *Object) cell.ExtendSpec {
			return cell.ExtendSpec{"test.trace": o.Type().Name()}
		})
	Child := NewType("Child", Extends(Named))

	o := Child.New()
	o.MustSet("v", 1)
	assert.Equal(t, []string{"Child"}, traced(t, o, "v"))
}

func TestExtenderNotifyAlways(t *testing.T) {
	Ticker := NewType("Ticker").Scalar("tick").
		Extend("tick", cell.ExtendSpec{"notify": "always"})
	tk := Ticker.New()
	tk.MustSet("tick", 1)

	c, err := Unwrap(tk, "tick")
	require.NoError(t, err)
	calls := 0
	_, err = Subscribe(c, func(any) { calls++ })
	require.NoError(t, err)

	tk.MustSet("tick", 1)
	tk.MustSet("tick", 1)
	assert.Equal(t, 2, calls)
}

func TestExtenderFailure(t *testing.T) {
	rec := installObserver(t)
	Broken := NewType("Broken").Scalar("x").ArrayProp("xs").Derived("d", func(*Object) any { return 1 }).
		Extend("x", cell.ExtendSpec{"missing": true}).
		Extend("xs", cell.ExtendSpec{"test.replace": 1}).
		Extend("d", cell.ExtendSpec{"notify": "sometimes"})
	b := Broken.New()

	err := b.Set("x", 1)
	require.ErrorIs(t, err, ErrExtenderFailed)
	assert.ErrorIs(t, err, cell.ErrUnknownExtender)
	assert.False(t, b.Materialized("x"))
	_, err = b.Get("x")
	assert.ErrorIs(t, err, ErrUninitialized)

	items := []any{1, 2}
	err = b.Set("xs", items)
	require.ErrorIs(t, err, ErrExtenderFailed)
	assert.False(t, b.Materialized("xs"))

	_, err = b.Get("d")
	require.ErrorIs(t, err, ErrExtenderFailed)
	assert.ErrorIs(t, err, cell.ErrInvalidExtenderOption)

	assert.True(t, rec.failedWith(ErrExtenderFailed))
}

func TestExtenderReplacingScalarCell(t *testing.T) {
	Swapped := NewType("Swapped").Scalar("x").
		Extend("x", cell.ExtendSpec{"test.replace": "fixed"})
	s := Swapped.New()

	// A computed cell cannot be written, so it cannot back a scalar.
	err := s.Set("x", 1)
	assert.ErrorIs(t, err, ErrExtenderFailed)

	Derived := NewType("Derived").
		Derived("d", func(*Object) any { return "original" }).
		Extend("d", cell.ExtendSpec{"test.replace": "fixed"})
	assert.Equal(t, "fixed", Derived.New().MustGet("d"))
}

func TestDuplicatePropertyPanics(t *testing.T) {
	err := recoverError(t, func() {
		NewType("Dup").Scalar("x").ArrayProp("x")
	})
	assert.ErrorIs(t, err, ErrDuplicateProperty)
	assert.Contains(t, err.Error(), "Dup.x")
}

func TestMissingGetterPanics(t *testing.T) {
	err := recoverError(t, func() {
		NewType("NoGetter").Derived("total", nil)
	})
	assert.ErrorIs(t, err, ErrMissingGetter)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "R002", rerr.Code)
}

func TestTypeKeysAndKinds(t *testing.T) {
	Base := NewType("Base").Scalar("id").Event("changed")
	Sub := NewType("Sub", Extends(Base)).
		ArrayProp("items").
		Derived("count", func(o *Object) any { return 0 })

	assert.Equal(t, []string{"id", "changed", "items", "count"}, Sub.Keys())
	assert.Equal(t, []string{"id", "changed"}, Base.Keys())
	assert.Same(t, Base, Sub.Parent())
	assert.Equal(t, "Sub", Sub.Name())

	kinds := map[string]Kind{"id": KindScalar, "changed": KindEvent, "items": KindArray, "count": KindDerived}
	for key, want := range kinds {
		got, ok := Sub.Kind(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := Base.Kind("items")
	assert.False(t, ok)

	o := Sub.New()
	assert.True(t, o.Has("id"))
	assert.False(t, o.Has("nope"))
	for _, key := range o.Keys() {
		assert.False(t, o.Materialized(key), key)
	}
}

func TestSubtypeOverridesNothingOnSupertype(t *testing.T) {
	Base := NewType("Base").Scalar("x")
	Sub := NewType("Sub", Extends(Base)).Scalar("y")

	_, err := Base.New().Get("y")
	assert.ErrorIs(t, err, ErrUnknownProperty)

	s := Sub.New()
	s.MustSet("x", 1)
	s.MustSet("y", 2)
	assert.Equal(t, 1, s.MustGet("x"))
}

func TestConcurrentFirstExtendKeepsEverySpec(t *testing.T) {
	Base := NewType("Base").Scalar("v").Extend("v", cell.ExtendSpec{"test.trace": "base"})
	Child := NewType("Child", Extends(Base))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Child.Extend("v", cell.ExtendSpec{"test.trace": "child"})
		}()
	}
	wg.Wait()

	assert.Len(t, Child.extendersFor("v"), n+1)
	assert.Len(t, Base.extendersFor("v"), 1)
}
