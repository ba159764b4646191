package reactor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordConvertsNested(t *testing.T) {
	m := map[string]any{
		"zeta":  1,
		"alpha": map[string]any{"inner": true},
		"list":  []any{map[string]any{"id": 1}, []any{"x"}},
	}
	r := NewRecord(m)

	assert.Nil(t, r.Type())
	assert.Equal(t, []string{"alpha", "list", "zeta"}, r.Keys())

	alpha, ok := r.MustGet("alpha").(*Object)
	require.True(t, ok)
	assert.Equal(t, true, alpha.MustGet("inner"))

	list, err := r.Array("list")
	require.NoError(t, err)
	assert.True(t, list.Deep())
	assert.IsType(t, &Object{}, list.At(0))
	assert.IsType(t, &Array{}, list.At(1))

	// The source map is left alone.
	assert.IsType(t, map[string]any{}, m["alpha"])
	assert.IsType(t, map[string]any{}, m["list"].([]any)[0])
}

func TestRecordCycles(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	r := NewRecord(m)

	assert.Same(t, r, r.MustGet("self"))

	snap := Snapshot(r).(map[string]any)
	self := snap["self"].(map[string]any)
	assert.Equal(t, reflect.ValueOf(snap).UnsafePointer(), reflect.ValueOf(self).UnsafePointer())
	assert.Equal(t, "loop", self["name"])
}

func TestRecordSharedMapConvertsOnce(t *testing.T) {
	shared := map[string]any{"v": 1}
	r := NewRecord(map[string]any{"a": shared, "b": shared})
	assert.Same(t, r.MustGet("a"), r.MustGet("b"))
}

func TestRecordSharedAcrossWrites(t *testing.T) {
	Pair := NewType("Pair").Scalar("a", Deep()).Scalar("b", Deep())
	p := Pair.New()
	m := map[string]any{"x": 1}
	p.MustSet("a", m)
	p.MustSet("b", m)

	ra := p.MustGet("a").(*Object)
	rb := p.MustGet("b").(*Object)
	require.Same(t, ra, rb)

	ra.MustSet("x", 2)
	assert.Equal(t, 2, rb.MustGet("x"))

	// writing the map again keeps the record
	p.MustSet("a", m)
	assert.Same(t, ra, p.MustGet("a"))
	assert.Same(t, ra, NewRecord(m))
}

func TestForgetRecord(t *testing.T) {
	m := map[string]any{"x": 1}
	r := NewRecord(m)

	ForgetRecord(r)
	fresh := NewRecord(m)
	assert.NotSame(t, r, fresh)
	assert.Equal(t, 1, fresh.MustGet("x"))

	fresh.MarkDestroyed()
	assert.NotSame(t, fresh, NewRecord(m))

	ForgetRecord(nil)
	ForgetRecord(NewType("Plain").New())
}

func TestNilRecordsAreDistinct(t *testing.T) {
	assert.NotSame(t, NewRecord(nil), NewRecord(nil))
}

func TestRecordFields(t *testing.T) {
	r := NewRecord(map[string]any{"a": 1})

	_, err := r.Get("b")
	assert.ErrorIs(t, err, ErrUninitialized)

	require.NoError(t, r.Set("b", map[string]any{"c": 2}))
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	b := r.MustGet("b").(*Object)
	assert.Equal(t, 2, b.MustGet("c"))

	var seen []any
	_, err = Subscribe(func() any { return r.MustGet("a") }, func(v any) { seen = append(seen, v) })
	require.NoError(t, err)
	r.MustSet("a", 5)
	assert.Equal(t, []any{5}, seen)
}

func TestSnapshot(t *testing.T) {
	Order := NewType("Order").
		Scalar("id").
		Scalar("note").
		ArrayProp("lines", Deep()).
		Derived("count", func(o *Object) any { return o.MustGet("lines").(*Array).Len() }).
		Event("shipped")
	o := Order.New()
	o.MustSet("id", 7)
	o.MustSet("lines", []any{map[string]any{"sku": "a"}, []any{1, 2}})

	got := Snapshot(o)
	want := map[string]any{
		"id":    7,
		"lines": []any{map[string]any{"sku": "a"}, []any{1, 2}},
		"count": 2,
	}
	assert.Equal(t, want, got)

	assert.Equal(t, 3, Snapshot(3))
	assert.Nil(t, Snapshot(nil))
}

func TestSnapshotDoesNotTrack(t *testing.T) {
	todo := newTodo(t)

	runs := 0
	_, err := Subscribe(func() any {
		runs++
		return Snapshot(todo)
	}, func() {})
	require.NoError(t, err)

	todo.MustSet("title", "bread")
	assert.Equal(t, 1, runs)
}

func TestClassify(t *testing.T) {
	type point struct{ X int }
	tests := []struct {
		name string
		v    any
		want Shape
	}{
		{"nil", nil, ShapeOpaque},
		{"int", 1, ShapeOpaque},
		{"string", "s", ShapeOpaque},
		{"struct", point{}, ShapeOpaque},
		{"pointer", &point{}, ShapeOpaque},
		{"bytes", []byte("x"), ShapeOpaque},
		{"int_map", map[int]any{}, ShapeOpaque},
		{"record", map[string]any{}, ShapeRecord},
		{"any_slice", []any{}, ShapeArray},
		{"typed_slice", []string{"a"}, ShapeArray},
		{"object", NewRecord(nil), ShapeReactive},
		{"array", NewArray(nil, false), ShapeReactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.v))
			assert.Equal(t, tt.want.String(), Classify(tt.v).String())
		})
	}
}
