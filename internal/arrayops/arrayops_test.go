package arrayops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flag struct{ destroyed bool }

func (f *flag) MarkDestroyed() { f.destroyed = true }

func TestSplice(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		deleteCount int
		items       []any
		want        []any
		removed     []any
	}{
		{name: "insert_only", start: 1, deleteCount: 0, items: []any{"x"}, want: []any{1, "x", 2, 3}, removed: []any{}},
		{name: "replace_one", start: 1, deleteCount: 1, items: []any{"x"}, want: []any{1, "x", 3}, removed: []any{2}},
		{name: "negative_start", start: -1, deleteCount: 1, want: []any{1, 2}, removed: []any{3}},
		{name: "start_past_end_appends", start: 10, deleteCount: 1, items: []any{"x"}, want: []any{1, 2, 3, "x"}, removed: []any{}},
		{name: "delete_count_clamped", start: 1, deleteCount: 99, want: []any{1}, removed: []any{2, 3}},
		{name: "negative_start_clamped_to_zero", start: -10, deleteCount: 1, want: []any{2, 3}, removed: []any{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := Splice([]any{1, 2, 3}, tt.start, tt.deleteCount, tt.items...)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.removed, removed)
		})
	}
}

func TestPopShiftOnEmpty(t *testing.T) {
	s, v := Pop(nil)
	assert.Nil(t, v)
	assert.Empty(t, s)

	s, v = Shift([]any{})
	assert.Nil(t, v)
	assert.Empty(t, s)
}

func TestPushPopShiftUnshift(t *testing.T) {
	s := Push([]any{1}, 2, 3)
	assert.Equal(t, []any{1, 2, 3}, s)

	s, last := Pop(s)
	assert.Equal(t, 3, last)

	s, first := Shift(s)
	assert.Equal(t, 1, first)
	assert.Equal(t, []any{2}, s)

	s = Unshift(s, "a", "b")
	assert.Equal(t, []any{"a", "b", 2}, s)
}

func TestSortDefaultUsesStringForm(t *testing.T) {
	s := Sort([]any{10, 9, 1}, nil)
	assert.Equal(t, []any{1, 10, 9}, s)

	s = Sort([]any{3, 1, 2}, func(a, b any) bool { return a.(int) < b.(int) })
	assert.Equal(t, []any{1, 2, 3}, s)
}

func TestRemoveVariants(t *testing.T) {
	s, removed := Remove([]any{1, 2, 1, 3}, 1)
	assert.Equal(t, []any{2, 3}, s)
	assert.Equal(t, []any{1, 1}, removed)

	s, removed = RemoveAll([]any{1, 2, 3}, 2, 3)
	assert.Equal(t, []any{1}, s)
	assert.Equal(t, []any{2, 3}, removed)

	s, removed = RemoveAll([]any{1, 2})
	assert.Empty(t, s)
	assert.Equal(t, []any{1, 2}, removed)
}

func TestReplaceAndDestroy(t *testing.T) {
	a, b := &flag{}, &flag{}
	s, ok := Replace([]any{a, 1}, 1, b)
	require.True(t, ok)
	assert.Same(t, b, s[1])

	_, ok = Replace(s, "missing", 0)
	assert.False(t, ok)

	n := DestroyAll(s)
	assert.Equal(t, 2, n)
	assert.True(t, a.destroyed)
	assert.True(t, b.destroyed)
}

func TestSameUsesIdentityForMaps(t *testing.T) {
	m := map[string]any{"a": 1}
	other := map[string]any{"a": 1}
	assert.True(t, Same(m, m))
	assert.False(t, Same(m, other))
	assert.True(t, Same(nil, nil))
	assert.False(t, Same(1, int64(1)))
}
