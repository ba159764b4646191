package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/reactor/pkg/cell"
)

func TestUnwrapMaterializes(t *testing.T) {
	Form := NewType("Form").
		Scalar("name").
		ArrayProp("errors").
		Derived("valid", func(o *Object) any { return o.MustGet("errors").(*Array).Len() == 0 }).
		Event("submitted")
	f := Form.New()

	name, err := Unwrap(f, "name")
	require.NoError(t, err)
	assert.IsType(t, &cell.Observable{}, name)
	assert.Nil(t, f.MustGet("name"))

	errs, err := Unwrap(f, "errors")
	require.NoError(t, err)
	assert.IsType(t, &cell.ObservableArray{}, errs)
	arr, err := f.Array("errors")
	require.NoError(t, err)
	assert.Zero(t, arr.Len())

	valid, err := Unwrap(f, "valid")
	require.NoError(t, err)
	assert.IsType(t, &cell.Computed{}, valid)
	assert.Equal(t, true, valid.Peek())

	_, err = Unwrap(f, "submitted")
	assert.ErrorIs(t, err, ErrNoCell)
	_, err = Unwrap(f, "missing")
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestUnwrapReturnsTheLiveCell(t *testing.T) {
	Box := NewType("Box").Scalar("v")
	b := Box.New()
	b.MustSet("v", 1)

	c1, err := Unwrap(b, "v")
	require.NoError(t, err)
	c2, err := Unwrap(b, "v")
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	b.MustSet("v", 2)
	assert.Equal(t, 2, c1.Peek())

	c1.(*cell.Observable).Set(3)
	assert.Equal(t, 3, b.MustGet("v"))
}

func TestUnwrapKeepsArrayCellAcrossReassign(t *testing.T) {
	l, _ := newList(t, 1)
	before, err := Unwrap(l, "items")
	require.NoError(t, err)

	require.NoError(t, l.Set("items", []any{2, 3}))
	after, err := Unwrap(l, "items")
	require.NoError(t, err)

	assert.Same(t, before, after)
	assert.Equal(t, []any{2, 3}, after.Peek())
}
