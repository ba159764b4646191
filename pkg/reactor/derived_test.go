package reactor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/reactor/pkg/cell"
)

func newPerson(runs *int, opts ...DerivedOption) *Object {
	Person := NewType("Person").
		Scalar("first").
		Scalar("last").
		Derived("full", func(o *Object) any {
			*runs++
			return o.MustGet("first").(string) + " " + o.MustGet("last").(string)
		}, opts...)
	p := Person.New()
	p.MustSet("first", "Ada")
	p.MustSet("last", "Lovelace")
	return p
}

func TestDerivedIsLazyAndMemoized(t *testing.T) {
	runs := 0
	p := newPerson(&runs)
	assert.Zero(t, runs)
	assert.False(t, p.Materialized("full"))

	assert.Equal(t, "Ada Lovelace", p.MustGet("full"))
	assert.Equal(t, "Ada Lovelace", p.MustGet("full"))
	assert.Equal(t, 1, runs)
	assert.True(t, p.Materialized("full"))

	p.MustSet("first", "Grace")
	assert.Equal(t, 1, runs, "recomputed on the next read, not on write")
	assert.Equal(t, "Grace Lovelace", p.MustGet("full"))
	assert.Equal(t, 2, runs)
}

func TestImpureDerivedEvaluatesEagerly(t *testing.T) {
	runs := 0
	p := newPerson(&runs, Pure(false))

	p.MustGet("full")
	assert.Equal(t, 1, runs)

	p.MustSet("last", "Hopper")
	assert.Equal(t, 2, runs)
	assert.Equal(t, "Ada Hopper", p.MustGet("full"))
	assert.Equal(t, 2, runs)
}

func TestDerivedReadOnly(t *testing.T) {
	runs := 0
	p := newPerson(&runs)

	err := p.Set("full", "x y")
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, "Ada Lovelace", p.MustGet("full"))
}

func TestDerivedSetter(t *testing.T) {
	runs := 0
	p := newPerson(&runs, WithSetter(func(o *Object, v any) error {
		first, last, ok := strings.Cut(v.(string), " ")
		if !ok {
			return errors.New("want two names")
		}
		cell.Batch(func() {
			o.MustSet("first", first)
			o.MustSet("last", last)
		})
		return nil
	}))

	var seen []any
	_, err := Subscribe(func() any { return p.MustGet("full") }, func(v any) { seen = append(seen, v) })
	require.NoError(t, err)

	require.NoError(t, p.Set("full", "Grace Hopper"))
	assert.Equal(t, "Grace", p.MustGet("first"))
	assert.Equal(t, []any{"Grace Hopper"}, seen)

	assert.EqualError(t, p.Set("full", "Cher"), "want two names")
}

func TestDerivedChains(t *testing.T) {
	Cart := NewType("Cart").
		ArrayProp("prices").
		Derived("total", func(o *Object) any {
			sum := 0
			for _, v := range o.MustGet("prices").(*Array).All() {
				sum += v.(int)
			}
			return sum
		}).
		Derived("expensive", func(o *Object) any {
			return o.MustGet("total").(int) > 100
		})
	c := Cart.New()
	c.MustSet("prices", []any{10, 20})

	var flips []any
	_, err := Subscribe(func() any { return c.MustGet("expensive") }, func(v any) { flips = append(flips, v) })
	require.NoError(t, err)

	prices, _ := c.Array("prices")
	prices.Push(30)
	prices.Push(50)
	prices.Push(1)
	assert.Equal(t, []any{true}, flips, "unchanged booleans do not notify")
	assert.Equal(t, 111, c.MustGet("total"))
}

func TestExposedDerivedCell(t *testing.T) {
	Sq := NewType("Square").Scalar("n").
		Derived("sq", func(o *Object) any {
			n := o.MustGet("n").(int)
			return n * n
		}, ExposeDerived())
	s := Sq.New()
	s.MustSet("n", 3)

	raw, err := s.Get("_sq")
	require.NoError(t, err)
	comp, ok := raw.(*cell.Computed)
	require.True(t, ok)
	assert.Equal(t, 9, comp.Peek())

	assert.ErrorIs(t, s.Set("_sq", 1), ErrReadOnly)
}
