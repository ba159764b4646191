package cell

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendUnknown(t *testing.T) {
	o := NewObservable(1)
	_, err := o.Extend(ExtendSpec{"rateLimit": 50})
	require.ErrorIs(t, err, ErrUnknownExtender)
}

func TestExtendInvalidOption(t *testing.T) {
	o := NewObservable(1)

	_, err := o.Extend(ExtendSpec{"notify": "sometimes"})
	assert.ErrorIs(t, err, ErrInvalidExtenderOption)

	_, err = o.Extend(ExtendSpec{"equals": 3})
	assert.ErrorIs(t, err, ErrInvalidExtenderOption)

	_, err = o.Extend(ExtendSpec{"log": 3})
	assert.ErrorIs(t, err, ErrInvalidExtenderOption)
}

func TestExtendAppliesInSortedOrder(t *testing.T) {
	var order []string
	RegisterExtender("test.b", func(target Cell, _ any) (Cell, error) {
		order = append(order, "b")
		return target, nil
	})
	RegisterExtender("test.a", func(target Cell, _ any) (Cell, error) {
		order = append(order, "a")
		return target, nil
	})

	_, err := NewObservable(0).Extend(ExtendSpec{"test.b": true, "test.a": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Contains(t, Extenders(), "test.a")
}

func TestExtendNilResult(t *testing.T) {
	RegisterExtender("test.nil", func(Cell, any) (Cell, error) { return nil, nil })

	_, err := NewObservable(0).Extend(ExtendSpec{"test.nil": true})
	assert.ErrorIs(t, err, ErrNilExtenderResult)
}

func TestExtendWrappingCell(t *testing.T) {
	wrapper := NewObservable("wrapped")
	RegisterExtender("test.wrap", func(Cell, any) (Cell, error) { return wrapper, nil })

	c, err := NewObservable(0).Extend(ExtendSpec{"test.wrap": true})
	require.NoError(t, err)
	assert.Same(t, wrapper, c)
}

func TestLogExtender(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	o := NewObservable(1)
	_, err := o.Extend(ExtendSpec{"log": "count"})
	require.NoError(t, err)

	o.Set(2)
	assert.Contains(t, buf.String(), "cell=count")
	assert.Contains(t, buf.String(), "value=2")
}

func TestDefaultEquality(t *testing.T) {
	m := map[string]any{}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "nil_nil", a: nil, b: nil, want: true},
		{name: "nil_value", a: nil, b: 0, want: false},
		{name: "same_int", a: 1, b: 1, want: true},
		{name: "int_float", a: 1, b: 1.0, want: false},
		{name: "same_string", a: "x", b: "x", want: true},
		{name: "same_map", a: m, b: m, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultEquality(tt.a, tt.b))
		})
	}
}
