package reactor

import "reflect"

// Shape is the classification the materializer uses to decide what a value
// becomes.
type Shape int

const (
	// ShapeOpaque values are stored as-is, even in deep mode: primitives,
	// structs, pointers, funcs, channels and maps other than map[string]any.
	ShapeOpaque Shape = iota

	// ShapeRecord is a plain data record, a map[string]any.
	ShapeRecord

	// ShapeArray is any slice except []byte.
	ShapeArray

	// ShapeReactive values are already materialized (*Object or *Array).
	ShapeReactive
)

func (s Shape) String() string {
	switch s {
	case ShapeRecord:
		return "record"
	case ShapeArray:
		return "array"
	case ShapeReactive:
		return "reactive"
	default:
		return "opaque"
	}
}

// Classify returns the shape of v.
func Classify(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeOpaque
	case *Object, *Array:
		return ShapeReactive
	case map[string]any:
		return ShapeRecord
	case []any:
		return ShapeArray
	case []byte:
		return ShapeOpaque
	}
	if reflect.TypeOf(v).Kind() == reflect.Slice {
		return ShapeArray
	}
	return ShapeOpaque
}

// isArrayValue reports whether v can be assigned to an array property.
func isArrayValue(v any) bool {
	if v == nil {
		return true
	}
	switch Classify(v) {
	case ShapeArray:
		return true
	case ShapeReactive:
		_, ok := v.(*Array)
		return ok
	}
	return false
}

// toItems copies a slice of any element type into a fresh []any. nil yields
// an empty slice.
func toItems(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return []any{}, true
	case []any:
		return append(make([]any, 0, len(s)), s...), true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
