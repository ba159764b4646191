package cell

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Cell is the capability set shared by Observable, ObservableArray and
// Computed.
type Cell interface {
	// ID returns the unique identifier for this cell.
	ID() uint64

	// Peek returns the current value without tracking a dependency.
	Peek() any

	// Subscribe registers fn for the named event.
	Subscribe(fn func(any), event string) *Subscription

	// Extend applies spec and returns the resulting cell, which may be the
	// receiver itself.
	Extend(spec ExtendSpec) (Cell, error)
}

// EqualityFunc decides whether a write is a change. A nil EqualityFunc means
// every write is a change.
type EqualityFunc func(a, b any) bool

// Equatable is implemented by cells whose change detection can be replaced.
type Equatable interface {
	SetEquality(fn EqualityFunc)
	Equality() EqualityFunc
}

// DefaultEquality treats nil, booleans, numbers and strings as equal when ==
// holds. Any other value (pointer, map, slice, struct, func) is always
// considered changed, so re-assigning an object notifies.
func DefaultEquality(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64, complex64, complex128:
		return av == b
	default:
		return false
	}
}

// ExtendSpec maps registered extender names to their options.
type ExtendSpec map[string]any

// ExtenderFunc applies one extender to target with the given option.
type ExtenderFunc func(target Cell, option any) (Cell, error)

var (
	extenders = map[string]ExtenderFunc{
		"notify": notifyExtender,
		"equals": equalsExtender,
		"log":    logExtender,
	}
	extendersMu sync.RWMutex
)

// RegisterExtender makes fn available under name in ExtendSpec values.
// Registering an existing name replaces it.
func RegisterExtender(name string, fn ExtenderFunc) {
	extendersMu.Lock()
	defer extendersMu.Unlock()
	extenders[name] = fn
}

// Extenders returns the registered extender names in sorted order.
func Extenders() []string {
	extendersMu.RLock()
	defer extendersMu.RUnlock()

	names := make([]string, 0, len(extenders))
	for name := range extenders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applySpec folds the extenders named in spec onto target, in sorted key
// order.
func applySpec(target Cell, spec ExtendSpec) (Cell, error) {
	keys := make([]string, 0, len(spec))
	for k := range spec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		extendersMu.RLock()
		fn, ok := extenders[k]
		extendersMu.RUnlock()
		if !ok {
			return target, fmt.Errorf("%w: %q", ErrUnknownExtender, k)
		}

		next, err := fn(target, spec[k])
		if err != nil {
			return target, fmt.Errorf("extender %q: %w", k, err)
		}
		if next == nil {
			return target, fmt.Errorf("extender %q: %w", k, ErrNilExtenderResult)
		}
		target = next
	}
	return target, nil
}

// notifyExtender handles {"notify": "always"}: every write notifies, even
// when the value is unchanged. {"notify": "changed"} restores the default.
func notifyExtender(target Cell, option any) (Cell, error) {
	eq, ok := target.(Equatable)
	if !ok {
		return nil, fmt.Errorf("%w: cell %d has no equality", ErrInvalidExtenderOption, target.ID())
	}
	switch option {
	case "always":
		eq.SetEquality(nil)
	case "changed", "":
		eq.SetEquality(DefaultEquality)
	default:
		return nil, fmt.Errorf("%w: notify %v", ErrInvalidExtenderOption, option)
	}
	return target, nil
}

// equalsExtender installs a custom equality function.
func equalsExtender(target Cell, option any) (Cell, error) {
	eq, ok := target.(Equatable)
	if !ok {
		return nil, fmt.Errorf("%w: cell %d has no equality", ErrInvalidExtenderOption, target.ID())
	}
	switch fn := option.(type) {
	case EqualityFunc:
		eq.SetEquality(fn)
	case func(a, b any) bool:
		eq.SetEquality(fn)
	default:
		return nil, fmt.Errorf("%w: equals expects a func(a, b any) bool, got %T", ErrInvalidExtenderOption, option)
	}
	return target, nil
}

// logExtender logs every change of target at debug level under the given
// label.
func logExtender(target Cell, option any) (Cell, error) {
	label, ok := option.(string)
	if !ok {
		return nil, fmt.Errorf("%w: log expects a label string, got %T", ErrInvalidExtenderOption, option)
	}
	id := target.ID()
	target.Subscribe(func(v any) {
		Logger().Debug("cell changed", slog.String("cell", label), slog.Uint64("id", id), slog.Any("value", v))
	}, EventChange)
	return target, nil
}

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
)

// SetLogger replaces the logger used by the "log" extender. A nil logger
// restores slog.Default().
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Logger returns the logger used by the "log" extender.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}
