package reactor

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/reactor/pkg/cell"
)

// Subscription modes reported to the Observer.
const (
	ModeEvent        = "event"
	ModeChange       = cell.EventChange
	ModeBeforeChange = cell.EventBeforeChange
	ModeArrayChange  = cell.EventArrayChange
)

type subscribeOptions struct {
	once  bool
	event string
}

// SubscribeOption configures Subscribe.
type SubscribeOption func(*subscribeOptions)

// Once disposes the subscription on its first delivery, before the callback
// runs.
func Once() SubscribeOption {
	return func(o *subscribeOptions) {
		o.once = true
	}
}

// OnEvent selects what a dependency subscription observes: "change" (the
// default), "beforeChange" or "arrayChange".
func OnEvent(name string) SubscribeOption {
	return func(o *subscribeOptions) {
		o.event = name
	}
}

// Subscribe observes target and calls callback on each notification.
//
// target is one of:
//   - an EventSource such as *Event; callback is func(args ...any) or func()
//   - a dependency func() any; a hidden computed cell tracks it and callback
//     (func(any) or func()) receives its new value. Disposing the
//     subscription disposes the hidden cell.
//   - a dependency with OnEvent("arrayChange"); it is evaluated once and must
//     return an attached *Array. callback is func([]cell.ArrayChange) or
//     func(any) and receives the array's diffs.
//   - a cell.Cell, such as one returned by Unwrap, subscribed directly.
func Subscribe(target any, callback any, opts ...SubscribeOption) (*cell.Subscription, error) {
	o := subscribeOptions{event: cell.EventChange}
	for _, opt := range opts {
		opt(&o)
	}

	var sub *cell.Subscription
	var err error
	mode := o.event

	switch t := target.(type) {
	case nil:
		return nil, newError(ErrInvalidTarget, "", "")
	case EventSource:
		mode = ModeEvent
		sub, err = subscribeEvent(t, callback, o.once)
	case func() any:
		if o.event == cell.EventArrayChange {
			sub, err = subscribeArray(t, callback, o.once)
		} else {
			sub, err = subscribeChange(t, callback, o)
		}
	case *Array:
		if o.event == cell.EventArrayChange {
			sub, err = subscribeArray(func() any { return t }, callback, o.once)
		} else {
			// Reading the length tracks the backing cell.
			sub, err = subscribeChange(func() any { t.Len(); return t }, callback, o)
		}
	case cell.Cell:
		sub, err = subscribeCell(t, callback, o)
	default:
		return nil, wrapError(ErrInvalidTarget, "", "", fmt.Errorf("%T", target))
	}
	if err != nil {
		return nil, err
	}

	observer().Subscribed(mode)
	if Debug {
		logger().Debug("reactor: subscribed", slog.String("mode", mode), slog.Uint64("id", sub.ID()))
	}
	sub.OnDispose(func() {
		observer().Unsubscribed(mode)
	})
	return sub, nil
}

func subscribeEvent(src EventSource, callback any, once bool) (*cell.Subscription, error) {
	var fn func(args ...any)
	switch cb := callback.(type) {
	case func(args ...any):
		fn = cb
	case func():
		fn = func(...any) { cb() }
	default:
		return nil, wrapError(ErrInvalidCallback, "", "", fmt.Errorf("%T for an event", callback))
	}

	var sub *cell.Subscription
	sub = src.Subscribe(func(args ...any) {
		if once {
			sub.Dispose()
		}
		fn(args...)
	})
	return sub, nil
}

func subscribeChange(dep func() any, callback any, o subscribeOptions) (*cell.Subscription, error) {
	if o.event != cell.EventChange && o.event != cell.EventBeforeChange {
		return nil, wrapError(ErrInvalidTarget, "", "", fmt.Errorf("unknown event %q", o.event))
	}
	fn, err := adaptCallback(callback)
	if err != nil {
		return nil, err
	}

	comp := cell.NewComputed(dep)
	wrapped, guard := deliver(fn, o.once)
	sub := comp.Subscribe(wrapped, o.event)
	guard.sub = sub
	sub.OnDispose(comp.Dispose)
	return sub, nil
}

func subscribeArray(dep func() any, callback any, once bool) (*cell.Subscription, error) {
	fn, err := adaptCallback(callback)
	if err != nil {
		return nil, err
	}

	arr, ok := cell.Ignore(dep).(*Array)
	if !ok || !arr.IsAttached() {
		return nil, newError(ErrNotReactiveArray, "", "")
	}

	wrapped, guard := deliver(fn, once)
	sub := arr.binding.cell.Subscribe(wrapped, cell.EventArrayChange)
	guard.sub = sub
	return sub, nil
}

func subscribeCell(c cell.Cell, callback any, o subscribeOptions) (*cell.Subscription, error) {
	fn, err := adaptCallback(callback)
	if err != nil {
		return nil, err
	}
	wrapped, guard := deliver(fn, o.once)
	sub := c.Subscribe(wrapped, o.event)
	guard.sub = sub
	return sub, nil
}

// adaptCallback accepts func(any), func() and func([]cell.ArrayChange).
func adaptCallback(callback any) (func(any), error) {
	switch cb := callback.(type) {
	case func(any):
		return cb, nil
	case func():
		return func(any) { cb() }, nil
	case func([]cell.ArrayChange):
		return func(v any) {
			changes, _ := v.([]cell.ArrayChange)
			cb(changes)
		}, nil
	}
	return nil, wrapError(ErrInvalidCallback, "", "", fmt.Errorf("unsupported callback %T", callback))
}

// SubscribeChange is Subscribe for a dependency and a value callback.
func SubscribeChange(dep func() any, fn func(v any), opts ...SubscribeOption) (*cell.Subscription, error) {
	return Subscribe(dep, fn, opts...)
}

// SubscribeArray is Subscribe for the diffs of the array dep returns.
func SubscribeArray(dep func() any, fn func(changes []cell.ArrayChange), opts ...SubscribeOption) (*cell.Subscription, error) {
	return Subscribe(dep, fn, append(opts, OnEvent(cell.EventArrayChange))...)
}

// SubscribeEvent is Subscribe for an event source. It cannot fail.
func SubscribeEvent(src EventSource, fn func(args ...any), opts ...SubscribeOption) *cell.Subscription {
	sub, err := Subscribe(src, fn, opts...)
	if err != nil {
		panic(err)
	}
	return sub
}

// onceGuard lets a delivery wrapper reach the subscription it belongs to,
// which only exists after the wrapper was registered.
type onceGuard struct {
	sub *cell.Subscription
}

// deliver wraps fn for registration. With once set, the subscription stored
// in the guard is disposed before fn runs.
func deliver(fn func(any), once bool) (func(any), *onceGuard) {
	g := &onceGuard{}
	if !once {
		return fn, g
	}
	return func(v any) {
		if g.sub != nil {
			g.sub.Dispose()
		}
		fn(v)
	}, g
}
