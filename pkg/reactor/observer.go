package reactor

import (
	"log/slog"
	"sync"
)

// Debug enables debug logging of materialization, detach and subscription
// events through Logger.
var Debug bool

// Logger receives debug output when Debug is true. nil means slog.Default().
var Logger *slog.Logger

func logger() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

// Observer receives engine lifecycle events. Implementations must be cheap
// and must not write to reactive properties.
type Observer interface {
	// Materialized is called when a property's cell is created.
	Materialized(typ, prop string, kind Kind)

	// Detached is called when an exposed array is replaced and stops
	// belonging to its property.
	Detached(typ, prop string)

	// Subscribed is called when Subscribe creates a subscription. mode is
	// "event", "change", "beforeChange" or "arrayChange".
	Subscribed(mode string)

	// Unsubscribed is called when such a subscription is disposed.
	Unsubscribed(mode string)

	// Failed is called with every *Error the engine produces.
	Failed(err *Error)
}

type nopObserver struct{}

func (nopObserver) Materialized(string, string, Kind) {}
func (nopObserver) Detached(string, string)           {}
func (nopObserver) Subscribed(string)                 {}
func (nopObserver) Unsubscribed(string)               {}
func (nopObserver) Failed(*Error)                     {}

var (
	currentObserver Observer = nopObserver{}
	observerMu      sync.RWMutex
)

// SetObserver installs o as the process-wide observer. nil removes it.
func SetObserver(o Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	if o == nil {
		o = nopObserver{}
	}
	currentObserver = o
}

func observer() Observer {
	observerMu.RLock()
	defer observerMu.RUnlock()
	return currentObserver
}

func materialized(o *Object, key string, kind Kind) {
	typ := o.typeName()
	observer().Materialized(typ, key, kind)
	if Debug {
		logger().Debug("reactor: materialized",
			slog.String("type", typ),
			slog.String("property", key),
			slog.String("kind", kind.String()))
	}
}

func detached(b *arrayBinding) {
	typ, key := b.subject()
	observer().Detached(typ, key)
	if Debug {
		logger().Debug("reactor: array detached",
			slog.String("type", typ),
			slog.String("property", key))
	}
}
