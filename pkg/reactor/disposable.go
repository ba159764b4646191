package reactor

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/reactor/pkg/cell"
)

// Disposable collects the subscriptions created through its Subscribe method
// and releases them all on Dispose. Embed it in types that observe reactive
// state:
//
//	type Summary struct {
//	    reactor.Disposable
//	}
//
//	s.Subscribe(func() any { return todo.MustGet("done") }, onDone)
//	...
//	s.Dispose()
//
// The zero value is ready to use.
type Disposable struct {
	subs []*cell.Subscription
	mu   sync.Mutex
}

// Subscribe forwards to the package-level Subscribe and keeps the resulting
// subscription for Dispose.
func (d *Disposable) Subscribe(target any, callback any, opts ...SubscribeOption) (*cell.Subscription, error) {
	sub, err := Subscribe(target, callback, opts...)
	if err != nil {
		return nil, err
	}
	d.Track(sub)
	return sub, nil
}

// Track adds a subscription created elsewhere.
func (d *Disposable) Track(sub *cell.Subscription) {
	d.mu.Lock()
	d.subs = append(d.subs, sub)
	d.mu.Unlock()
}

// Dispose disposes every collected subscription in registration order and
// forgets them. Calling it again is a no-op.
func (d *Disposable) Dispose() {
	d.mu.Lock()
	subs := d.subs
	d.subs = nil
	d.mu.Unlock()

	for _, sub := range subs {
		sub.Dispose()
	}
	if Debug && len(subs) > 0 {
		logger().Debug("reactor: disposed", slog.Int("subscriptions", len(subs)))
	}
}

// Len returns the number of collected subscriptions, including ones already
// disposed on their own.
func (d *Disposable) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}
