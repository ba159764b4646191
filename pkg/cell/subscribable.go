package cell

import (
	"sync"
	"sync/atomic"
)

// Event names understood by every cell.
const (
	EventChange       = "change"
	EventBeforeChange = "beforeChange"
	EventArrayChange  = "arrayChange"
)

// Subscribable is a multicast notifier. Subscribers register for a named
// event and are called synchronously, in registration order, each time that
// event is notified.
//
// The zero value is ready to use.
type Subscribable struct {
	subs map[string][]*Subscription
	mu   sync.Mutex
}

// NewSubscribable returns an empty Subscribable.
func NewSubscribable() *Subscribable {
	return &Subscribable{}
}

// Subscribe registers fn for event. An empty event means EventChange.
func (s *Subscribable) Subscribe(fn func(any), event string) *Subscription {
	if event == "" {
		event = EventChange
	}
	sub := &Subscription{
		id:    nextID(),
		event: event,
		fn:    fn,
		owner: s,
	}

	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[string][]*Subscription)
	}
	s.subs[event] = append(s.subs[event], sub)
	s.mu.Unlock()

	return sub
}

// NotifySubscribers calls every active subscriber of event with value.
// Subscriptions disposed during notification are skipped.
func (s *Subscribable) NotifySubscribers(value any, event string) {
	if event == "" {
		event = EventChange
	}

	s.mu.Lock()
	subs := make([]*Subscription, len(s.subs[event]))
	copy(subs, s.subs[event])
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.IsDisposed() {
			continue
		}
		sub.fn(value)
	}
}

// HasSubscriptions reports whether event has at least one subscriber.
func (s *Subscribable) HasSubscriptions(event string) bool {
	return s.SubscriptionCount(event) > 0
}

// SubscriptionCount returns the number of active subscribers for event, or
// for all events when event is empty.
func (s *Subscribable) SubscriptionCount(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event != "" {
		return len(s.subs[event])
	}
	n := 0
	for _, subs := range s.subs {
		n += len(subs)
	}
	return n
}

// remove drops sub from its event list, keeping order.
func (s *Subscribable) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.subs[sub.event]
	for i, existing := range subs {
		if existing == sub {
			s.subs[sub.event] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Subscription is an active registration on a Subscribable.
type Subscription struct {
	id    uint64
	event string
	fn    func(any)
	owner *Subscribable

	// disposers run after the subscription is removed from its owner.
	disposers   []func()
	disposersMu sync.Mutex

	disposed atomic.Bool
}

// ID returns the unique identifier of the subscription.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Event returns the event name the subscription listens to.
func (s *Subscription) Event() string {
	return s.event
}

// IsDisposed reports whether Dispose has been called.
func (s *Subscription) IsDisposed() bool {
	return s.disposed.Load()
}

// OnDispose registers fn to run when the subscription is disposed. If it is
// already disposed, fn runs immediately.
func (s *Subscription) OnDispose(fn func()) {
	s.disposersMu.Lock()
	if s.disposed.Load() {
		s.disposersMu.Unlock()
		fn()
		return
	}
	s.disposers = append(s.disposers, fn)
	s.disposersMu.Unlock()
}

// Dispose stops delivery and runs the registered disposers in order.
// Calling it again is a no-op.
func (s *Subscription) Dispose() {
	if s.disposed.Swap(true) {
		return
	}
	if s.owner != nil {
		s.owner.remove(s)
	}

	s.disposersMu.Lock()
	disposers := s.disposers
	s.disposers = nil
	s.disposersMu.Unlock()

	for _, fn := range disposers {
		fn()
	}
}
