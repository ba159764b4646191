package reactor

import "github.com/vango-dev/reactor/pkg/cell"

// EventSource is anything Subscribe can treat as an event: it delivers
// argument lists to its subscribers.
type EventSource interface {
	Subscribe(fn func(args ...any)) *cell.Subscription
}

// Event is a fire-and-forget multicast signal. Fire passes its arguments
// verbatim to every current subscriber; nothing is buffered, so subscribers
// added later never see earlier calls.
type Event struct {
	name string
	subs *cell.Subscribable
}

// NewEvent creates a standalone event.
func NewEvent(name string) *Event {
	return &Event{name: name, subs: cell.NewSubscribable()}
}

// Name returns the event's name.
func (e *Event) Name() string {
	return e.name
}

// Fire calls every subscriber with args.
func (e *Event) Fire(args ...any) {
	e.subs.NotifySubscribers(args, cell.EventChange)
}

// Subscribe registers fn to receive the arguments of every later Fire.
func (e *Event) Subscribe(fn func(args ...any)) *cell.Subscription {
	return e.subs.Subscribe(func(v any) {
		args, _ := v.([]any)
		fn(args...)
	}, cell.EventChange)
}

// SubscriberCount returns the number of active subscribers.
func (e *Event) SubscriberCount() int {
	return e.subs.SubscriptionCount(cell.EventChange)
}

var _ EventSource = (*Event)(nil)
