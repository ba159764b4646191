package cell

import "sync"

// dependents is the list of listeners that read a cell inside a tracked
// context. It is embedded in every readable cell.
type dependents struct {
	subs []Listener
	mu   sync.RWMutex
}

// track subscribes the current listener, if any, and lets it remember this
// cell as a source.
func (d *dependents) track() {
	listener := getCurrentListener()
	if listener == nil {
		return
	}
	d.add(listener)
	if t, ok := listener.(sourceTracker); ok {
		t.addSource(d)
	}
}

// add appends a listener, deduplicating by ID.
func (d *dependents) add(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lid := l.ID()
	for _, existing := range d.subs {
		if existing.ID() == lid {
			return
		}
	}
	d.subs = append(d.subs, l)
}

// remove drops a listener, keeping the order of the others.
func (d *dependents) remove(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lid := l.ID()
	for i, existing := range d.subs {
		if existing.ID() == lid {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

func (d *dependents) count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

// notify marks every dependent dirty, or queues them while a batch is open.
// The list is copied first so no lock is held during notification.
func (d *dependents) notify() {
	d.mu.RLock()
	subs := make([]Listener, len(d.subs))
	copy(subs, d.subs)
	d.mu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}
