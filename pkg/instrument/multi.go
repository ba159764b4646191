package instrument

import "github.com/vango-dev/reactor/pkg/reactor"

// Multi fans every event out to observers, in order. nil entries are
// skipped.
func Multi(observers ...reactor.Observer) reactor.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

type multi []reactor.Observer

func (m multi) Materialized(typ, prop string, kind reactor.Kind) {
	for _, o := range m {
		o.Materialized(typ, prop, kind)
	}
}

func (m multi) Detached(typ, prop string) {
	for _, o := range m {
		o.Detached(typ, prop)
	}
}

func (m multi) Subscribed(mode string) {
	for _, o := range m {
		o.Subscribed(mode)
	}
}

func (m multi) Unsubscribed(mode string) {
	for _, o := range m {
		o.Unsubscribed(mode)
	}
}

func (m multi) Failed(err *reactor.Error) {
	for _, o := range m {
		o.Failed(err)
	}
}
