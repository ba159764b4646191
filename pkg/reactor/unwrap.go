package reactor

import "github.com/vango-dev/reactor/pkg/cell"

// Unwrap returns the cell behind key, materializing the property first if it
// was never written: a scalar starts out holding nil, an array property
// starts out empty and a derived property gets its computed cell. Events have
// no cell.
func Unwrap(o *Object, key string) (cell.Cell, error) {
	d := o.decl(key)
	if d == nil {
		return nil, newError(ErrUnknownProperty, o.typeName(), key)
	}
	s := o.slot(d)

	switch d.kind {
	case KindEvent:
		return nil, newError(ErrNoCell, o.typeName(), key)
	case KindDerived:
		if err := o.materializeDerived(s); err != nil {
			return nil, err
		}
	default:
		if s.state != stateMaterialized {
			if err := o.materialize(s, nil, newWalker()); err != nil {
				return nil, err
			}
		}
	}
	return s.raw(), nil
}
