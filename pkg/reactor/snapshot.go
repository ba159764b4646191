package reactor

import "github.com/vango-dev/reactor/pkg/cell"

// Snapshot converts a reactive graph back into plain values: *Object becomes
// map[string]any and *Array becomes []any. Derived properties are included
// with their current value; events and never-written properties are left
// out. Reads are untracked and shared or cyclic structures map to shared
// results.
func Snapshot(v any) any {
	var out any
	cell.Untracked(func() {
		s := &snapshotter{
			objects: make(map[*Object]map[string]any),
			arrays:  make(map[*Array][]any),
		}
		out = s.value(v)
	})
	return out
}

type snapshotter struct {
	objects map[*Object]map[string]any
	arrays  map[*Array][]any
}

func (s *snapshotter) value(v any) any {
	switch x := v.(type) {
	case *Object:
		return s.object(x)
	case *Array:
		return s.array(x)
	}
	return v
}

func (s *snapshotter) object(o *Object) map[string]any {
	if m, ok := s.objects[o]; ok {
		return m
	}
	m := make(map[string]any)
	s.objects[o] = m

	for _, key := range o.Keys() {
		d := o.decl(key)
		if d.kind == KindEvent {
			continue
		}
		if d.kind != KindDerived && !o.Materialized(key) {
			continue
		}
		v, err := o.Get(key)
		if err != nil {
			continue
		}
		m[key] = s.value(v)
	}
	return m
}

func (s *snapshotter) array(a *Array) []any {
	if out, ok := s.arrays[a]; ok {
		return out
	}
	items := a.Peek()
	out := make([]any, len(items))
	s.arrays[a] = out
	for i, v := range items {
		out[i] = s.value(v)
	}
	return out
}
