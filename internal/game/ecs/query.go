package ecs

import (
	"reflect"
	"slices"
)

// Term is one clause of a query: a component type that must be present or absent.
type Term struct {
	typ     reflect.Type
	exclude bool
}

// With requires T to be attached.
func With[T any]() Term { return Term{typ: reflect.TypeFor[T]()} }

// Without requires T to be absent.
func Without[T any]() Term { return Term{typ: reflect.TypeFor[T](), exclude: true} }

// Query returns every live entity matching all terms, in ascending ID order.
//
// The result is a snapshot: spawning, despawning or detaching while ranging
// over it never invalidates the iteration. A query with no With term matches
// every live entity not excluded.
func Query(w *World, terms ...Term) []Entity {
	var include []map[Entity]any
	var exclude []map[Entity]any
	for _, t := range terms {
		s := w.stores[t.typ]
		if t.exclude {
			if len(s) > 0 {
				exclude = append(exclude, s)
			}
			continue
		}
		if len(s) == 0 {
			return nil
		}
		include = append(include, s)
	}

	var candidates []Entity
	if len(include) == 0 {
		candidates = make([]Entity, 0, len(w.alive))
		for e := range w.alive {
			candidates = append(candidates, e)
		}
	} else {
		// Drive from the smallest store.
		slices.SortFunc(include, func(a, b map[Entity]any) int { return len(a) - len(b) })
		candidates = make([]Entity, 0, len(include[0]))
		for e := range include[0] {
			candidates = append(candidates, e)
		}
		include = include[1:]
	}

	out := candidates[:0]
next:
	for _, e := range candidates {
		for _, s := range include {
			if _, ok := s[e]; !ok {
				continue next
			}
		}
		for _, s := range exclude {
			if _, ok := s[e]; ok {
				continue next
			}
		}
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// First returns the lowest-ID entity matching terms.
func First(w *World, terms ...Term) (Entity, bool) {
	es := Query(w, terms...)
	if len(es) == 0 {
		return NoEntity, false
	}
	return es[0], true
}
