// Package ecs is the entity store: entities are integer handles and
// components are plain Go values attached to them by type.
//
// Structural changes requested while iterating a query belong in a Commands
// buffer and are applied together by Flush.
package ecs

import (
	"fmt"
	"reflect"
)

// Entity identifies a row in the World.
type Entity uint64

// NoEntity is the zero Entity; it never refers to a live row.
const NoEntity Entity = 0

// World owns every entity and its components.
//
// Invariant: every key of every component store is a live entity.
// World is not safe for concurrent use; the turn loop is single-threaded.
type World struct {
	next   Entity
	alive  map[Entity]struct{}
	stores map[reflect.Type]map[Entity]any
}

// NewWorld returns an empty World.
func NewWorld() *World {
	return &World{
		alive:  make(map[Entity]struct{}),
		stores: make(map[reflect.Type]map[Entity]any),
	}
}

// Spawn creates an entity carrying components.
//
// Precondition: no component is nil or a pointer.
// Postcondition: the returned entity is alive and unique for the World's lifetime.
func (w *World) Spawn(components ...any) Entity {
	w.next++
	e := w.next
	w.alive[e] = struct{}{}
	for _, c := range components {
		w.attach(e, c)
	}
	return e
}

// Despawn removes e and all of its components.
//
// Postcondition: returns false if e was not alive.
func (w *World) Despawn(e Entity) bool {
	if _, ok := w.alive[e]; !ok {
		return false
	}
	for _, s := range w.stores {
		delete(s, e)
	}
	delete(w.alive, e)
	return true
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.alive) }

// Attach adds or replaces the component of c's dynamic type on e.
//
// Postcondition: returns false (and changes nothing) if e is not alive.
func (w *World) Attach(e Entity, c any) bool {
	if !w.Alive(e) {
		return false
	}
	w.attach(e, c)
	return true
}

// ComponentTypes lists the component type names attached to e, for debugging.
func (w *World) ComponentTypes(e Entity) []string {
	var out []string
	for t, s := range w.stores {
		if _, ok := s[e]; ok {
			out = append(out, t.String())
		}
	}
	return out
}

func (w *World) attach(e Entity, c any) {
	if c == nil {
		panic("ecs: nil component")
	}
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		panic(fmt.Sprintf("ecs: component %s must be a value, not a pointer", t))
	}
	p := reflect.New(t)
	p.Elem().Set(reflect.ValueOf(c))
	w.store(t)[e] = p.Interface()
}

func (w *World) store(t reflect.Type) map[Entity]any {
	s, ok := w.stores[t]
	if !ok {
		s = make(map[Entity]any)
		w.stores[t] = s
	}
	return s
}

// Add attaches c to e, replacing any existing T.
//
// Postcondition: returns false if e is not alive.
func Add[T any](w *World, e Entity, c T) bool {
	if !w.Alive(e) {
		return false
	}
	w.store(reflect.TypeFor[T]())[e] = &c
	return true
}

// Get returns a pointer to e's T component. Writes through the pointer are
// visible to later readers in the same phase.
//
// Postcondition: returns (nil, false) if e is dead or has no T.
func Get[T any](w *World, e Entity) (*T, bool) {
	s, ok := w.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	v, ok := s[e]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// MustGet is Get for components the caller knows are present.
//
// Precondition: e carries a T; panics otherwise.
func MustGet[T any](w *World, e Entity) *T {
	c, ok := Get[T](w, e)
	if !ok {
		panic(fmt.Sprintf("ecs: entity %d has no %v", e, reflect.TypeFor[T]()))
	}
	return c
}

// Has reports whether e carries a T.
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Remove detaches e's T component.
//
// Postcondition: returns false if there was nothing to remove.
func Remove[T any](w *World, e Entity) bool {
	s, ok := w.stores[reflect.TypeFor[T]()]
	if !ok {
		return false
	}
	if _, ok := s[e]; !ok {
		return false
	}
	delete(s, e)
	return true
}

// Count returns how many entities carry a T.
func Count[T any](w *World) int {
	return len(w.stores[reflect.TypeFor[T]()])
}
