package world

import "fmt"

// Map owns every layer of the facility and tracks which one the player is on.
//
// Invariant: the number of layers never changes after NewMap.
type Map struct {
	layers  []*Layer
	current int
}

// NewMap builds a Map over layers. Layer i must have Depth i.
//
// Postcondition: returns an error for an empty or misnumbered layer list.
func NewMap(layers []*Layer) (*Map, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("world: map needs at least one layer")
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("world: layer %d is nil", i)
		}
		if l.Depth != i {
			return nil, fmt.Errorf("world: layer at position %d has depth %d", i, l.Depth)
		}
	}
	return &Map{layers: layers}, nil
}

// Len returns the number of layers.
func (m *Map) Len() int { return len(m.layers) }

// Layer returns layer i, or nil when i is out of range.
func (m *Map) Layer(i int) *Layer {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	return m.layers[i]
}

// Current returns the layer the player is on.
func (m *Map) Current() *Layer { return m.layers[m.current] }

// CurrentIndex returns the depth of the current layer.
func (m *Map) CurrentIndex() int { return m.current }

// SetCurrent switches the current layer.
//
// Postcondition: returns false and changes nothing if i is out of range.
func (m *Map) SetCurrent(i int) bool {
	if i < 0 || i >= len(m.layers) {
		return false
	}
	m.current = i
	return true
}
