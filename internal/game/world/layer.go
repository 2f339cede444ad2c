package world

import "fmt"

// Layer is one floor of the facility.
//
// Invariant: len(Tiles) == len(Revealed) == len(Visible) == len(Doors) == Width*Height.
type Layer struct {
	Depth  int
	Width  int
	Height int

	Tiles    []Tile
	Revealed []bool
	Visible  []bool
	Doors    []bool

	// Start is where the player arrives when descending into this layer.
	Start Point
	// ColonistExit is the tile colonists flee toward.
	ColonistExit Point
}

// NewLayer returns a width x height layer filled with fill.
//
// Precondition: width > 0 and height > 0.
func NewLayer(depth, width, height int, fill Tile) *Layer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("world: NewLayer called with %dx%d", width, height))
	}
	n := width * height
	l := &Layer{
		Depth:    depth,
		Width:    width,
		Height:   height,
		Tiles:    make([]Tile, n),
		Revealed: make([]bool, n),
		Visible:  make([]bool, n),
		Doors:    make([]bool, n),
	}
	for i := range l.Tiles {
		l.Tiles[i] = fill
	}
	return l
}

// InBounds reports whether p lies on the layer.
func (l *Layer) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.Width && p.Y < l.Height
}

// Index converts p to a tile index.
//
// Precondition: l.InBounds(p); violating it is a programmer error and panics.
func (l *Layer) Index(p Point) int {
	if !l.InBounds(p) {
		panic(fmt.Sprintf("world: point %v outside %dx%d layer %d", p, l.Width, l.Height, l.Depth))
	}
	return p.Y*l.Width + p.X
}

// PointAt converts a tile index to a point.
//
// Precondition: 0 <= idx < Width*Height.
func (l *Layer) PointAt(idx int) Point {
	if idx < 0 || idx >= len(l.Tiles) {
		panic(fmt.Sprintf("world: index %d outside layer %d", idx, l.Depth))
	}
	return Point{X: idx % l.Width, Y: idx / l.Width}
}

// Tile returns the tile at p for in-place mutation.
func (l *Layer) Tile(p Point) *Tile {
	return &l.Tiles[l.Index(p)]
}

// SetTile replaces the tile at p.
func (l *Layer) SetTile(p Point, t Tile) {
	l.Tiles[l.Index(p)] = t
}

// IsOpaque reports whether the tile at idx blocks sight.
func (l *Layer) IsOpaque(idx int) bool {
	return l.Tiles[idx].Opaque
}

// IsBlocked reports whether p is off the layer or impassable.
func (l *Layer) IsBlocked(p Point) bool {
	if !l.InBounds(p) {
		return true
	}
	return l.Tiles[l.Index(p)].Blocked
}

// IsDoor reports whether p holds a closed door.
func (l *Layer) IsDoor(p Point) bool {
	return l.InBounds(p) && l.Doors[l.Index(p)]
}

// exitOrder is the neighbor order used by AvailableExits and FindPath.
var exitOrder = [...]Point{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}

// AvailableExits returns the 4-directional neighbors of idx that can be
// entered: unblocked tiles, or closed doors.
func (l *Layer) AvailableExits(idx int) []int {
	p := l.PointAt(idx)
	out := make([]int, 0, len(exitOrder))
	for _, d := range exitOrder {
		n := p.Add(d)
		if !l.InBounds(n) {
			continue
		}
		ni := l.Index(n)
		if !l.Tiles[ni].Blocked || l.Doors[ni] {
			out = append(out, ni)
		}
	}
	return out
}

// PlaceDoor turns p into a closed door.
func (l *Layer) PlaceDoor(p Point) {
	idx := l.Index(p)
	l.Tiles[idx] = DoorTile()
	l.Doors[idx] = true
}

// OpenDoor permanently clears the door at p.
//
// Postcondition: returns false if p holds no door; otherwise the tile is
// passable and transparent and no longer flagged as a door.
func (l *Layer) OpenDoor(p Point) bool {
	if !l.IsDoor(p) {
		return false
	}
	idx := l.Index(p)
	l.Doors[idx] = false
	t := &l.Tiles[idx]
	t.Blocked = false
	t.Opaque = false
	t.Glyph = '.'
	return true
}

// ClearVisible resets the visible bitmap.
func (l *Layer) ClearVisible() {
	clear(l.Visible)
}

// Reveal marks every in-bounds point of pts visible and revealed, after
// clearing the previous visible set.
func (l *Layer) Reveal(pts PointSet) {
	l.ClearVisible()
	for p := range pts {
		if !l.InBounds(p) {
			continue
		}
		idx := l.Index(p)
		l.Visible[idx] = true
		l.Revealed[idx] = true
	}
}

// FindDownStairs returns the first down staircase in row-major order.
func (l *Layer) FindDownStairs() (Point, bool) {
	return l.find(StairsDown)
}

// FindUpStairs returns the first up staircase in row-major order.
func (l *Layer) FindUpStairs() (Point, bool) {
	return l.find(StairsUp)
}

func (l *Layer) find(tt TileType) (Point, bool) {
	for i, t := range l.Tiles {
		if t.Type == tt {
			return l.PointAt(i), true
		}
	}
	return Point{}, false
}
