package world

// TileType classifies a tile for stair lookups and projectile stops.
type TileType int

// Tile types.
const (
	Empty TileType = iota
	Floor
	Wall
	Window
	Capsule
	Outside
	StairsDown
	StairsUp
)

var tileTypeNames = [...]string{"empty", "floor", "wall", "window", "capsule", "outside", "stairs_down", "stairs_up"}

// String implements fmt.Stringer.
func (t TileType) String() string {
	if t < 0 || int(t) >= len(tileTypeNames) {
		return "unknown"
	}
	return tileTypeNames[t]
}

// Tile is one cell of a layer.
type Tile struct {
	Glyph   rune
	Color   ColorPair
	Blocked bool
	Opaque  bool
	Type    TileType
}

// EmptyTile is the void around the capsule: impassable but see-through.
func EmptyTile() Tile {
	return Tile{Glyph: '#', Color: ColorPair{FG: DarkGray}, Blocked: true, Type: Empty}
}

// FloorTile is open walkable ground.
func FloorTile() Tile {
	return Tile{Glyph: '.', Color: ColorPair{FG: Grey}, Type: Floor}
}

// WallTile blocks movement and sight and stops projectiles.
func WallTile() Tile {
	return Tile{Glyph: '#', Color: ColorPair{FG: DarkGray}, Blocked: true, Opaque: true, Type: Wall}
}

// WindowTile blocks movement but not sight.
func WindowTile() Tile {
	return Tile{Glyph: '%', Color: ColorPair{FG: DarkCyan}, Blocked: true, Type: Window}
}

// CapsuleTile is the floor of the landing capsule.
func CapsuleTile() Tile {
	return Tile{Glyph: '.', Color: ColorPair{FG: DarkCyan}, Type: Capsule}
}

// OutsideTile is the planet surface.
func OutsideTile() Tile {
	return Tile{Glyph: '~', Color: ColorPair{FG: Sand}, Type: Outside}
}

// DoorTile is a closed door: blocked and opaque until opened.
func DoorTile() Tile {
	return Tile{Glyph: '+', Color: ColorPair{FG: Yellow}, Blocked: true, Opaque: true, Type: Floor}
}

// StairsDownTile leads to the next layer.
func StairsDownTile() Tile {
	return Tile{Glyph: '>', Color: ColorPair{FG: Yellow}, Type: StairsDown}
}

// StairsUpTile leads to the previous layer.
func StairsUpTile() Tile {
	return Tile{Glyph: '<', Color: ColorPair{FG: Yellow}, Type: StairsUp}
}

// ExitTile marks the way back to the ship.
func ExitTile() Tile {
	return Tile{Glyph: '+', Color: ColorPair{FG: Yellow, BG: Red}, Type: Capsule}
}
