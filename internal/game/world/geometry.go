// Package world is the spatial model of the facility: fixed-size tile layers
// (one per floor), their visibility bitmaps, and the geometry used for
// movement, sight, and projectile tracing.
package world

import (
	"cmp"
	"math"
	"slices"
)

// Point is a tile coordinate within a layer.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan is the 4-directional step distance between a and b.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Direction is one of the four movement directions.
type Direction string

// Movement directions.
const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Delta returns the unit offset for d; unknown directions yield the zero Point.
func (d Direction) Delta() Point {
	switch d {
	case North:
		return Point{Y: -1}
	case South:
		return Point{Y: 1}
	case East:
		return Point{X: 1}
	case West:
		return Point{X: -1}
	}
	return Point{}
}

// Opposite returns the reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return ""
}

// PointSet is an unordered set of points.
type PointSet map[Point]struct{}

// Contains reports whether p is in s.
func (s PointSet) Contains(p Point) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members of s in row-major order.
func (s PointSet) Sorted() []Point {
	out := make([]Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.SortFunc(out, ComparePoints)
	return out
}

// ComparePoints orders points row-major.
func ComparePoints(a, b Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// Line returns the Bresenham line from a to b, both endpoints included.
//
// Postcondition: result[0] == a, result[len-1] == b, consecutive points are
// 8-adjacent.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	out := make([]Point, 0, max(dx, -dy)+1)
	x, y := a.X, a.Y
	for {
		out = append(out, Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}
