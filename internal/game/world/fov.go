package world

// octants maps the shadow-casting scan onto each of the eight octants.
var octants = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// FieldOfView returns the points visible from origin within radius using
// recursive shadow casting. Opaque tiles are themselves visible but hide
// what lies behind them.
//
// Postcondition: the origin is always included when it is in bounds; every
// returned point is in bounds and within radius of origin.
func FieldOfView(l *Layer, origin Point, radius int) PointSet {
	visible := make(PointSet)
	if !l.InBounds(origin) {
		return visible
	}
	visible[origin] = struct{}{}
	if radius <= 0 {
		return visible
	}
	for oct := 0; oct < 8; oct++ {
		castLight(l, origin, 1, 1.0, 0.0, radius,
			octants[0][oct], octants[1][oct], octants[2][oct], octants[3][oct], visible)
	}
	return visible
}

func castLight(l *Layer, o Point, row int, start, end float64, radius, xx, xy, yx, yy int, visible PointSet) {
	if start < end {
		return
	}
	radiusSq := radius * radius
	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start
		for {
			dx++
			if dx > 0 {
				break
			}
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			p := Point{X: o.X + dx*xx + dy*xy, Y: o.Y + dx*yx + dy*yy}
			if l.InBounds(p) && dx*dx+dy*dy <= radiusSq {
				visible[p] = struct{}{}
			}

			opaque := !l.InBounds(p) || l.IsOpaque(l.Index(p))
			if blocked {
				if opaque {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if opaque && j < radius {
				blocked = true
				castLight(l, o, j+1, start, lSlope, radius, xx, xy, yx, yy, visible)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
