package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Trace is the outcome of one ranged shot.
type Trace struct {
	// Path lists every tile the shot entered, in order.
	Path []world.Point
	// Remaining is the power left when the shot stopped, floored at zero.
	Remaining int
	// Travelled counts tiles entered, excluding wall penalties.
	Travelled int
	// HitWall is set when extrapolation ended on a wall.
	HitWall bool
}

// shot is the running state of a trace.
type shot struct {
	layer     *world.Layer
	layerIdx  int
	power     int
	rng       int
	travelled int
	hitWall   bool
	path      []world.Point
	splat     Splatter
}

// Ranged traces a shot from attacker toward victim with the given power.
//
// The shot walks the Bresenham line from the attacker (exclusive) to the
// victim, hitting whatever stands on each tile, then keeps flying along the
// same heading until it has travelled MaxRange tiles, runs out of power, hits
// a wall, or leaves the layer. Each hit costs the shot the victims' remaining
// hit points; each tile past FalloffRange costs one more.
//
// Precondition: cmds must be non-nil.
// Postcondition: returns false without side effects when either entity has
// no Position, they are on different layers, or power <= 0. Otherwise a
// Projectile carrying the path is queued on cmds.
func (r *Resolver) Ranged(cmds *ecs.Commands, attacker, victim ecs.Entity, power int) (Trace, bool) {
	from, ok := r.position(attacker)
	if !ok {
		return Trace{}, false
	}
	to, ok := r.position(victim)
	if !ok || to.Layer != from.Layer || power <= 0 {
		return Trace{}, false
	}
	layer := r.m.Layer(from.Layer)
	if layer == nil {
		r.logger.Warn("ranged attack on missing layer", zap.Int("layer", from.Layer))
		return Trace{}, false
	}

	s := &shot{layer: layer, layerIdx: from.Layer, power: power}
	line := world.Line(from.Pt, to.Pt)
	for _, pt := range line[1:] {
		if !r.advance(cmds, s, pt) {
			break
		}
	}

	if from.Pt != to.Pt {
		d := to.Pt.Sub(from.Pt)
		length := math.Hypot(float64(d.X), float64(d.Y))
		dx, dy := float64(d.X)/length, float64(d.Y)/length
		fx, fy := float64(to.Pt.X), float64(to.Pt.Y)
		for r.flying(s) {
			fx += dx
			fy += dy
			pt := world.Pt(int(fx), int(fy))
			if pt == s.last() {
				continue
			}
			if !r.advance(cmds, s, pt) {
				break
			}
		}
	}

	cmds.Spawn(
		component.Projectile{Path: s.path, Layer: from.Layer},
		component.Glyph{Rune: '*', Color: world.ColorPair{FG: world.Red, BG: world.Black}},
	)
	r.logger.Debug("ranged attack traced",
		zap.Uint64("attacker", uint64(attacker)),
		zap.Uint64("victim", uint64(victim)),
		zap.Int("power", power),
		zap.Int("remaining", max(0, s.power)),
		zap.Int("tiles", len(s.path)),
	)
	return Trace{Path: s.path, Remaining: max(0, s.power), Travelled: s.travelled, HitWall: s.hitWall}, true
}

func (s *shot) last() world.Point {
	if len(s.path) == 0 {
		return world.Point{X: -1, Y: -1}
	}
	return s.path[len(s.path)-1]
}

func (r *Resolver) flying(s *shot) bool {
	return s.rng < r.settings.MaxRange && s.power > 0
}

// advance moves the shot onto pt and reports whether it may keep going.
func (r *Resolver) advance(cmds *ecs.Commands, s *shot, pt world.Point) bool {
	if !r.flying(s) || !s.layer.InBounds(pt) {
		return false
	}
	s.path = append(s.path, pt)
	s.power -= r.HitTile(cmds, s.layerIdx, pt, s.power, &s.splat)
	tile := s.layer.Tile(pt)
	s.splat.Paint(tile, r.settings.SplatterFade)
	if tile.Type == world.Wall {
		s.rng += 100
		s.power = 0
		s.hitWall = true
	}
	s.rng++
	s.travelled++
	if s.rng > r.settings.FalloffRange {
		s.power--
	}
	return !s.hitWall
}

// HitTile strikes every living entity with Health standing on pt with
// power plus the configured variance, and returns the sum of their hit
// points after the hit. Entities brought to zero are killed, and explosive
// ones leave a Boom.
//
// Precondition: cmds must be non-nil; splat may be nil.
func (r *Resolver) HitTile(cmds *ecs.Commands, layer int, pt world.Point, power int, splat *Splatter) int {
	if splat == nil {
		splat = &Splatter{}
	}
	remaining := 0
	var dead []ecs.Entity
	for _, e := range ecs.Query(r.world, ecs.With[component.Position](), ecs.With[component.Health](), ecs.Without[component.Dead]()) {
		pos, _ := ecs.Get[component.Position](r.world, e)
		if pos.Layer != layer || pos.Pt != pt {
			continue
		}
		hp, _ := ecs.Get[component.Health](r.world, e)
		damage := max(0, power+r.roller.Roll(r.settings.Variance).Total())
		if hp.Damage(damage) {
			dead = append(dead, e)
		}
		remaining += hp.Current
		r.logger.Debug("tile hit",
			zap.Uint64("entity", uint64(e)),
			zap.Int("damage", damage),
			zap.Int("hp", hp.Current),
		)
	}
	for _, e := range dead {
		if ex, ok := ecs.Get[component.Explosive](r.world, e); ok {
			pos, _ := ecs.Get[component.Position](r.world, e)
			cmds.Spawn(*pos, component.Boom{Range: ex.Range})
		}
	}
	r.Kill(cmds, dead, splat)
	return remaining
}
