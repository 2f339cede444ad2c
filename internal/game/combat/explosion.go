package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// ProcessExplosions resolves every pending Boom and returns how many went
// off.
//
// Each blast covers the field of view of its range from its center. Every
// covered tile is scorched, gets a fire projectile animated from the center,
// and is hit with BoomPower. The Boom itself is despawned. Explosives killed
// by a blast queue new Booms for the next wrap-up.
func (r *Resolver) ProcessExplosions(cmds *ecs.Commands) int {
	booms := ecs.Query(r.world, ecs.With[component.Boom](), ecs.With[component.Position]())
	for _, e := range booms {
		boom, _ := ecs.Get[component.Boom](r.world, e)
		pos, _ := ecs.Get[component.Position](r.world, e)
		cmds.Despawn(e)

		layer := r.m.Layer(pos.Layer)
		if layer == nil || !layer.InBounds(pos.Pt) {
			r.logger.Warn("explosion off the map", zap.Int("layer", pos.Layer), zap.Int("x", pos.Pt.X), zap.Int("y", pos.Pt.Y))
			continue
		}
		blast := world.FieldOfView(layer, pos.Pt, boom.Range).Sorted()
		for _, pt := range blast {
			layer.Tile(pt).Color.BG = world.Scorched
			cmds.Spawn(
				component.Projectile{Path: world.Line(pos.Pt, pt), Layer: pos.Layer},
				component.Glyph{Rune: '░', Color: world.ColorPair{FG: world.Orange, BG: world.Black}},
			)
		}
		for _, pt := range blast {
			r.HitTile(cmds, pos.Layer, pt, r.settings.BoomPower, nil)
		}
		r.logger.Info("explosion",
			zap.Int("layer", pos.Layer),
			zap.String("center", fmt.Sprintf("%d,%d", pos.Pt.X, pos.Pt.Y)),
			zap.Int("range", boom.Range),
			zap.Int("tiles", len(blast)),
		)
	}
	return len(booms)
}

// TickTimers counts down every active TimedEvent.
//
// An expired timer removes its entity and either leaves a Boom or hatches
// its template in place; a running one announces the ticks left.
func (r *Resolver) TickTimers(cmds *ecs.Commands) {
	for _, e := range ecs.Query(r.world,
		ecs.With[component.TimedEvent](),
		ecs.With[component.Position](),
		ecs.With[component.Active](),
		ecs.Without[component.Dead](),
	) {
		ev, _ := ecs.Get[component.TimedEvent](r.world, e)
		pos, _ := ecs.Get[component.Position](r.world, e)
		ev.Timer--
		if ev.Timer > 0 {
			cmds.Spawn(*pos, component.Speech{Text: fmt.Sprintf("Timer: %d", ev.Timer), Lifetime: r.settings.TimerSpeechLifetime})
			continue
		}

		cmds.Despawn(e)
		switch ev.Kind {
		case component.EventExplode:
			rng := ev.Range
			if rng <= 0 {
				rng = r.settings.DefaultBoomRange
			}
			cmds.Spawn(*pos, component.Boom{Range: rng})
		case component.EventHatch:
			if r.hatcher == nil {
				r.logger.Warn("hatch timer expired with no hatcher", zap.String("template", ev.Template))
				continue
			}
			if err := r.hatcher.Hatch(cmds, ev.Template, *pos); err != nil {
				r.logger.Warn("hatch failed", zap.String("template", ev.Template), zap.Error(err))
			}
		}
	}
}
