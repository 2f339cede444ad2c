package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// ColonistTurn moves every active, living colonist one step toward its
// layer's exit.
//
// A colonist at zero health dies in place. A colonist standing on its exit
// always leaves. Otherwise an armed colonist may fire at a hostile it can
// see instead of moving, with a 25% chance per visible hostile capped at
// 75%. Reaching the exit of the top layer rescues the colonist; reaching
// the exit of a deeper layer carries it to the down stairs of the layer
// above. A colonist without a cached route spends its turn computing one.
func (b *Brain) ColonistTurn(cmds *ecs.Commands) {
	for _, e := range ecs.Query(b.world,
		ecs.With[component.Colonist](),
		ecs.With[component.ColonistStatus](),
		ecs.With[component.Position](),
		ecs.With[component.Active](),
		ecs.Without[component.Dead](),
	) {
		status, _ := ecs.Get[component.ColonistStatus](b.world, e)
		if *status != component.StatusAlive {
			continue
		}
		if hp, ok := ecs.Get[component.Health](b.world, e); ok && hp.Current < 1 {
			if status.Transition(component.StatusDiedAfterStart) {
				b.tracker.RecordDeath()
			}
			ecs.Detach[component.Active](cmds, e)
			continue
		}
		pos, _ := ecs.Get[component.Position](b.world, e)
		if d, ok := ecs.Get[component.Dialog](b.world, e); ok {
			if line, ok := d.Pop(); ok {
				Say(cmds, b.tracker, *pos, line, b.settings.DialogLifetime)
			}
		}
		layer := b.m.Layer(pos.Layer)
		if layer == nil {
			continue
		}
		col, _ := ecs.Get[component.Colonist](b.world, e)

		if pos.Pt == layer.ColonistExit {
			b.colonistExits(cmds, e, status, pos, col)
			continue
		}

		if col.Weapon > 0 && b.colonistFires(cmds, e, col.Weapon, pos, layer) {
			continue
		}

		if len(col.Path) == 0 {
			path, ok := world.FindPath(layer, layer.Index(pos.Pt), layer.Index(layer.ColonistExit))
			if !ok {
				b.logger.Debug("colonist has no route to the exit",
					zap.Uint64("entity", uint64(e)),
					zap.Int("layer", pos.Layer),
				)
				continue
			}
			col.Path = path
			continue
		}

		next := layer.PointAt(col.Path[0])
		if layer.IsDoor(next) {
			OpenDoor(b.world, cmds, b.m, pos.Layer, next)
			continue
		}
		if layer.IsBlocked(next) {
			col.Path = nil
			continue
		}
		col.Path = col.Path[1:]
		pos.Pt = next
	}
}

func (b *Brain) colonistFires(cmds *ecs.Commands, e ecs.Entity, power int, pos *component.Position, layer *world.Layer) bool {
	seen := world.FieldOfView(layer, pos.Pt, b.settings.ColonistSight)
	var hostiles []ecs.Entity
	for _, h := range ecs.Query(b.world, ecs.With[component.Hostile](), ecs.With[component.Position](), ecs.With[component.Health](), ecs.Without[component.Dead]()) {
		hp, _ := ecs.Get[component.Position](b.world, h)
		if hp.Layer == pos.Layer && seen.Contains(hp.Pt) {
			hostiles = append(hostiles, h)
		}
	}
	if len(hostiles) == 0 || !b.roller.Percent(min(75, 25*len(hostiles))) {
		return false
	}
	target := hostiles[b.roller.Pick(len(hostiles))]
	_, fired := b.resolver.Ranged(cmds, e, target, power)
	return fired
}

func (b *Brain) colonistExits(cmds *ecs.Commands, e ecs.Entity, status *component.ColonistStatus, pos *component.Position, col *component.Colonist) {
	if pos.Layer == 0 {
		if status.Transition(component.StatusRescued) {
			ecs.Detach[component.Glyph](cmds, e)
			ecs.Detach[component.Description](cmds, e)
			ecs.Detach[component.Targetable](cmds, e)
			ecs.Detach[component.Active](cmds, e)
			b.logger.Info("colonist rescued", zap.Uint64("entity", uint64(e)))
		}
		return
	}
	above := b.m.Layer(pos.Layer - 1)
	if above == nil {
		return
	}
	stairs, ok := above.FindDownStairs()
	if !ok {
		b.logger.Warn("layer has no down stairs", zap.Int("layer", pos.Layer-1))
		return
	}
	pos.Layer--
	pos.Pt = stairs
	col.Path = nil
}
