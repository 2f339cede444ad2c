package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Lines marines call out.
const (
	LineFire      = "Fire!"
	LineCloseCall = "Gear up, we're getting close."
	LineQueenDead = "The Queen is Dead. Save the colonists."
)

// FriendlyTurn lets each active marine shoot the nearest hostile it can
// see, or else advance one step toward the queen.
func (b *Brain) FriendlyTurn(cmds *ecs.Commands) {
	for _, e := range ecs.Query(b.world,
		ecs.With[component.Friendly](),
		ecs.With[component.Position](),
		ecs.With[component.Active](),
		ecs.Without[component.Dead](),
	) {
		fr, _ := ecs.Get[component.Friendly](b.world, e)
		pos, _ := ecs.Get[component.Position](b.world, e)
		layer := b.m.Layer(pos.Layer)
		if layer == nil {
			continue
		}
		if fr.Announced == nil {
			fr.Announced = make(map[string]bool)
		}

		seen := world.FieldOfView(layer, pos.Pt, b.settings.FriendlySight)
		if target, ok := b.nearestHostile(pos, seen); ok {
			if _, fired := b.resolver.Ranged(cmds, e, target, fr.Power); fired {
				Say(cmds, b.tracker, *pos, LineFire, b.settings.FireLifetime)
			}
			continue
		}

		queen, ok := b.queen()
		if !ok {
			if !fr.Announced[LineQueenDead] {
				fr.Announced[LineQueenDead] = true
				Say(cmds, b.tracker, *pos, LineQueenDead, b.settings.DialogLifetime)
			}
			continue
		}
		qpos, _ := ecs.Get[component.Position](b.world, queen)
		if qpos.Layer != pos.Layer {
			continue
		}
		path, ok := world.FindPath(layer, layer.Index(pos.Pt), layer.Index(qpos.Pt))
		if !ok || len(path) == 0 {
			b.logger.Debug("marine has no route to the queen", zap.Uint64("entity", uint64(e)))
			continue
		}
		if len(path)+1 == b.settings.CloseCallSteps && !fr.Announced[LineCloseCall] {
			fr.Announced[LineCloseCall] = true
			Say(cmds, b.tracker, *pos, LineCloseCall, b.settings.CloseCallLifetime)
		}
		next := layer.PointAt(path[0])
		if layer.IsDoor(next) {
			OpenDoor(b.world, cmds, b.m, pos.Layer, next)
			continue
		}
		if !b.occupied(pos.Layer).Contains(next) {
			pos.Pt = next
		}
	}
}

// nearestHostile returns the closest active, living hostile whose tile is in
// seen.
func (b *Brain) nearestHostile(pos *component.Position, seen world.PointSet) (ecs.Entity, bool) {
	best := ecs.NoEntity
	bestDist := 0.0
	for _, h := range ecs.Query(b.world,
		ecs.With[component.Hostile](),
		ecs.With[component.Position](),
		ecs.With[component.Health](),
		ecs.With[component.Active](),
		ecs.Without[component.Dead](),
	) {
		hp, _ := ecs.Get[component.Position](b.world, h)
		if hp.Layer != pos.Layer || !seen.Contains(hp.Pt) {
			continue
		}
		d := world.Distance(pos.Pt, hp.Pt)
		if best == ecs.NoEntity || d < bestDist {
			best, bestDist = h, d
		}
	}
	return best, best != ecs.NoEntity
}

// queen returns the living hostile named Settings.QueenName.
func (b *Brain) queen() (ecs.Entity, bool) {
	for _, h := range ecs.Query(b.world, ecs.With[component.Hostile](), ecs.With[component.Name](), ecs.With[component.Position](), ecs.Without[component.Dead]()) {
		if n, _ := ecs.Get[component.Name](b.world, h); string(*n) == b.settings.QueenName {
			return h, true
		}
	}
	return ecs.NoEntity, false
}
