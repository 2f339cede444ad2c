package turn

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

var moveDeltas = map[Action]world.Point{
	ActionMoveNorth: {Y: -1},
	ActionMoveSouth: {Y: 1},
	ActionMoveEast:  {X: 1},
	ActionMoveWest:  {X: -1},
}

// perform applies a player action and reports whether it used up the turn.
// Actions that change nothing leave the game waiting for input.
func (g *Game) perform(a Action) bool {
	pos, ok := ecs.Get[component.Position](g.world, g.player)
	if !ok {
		g.logger.Warn("player has no position")
		return false
	}
	switch a {
	case ActionMoveNorth, ActionMoveSouth, ActionMoveEast, ActionMoveWest:
		return g.move(pos, moveDeltas[a])
	case ActionCycleTarget:
		if tg, ok := ecs.Get[component.Targeting](g.world, g.player); ok {
			tg.Cycle()
		}
		return false
	case ActionAscend:
		return g.ascend(pos)
	case ActionDescend:
		return g.descend(pos)
	case ActionFire:
		return g.fire()
	case ActionWait:
		return true
	}
	return false
}

// move steps the player by d. Walking into a closed door opens it instead
// and still costs the turn.
func (g *Game) move(pos *component.Position, d world.Point) bool {
	layer := g.m.Layer(pos.Layer)
	if layer == nil {
		return false
	}
	dest := pos.Pt.Add(d)
	if layer.IsDoor(dest) {
		cmds := ecs.NewCommands()
		opened := ai.OpenDoor(g.world, cmds, g.m, pos.Layer, dest)
		cmds.Flush(g.world)
		if opened {
			g.logger.Debug("player opened door", zap.Int("x", dest.X), zap.Int("y", dest.Y), zap.Int("layer", pos.Layer))
		}
		return opened
	}
	if layer.IsBlocked(dest) || g.bodyAt(pos.Layer, dest) {
		return false
	}
	pos.Pt = dest
	return true
}

// bodyAt reports whether a living creature other than the player stands on pt.
func (g *Game) bodyAt(layer int, pt world.Point) bool {
	for _, e := range ecs.Query(g.world,
		ecs.With[component.Position](),
		ecs.With[component.Health](),
		ecs.Without[component.Dead](),
		ecs.Without[component.Player](),
	) {
		p, _ := ecs.Get[component.Position](g.world, e)
		if p.Layer == layer && p.Pt == pt {
			return true
		}
	}
	return false
}

func (g *Game) ascend(pos *component.Position) bool {
	layer := g.m.Layer(pos.Layer)
	above := g.m.Layer(pos.Layer - 1)
	if layer == nil || above == nil || layer.Tile(pos.Pt).Type != world.StairsUp {
		return false
	}
	down, ok := above.FindDownStairs()
	if !ok {
		g.logger.Warn("layer has no down stairs", zap.Int("layer", above.Depth))
		return false
	}
	pos.Layer, pos.Pt = above.Depth, down
	return true
}

func (g *Game) descend(pos *component.Position) bool {
	layer := g.m.Layer(pos.Layer)
	below := g.m.Layer(pos.Layer + 1)
	if layer == nil || below == nil || layer.Tile(pos.Pt).Type != world.StairsDown {
		return false
	}
	pos.Layer, pos.Pt = below.Depth, below.Start
	return true
}

// fire shoots at the current target. With nothing targeted the turn is kept.
func (g *Game) fire() bool {
	tg, ok := ecs.Get[component.Targeting](g.world, g.player)
	if !ok || tg.Current == ecs.NoEntity || !g.world.Alive(tg.Current) || ecs.Has[component.Dead](g.world, tg.Current) {
		return false
	}
	cmds := ecs.NewCommands()
	trace, ok := g.resolver.Ranged(cmds, g.player, tg.Current, g.settings.FirePower)
	cmds.Flush(g.world)
	if !ok {
		return false
	}
	g.logger.Debug("player fired",
		zap.Uint64("target", uint64(tg.Current)),
		zap.Int("travelled", trace.Travelled),
		zap.Int("remaining", trace.Remaining),
	)
	return true
}

// checkTriggers fires the tile triggers under the player.
func (g *Game) checkTriggers() {
	pos, ok := ecs.Get[component.Position](g.world, g.player)
	if !ok {
		return
	}
	for _, e := range ecs.Query(g.world, ecs.With[component.TileTrigger](), ecs.With[component.Position]()) {
		p, _ := ecs.Get[component.Position](g.world, e)
		if p.Layer != pos.Layer || p.Pt != pos.Pt {
			continue
		}
		trig, _ := ecs.Get[component.TileTrigger](g.world, e)
		switch trig.Kind {
		case component.TriggerEndGame:
			g.end(OutcomeLeft)
			return
		case component.TriggerHeal:
			if hp, ok := ecs.Get[component.Health](g.world, g.player); ok {
				hp.Heal()
			}
		}
	}
}
