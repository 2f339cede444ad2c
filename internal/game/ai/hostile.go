package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// move is a pursuit step buffered until every hostile has planned.
type move struct {
	entity ecs.Entity
	to     world.Point
}

// HostileTurn plans and acts for every active, living hostile.
//
// Targets are snapshotted once before any hostile acts; melee reach is
// checked against live positions when each blow lands. Pursuit steps are
// buffered and applied after all hostiles have planned, and two hostiles
// never step onto the same tile.
func (b *Brain) HostileTurn(cmds *ecs.Commands) {
	targets := SnapshotTargets(b.world)
	var moves []move
	for _, e := range ecs.Query(b.world,
		ecs.With[component.Hostile](),
		ecs.With[component.Position](),
		ecs.With[component.Active](),
		ecs.Without[component.Dead](),
	) {
		if ecs.Has[component.Dead](b.world, e) {
			continue
		}
		pos, _ := ecs.Get[component.Position](b.world, e)
		layer := b.m.Layer(pos.Layer)
		if layer == nil {
			continue
		}
		radius := b.settings.HostileSight
		fov, hasFOV := ecs.Get[component.FieldOfView](b.world, e)
		if hasFOV {
			radius = fov.Radius
		}
		ws := BuildWorldState(b.world, layer, e, radius, targets)
		if hasFOV {
			fov.Visible = ws.Agent.Visible
		}

		h, _ := ecs.Get[component.Hostile](b.world, e)
		if p := ws.Player(); p != nil && ws.Sees(p) {
			h.LastKnown, h.HasLastKnown = p.Pos, true
			ws.Agent.Hostile.LastKnown, ws.Agent.Hostile.HasLastKnown = p.Pos, true
		}

		plan, err := b.plannerFor(h.Domain).Plan(ws)
		if err != nil {
			b.logger.Warn("hostile planning failed", zap.Uint64("entity", uint64(e)), zap.Error(err))
			continue
		}
		for _, act := range plan {
			if to, ok := b.act(cmds, e, ws, layer, act); ok {
				moves = append(moves, move{entity: e, to: to})
			}
		}
	}
	b.applyMoves(moves)
}

func (b *Brain) plannerFor(domain string) *Planner {
	if domain != "" {
		if p, ok := b.registry.PlannerFor(domain); ok {
			return p
		}
		b.logger.Debug("unknown hostile domain, using default", zap.String("domain", domain))
	}
	p, _ := b.registry.PlannerFor(DefaultDomainID)
	return p
}

// act performs one planned action; a pursuit returns the tile to step onto.
func (b *Brain) act(cmds *ecs.Commands, e ecs.Entity, ws *WorldState, layer *world.Layer, act PlannedAction) (world.Point, bool) {
	switch act.Action {
	case ActionMelee:
		if act.Target == nil {
			return world.Point{}, false
		}
		for _, atk := range ws.Agent.Hostile.Melee {
			b.resolver.Melee(cmds, e, act.Target.Entity, atk.Damage)
		}
	case ActionShoot:
		if act.Target == nil || !ws.Sees(act.Target) {
			return world.Point{}, false
		}
		d := ws.Distance(act.Target)
		for _, atk := range ws.Agent.Hostile.Ranged {
			if float64(atk.Range) >= d {
				b.resolver.Ranged(cmds, e, act.Target.Entity, atk.Power)
				break
			}
		}
	case ActionPursue:
		goal, ok := b.pursuitGoal(ws, act)
		if !ok || goal == ws.Agent.Pos || !layer.InBounds(goal) {
			return world.Point{}, false
		}
		path, ok := world.FindPath(layer, layer.Index(ws.Agent.Pos), layer.Index(goal))
		if !ok || len(path) == 0 {
			return world.Point{}, false
		}
		next := layer.PointAt(path[0])
		if layer.IsBlocked(next) {
			return world.Point{}, false
		}
		return next, true
	}
	return world.Point{}, false
}

func (b *Brain) pursuitGoal(ws *WorldState, act PlannedAction) (world.Point, bool) {
	if act.Token == "last_known" {
		h := ws.Agent.Hostile
		return h.LastKnown, h.HasLastKnown
	}
	if act.Target == nil || act.Target.Layer != ws.Agent.Layer {
		return world.Point{}, false
	}
	return act.Target.Pos, true
}

func (b *Brain) applyMoves(moves []move) {
	taken := make(map[int]world.PointSet)
	for _, mv := range moves {
		pos, ok := ecs.Get[component.Position](b.world, mv.entity)
		if !ok {
			continue
		}
		occ, ok := taken[pos.Layer]
		if !ok {
			occ = b.occupied(pos.Layer)
			taken[pos.Layer] = occ
		}
		if occ.Contains(mv.to) {
			continue
		}
		delete(occ, pos.Pt)
		occ[mv.to] = struct{}{}
		pos.Pt = mv.to
	}
}
