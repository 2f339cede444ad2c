package ai

import (
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// SnapshotTargets captures everything hostiles may attack: the player and
// every living colonist with Health.
//
// Postcondition: the player, when present, comes first; colonists follow in
// entity order.
func SnapshotTargets(w *ecs.World) []*TargetState {
	var out []*TargetState
	for _, e := range ecs.Query(w, ecs.With[component.Player](), ecs.With[component.Position](), ecs.With[component.Health]()) {
		out = append(out, targetOf(w, e, true))
	}
	for _, e := range ecs.Query(w,
		ecs.With[component.Colonist](),
		ecs.With[component.ColonistStatus](),
		ecs.With[component.Position](),
		ecs.With[component.Health](),
		ecs.Without[component.Dead](),
	) {
		if s, _ := ecs.Get[component.ColonistStatus](w, e); *s != component.StatusAlive {
			continue
		}
		out = append(out, targetOf(w, e, false))
	}
	return out
}

func targetOf(w *ecs.World, e ecs.Entity, player bool) *TargetState {
	pos, _ := ecs.Get[component.Position](w, e)
	hp, _ := ecs.Get[component.Health](w, e)
	t := &TargetState{Entity: e, Pos: pos.Pt, Layer: pos.Layer, HP: hp.Current, MaxHP: hp.Max, Player: player}
	if n, ok := ecs.Get[component.Name](w, e); ok {
		t.Name = string(*n)
	}
	return t
}

// BuildWorldState constructs a planning snapshot for the hostile e.
//
// Precondition: e must carry Hostile and Position.
// Postcondition: ws.Agent.Entity == e and ws.Targets is targets.
func BuildWorldState(w *ecs.World, layer *world.Layer, e ecs.Entity, radius int, targets []*TargetState) *WorldState {
	pos, _ := ecs.Get[component.Position](w, e)
	h, _ := ecs.Get[component.Hostile](w, e)
	agent := &AgentState{
		Entity:  e,
		Pos:     pos.Pt,
		Layer:   pos.Layer,
		Hostile: *h,
		Visible: world.FieldOfView(layer, pos.Pt, radius),
	}
	if n, ok := ecs.Get[component.Name](w, e); ok {
		agent.Name = string(*n)
	}
	if hp, ok := ecs.Get[component.Health](w, e); ok {
		agent.HP, agent.MaxHP = hp.Current, hp.Max
	}
	return &WorldState{Agent: agent, Targets: targets}
}
