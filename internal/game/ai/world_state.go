package ai

import (
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// TargetState is one creature a hostile may attack, captured at the start of
// the hostile phase.
type TargetState struct {
	Entity ecs.Entity
	Name   string
	Pos    world.Point
	Layer  int
	HP     int
	MaxHP  int
	Player bool
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *TargetState) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// AgentState captures the planning hostile's own state.
type AgentState struct {
	Entity  ecs.Entity
	Name    string
	Pos     world.Point
	Layer   int
	HP      int
	MaxHP   int
	Hostile component.Hostile
	Visible world.PointSet
}

// WorldState is the snapshot passed to the HTN planner for one hostile.
//
// Invariant: Agent must not be nil.
type WorldState struct {
	Agent   *AgentState
	Targets []*TargetState
}

// distance from the agent to t, or -1 when t is on another layer.
func (ws *WorldState) distance(t *TargetState) float64 {
	if t.Layer != ws.Agent.Layer {
		return -1
	}
	return world.Distance(ws.Agent.Pos, t.Pos)
}

// Sees reports whether t stands in the agent's field of view.
func (ws *WorldState) Sees(t *TargetState) bool {
	return t.Layer == ws.Agent.Layer && ws.Agent.Visible.Contains(t.Pos)
}

// Nearest returns the closest target on the agent's layer, seen or not.
//
// Postcondition: ties are broken by order in Targets; nil when none share
// the layer.
func (ws *WorldState) Nearest() *TargetState {
	return ws.nearest(func(*TargetState) bool { return true })
}

// NearestVisible returns the closest target the agent can see.
func (ws *WorldState) NearestVisible() *TargetState {
	return ws.nearest(ws.Sees)
}

func (ws *WorldState) nearest(keep func(*TargetState) bool) *TargetState {
	var best *TargetState
	bestDist := 0.0
	for _, t := range ws.Targets {
		d := ws.distance(t)
		if d < 0 || !keep(t) {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// Weakest returns the visible target with the lowest HP percentage.
func (ws *WorldState) Weakest() *TargetState {
	var weakest *TargetState
	for _, t := range ws.Targets {
		if !ws.Sees(t) {
			continue
		}
		if weakest == nil || t.HPPercent() < weakest.HPPercent() {
			weakest = t
		}
	}
	return weakest
}

// Player returns the player's entry, or nil.
func (ws *WorldState) Player() *TargetState {
	for _, t := range ws.Targets {
		if t.Player {
			return t
		}
	}
	return nil
}

// Distance returns the distance from the agent to t, or -1 when t is nil or
// on another layer.
func (ws *WorldState) Distance(t *TargetState) float64 {
	if t == nil {
		return -1
	}
	return ws.distance(t)
}

// ResolveTarget maps an operator's target token to a target.
//
// Postcondition: "nearest", "nearest_visible", "weakest" and "player" resolve
// to a snapshot entry or nil; "last_known" and unknown tokens resolve to nil
// and are handled by the caller.
func (ws *WorldState) ResolveTarget(token string) *TargetState {
	switch token {
	case "nearest":
		return ws.Nearest()
	case "nearest_visible":
		return ws.NearestVisible()
	case "weakest":
		return ws.Weakest()
	case "player":
		return ws.Player()
	}
	return nil
}
