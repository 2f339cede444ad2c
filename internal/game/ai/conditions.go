package ai

import "github.com/cory-johannsen/secbot/internal/game/component"

// meleeRange is the largest distance at which a hostile commits to melee.
const meleeRange = 1.4

// Condition is a built-in method precondition.
type Condition func(ws *WorldState) bool

// builtinConditions are checked before falling back to Lua hooks.
var builtinConditions = map[string]Condition{
	"in_melee_range": func(ws *WorldState) bool {
		if len(ws.Agent.Hostile.Melee) == 0 {
			return false
		}
		d := ws.Distance(ws.Nearest())
		return d >= 0 && d < meleeRange
	},
	"has_ranged_shot": func(ws *WorldState) bool {
		_, ok := ws.RangedShot()
		return ok
	},
	"aggro_player": func(ws *WorldState) bool {
		return ws.Agent.Hostile.Aggro == component.AggroPlayer && ws.Agent.Hostile.HasLastKnown
	},
	"aggro_nearest": func(ws *WorldState) bool {
		return ws.Agent.Hostile.Aggro == component.AggroNearest && ws.NearestVisible() != nil
	},
	"sees_player": func(ws *WorldState) bool {
		p := ws.Player()
		return p != nil && ws.Sees(p)
	},
	"wounded": func(ws *WorldState) bool {
		return ws.Agent.MaxHP > 0 && ws.Agent.HP*2 < ws.Agent.MaxHP
	},
}

// IsBuiltinCondition reports whether name is evaluated without Lua.
func IsBuiltinCondition(name string) bool {
	_, ok := builtinConditions[name]
	return ok
}

// RangedShot picks the nearest visible target and the first ranged attack
// that reaches it.
//
// Postcondition: returns false when no visible target or no attack reaches.
func (ws *WorldState) RangedShot() (int, bool) {
	t := ws.NearestVisible()
	if t == nil {
		return 0, false
	}
	d := ws.distance(t)
	for i, atk := range ws.Agent.Hostile.Ranged {
		if float64(atk.Range) >= d {
			return i, true
		}
	}
	return 0, false
}
