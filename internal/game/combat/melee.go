package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// InReach reports whether attacker can land a melee blow on victim: both
// positioned on the same layer within MeleeReach.
func (r *Resolver) InReach(attacker, victim ecs.Entity) bool {
	from, ok := r.position(attacker)
	if !ok {
		return false
	}
	to, ok := r.position(victim)
	if !ok || from.Layer != to.Layer {
		return false
	}
	return world.Distance(from.Pt, to.Pt) <= r.settings.MeleeReach
}

// Melee lands one blow of power on victim.
//
// Postcondition: returns false and changes nothing when the victim is out of
// reach, has no Health, or is already dead. Otherwise the victim's health
// drops by power (floored at zero), its blood stains its tile, and a victim
// at zero is killed.
func (r *Resolver) Melee(cmds *ecs.Commands, attacker, victim ecs.Entity, power int) bool {
	if !r.InReach(attacker, victim) || ecs.Has[component.Dead](r.world, victim) {
		return false
	}
	hp, ok := ecs.Get[component.Health](r.world, victim)
	if !ok {
		return false
	}
	hp.Damage(max(0, power))

	var splat Splatter
	if blood, ok := ecs.Get[component.Blood](r.world, victim); ok {
		splat.Set(blood.Color)
		pos, _ := r.position(victim)
		if layer := r.m.Layer(pos.Layer); layer != nil {
			layer.Tile(pos.Pt).Color.FG = blood.Color
		}
	}
	r.logger.Debug("melee hit",
		zap.Uint64("attacker", uint64(attacker)),
		zap.Uint64("victim", uint64(victim)),
		zap.Int("power", power),
		zap.Int("hp", hp.Current),
	)
	if hp.Current == 0 {
		r.Kill(cmds, []ecs.Entity{victim}, &splat)
	}
	return true
}
