package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// CorpsePrefix is prepended to the name of everything that dies.
const CorpsePrefix = "Corpse: "

// Kill turns each entity in dead into a corpse.
//
// Each entity is tagged Dead at once, so killing it again is a no-op. A dying
// colonist becomes DiedAfterStart and counts as a rescue death; scenery
// marked SetDecoration vanishes and counts as a smashed prop; a hostile
// counts as a monster kill. Everything but the player loses the components
// that let it act, be targeted, bleed, or explode; those removals are
// queued on cmds. The last victim's blood becomes the splatter.
func (r *Resolver) Kill(cmds *ecs.Commands, dead []ecs.Entity, splat *Splatter) {
	for _, e := range dead {
		if !r.world.Alive(e) || ecs.Has[component.Dead](r.world, e) {
			continue
		}
		ecs.Add(r.world, e, component.Dead{})

		if status, ok := ecs.Get[component.ColonistStatus](r.world, e); ok {
			if status.Transition(component.StatusDiedAfterStart) {
				r.tracker.RecordDeath()
			}
		}
		if g, ok := ecs.Get[component.Glyph](r.world, e); ok {
			g.Color = world.ColorPair{FG: world.DarkGray, BG: world.DarkRed}
		}
		if name, ok := ecs.Get[component.Name](r.world, e); ok {
			corpse := CorpsePrefix + string(*name)
			if ecs.Has[component.Colonist](r.world, e) && r.roller.Range(0, 10) < 5 {
				corpse += fmt.Sprintf(" They left behind a spouse and %d children.", r.roller.Range(1, 8))
			}
			*name = component.Name(corpse)
		}
		if blood, ok := ecs.Get[component.Blood](r.world, e); ok && splat != nil {
			splat.Set(blood.Color)
		}

		if !ecs.Has[component.Player](r.world, e) {
			ecs.Detach[component.Health](cmds, e)
			ecs.Detach[component.Active](cmds, e)
			ecs.Detach[component.CanBeActivated](cmds, e)
			ecs.Detach[component.Blood](cmds, e)
			ecs.Detach[component.Targetable](cmds, e)
			ecs.Detach[component.Explosive](cmds, e)
			ecs.Detach[component.TimedEvent](cmds, e)
		}
		if ecs.Has[component.SetDecoration](r.world, e) {
			ecs.Detach[component.Glyph](cmds, e)
			ecs.Detach[component.Description](cmds, e)
			r.tracker.RecordPropDeath()
		}
		if ecs.Has[component.Hostile](r.world, e) {
			r.tracker.RecordMonsterDeath()
		}

		var name string
		if n, ok := ecs.Get[component.Name](r.world, e); ok {
			name = string(*n)
		}
		r.logger.Info("entity killed", zap.Uint64("entity", uint64(e)), zap.String("name", name))
	}
}
