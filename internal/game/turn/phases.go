package turn

import (
	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
)

// enemyPhase runs colonists, then marines, then hostiles. Each group's
// commands are flushed before the next group acts.
func (g *Game) enemyPhase() {
	cmds := ecs.NewCommands()
	g.brain.ColonistTurn(cmds)
	cmds.Flush(g.world)
	g.brain.FriendlyTurn(cmds)
	cmds.Flush(g.world)
	g.brain.HostileTurn(cmds)
	cmds.Flush(g.world)
}

// wrapUp ticks timers, detonates pending explosions, lets props speak and
// closes the turn.
func (g *Game) wrapUp() {
	cmds := ecs.NewCommands()
	g.resolver.TickTimers(cmds)
	cmds.Flush(g.world)
	g.resolver.ProcessExplosions(cmds)
	cmds.Flush(g.world)

	for _, e := range ecs.Query(g.world,
		ecs.With[component.Dialog](),
		ecs.With[component.Position](),
		ecs.With[component.Active](),
		ecs.Without[component.Colonist](),
		ecs.Without[component.Dead](),
	) {
		d, _ := ecs.Get[component.Dialog](g.world, e)
		if line, ok := d.Pop(); ok {
			pos, _ := ecs.Get[component.Position](g.world, e)
			ai.Say(cmds, g.tracker, *pos, line, g.settings.DialogLifetime)
		}
	}
	cmds.Flush(g.world)
	g.tracker.RecordTurn()

	if hp, ok := ecs.Get[component.Health](g.world, g.player); !ok || hp.Current < 1 {
		g.end(OutcomeDead)
		return
	}
	g.state = StateWaitingForInput
	g.refreshVision()
}

// AdvanceEffects moves every projectile one point along its path and ages
// every speech bubble by one tick, removing the ones that are spent. It
// reports whether any effect is still running.
func (g *Game) AdvanceEffects() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	running := false
	for _, e := range ecs.Query(g.world, ecs.With[component.Projectile]()) {
		p, _ := ecs.Get[component.Projectile](g.world, e)
		if len(p.Path) == 0 {
			g.world.Despawn(e)
			continue
		}
		p.Path = p.Path[1:]
		running = true
	}
	for _, e := range ecs.Query(g.world, ecs.With[component.Speech]()) {
		s, _ := ecs.Get[component.Speech](g.world, e)
		s.Lifetime--
		if s.Lifetime <= 0 {
			g.world.Despawn(e)
			continue
		}
		running = true
	}
	return running
}
