package turn

import (
	"cmp"
	"slices"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Targeting weights added to distance; lower scores sort first.
const (
	weightHostile   = -50
	weightColonist  = 50
	weightExplosive = -25
)

// refreshVision recomputes the player's field of view, reveals the map,
// wakes what the player can see and rebuilds the target list.
func (g *Game) refreshVision() {
	pos, ok := ecs.Get[component.Position](g.world, g.player)
	if !ok {
		return
	}
	layer := g.m.Layer(pos.Layer)
	if layer == nil {
		return
	}
	g.m.SetCurrent(pos.Layer)

	radius := g.settings.PlayerFOVRadius
	fov, hasFOV := ecs.Get[component.FieldOfView](g.world, g.player)
	if hasFOV {
		radius = fov.Radius
	}
	visible := world.FieldOfView(layer, pos.Pt, radius)
	if hasFOV {
		fov.Visible = visible
	}
	layer.Reveal(visible)

	g.activate(pos, visible)
	g.retarget(pos, visible)
}

// activate marks visible entities Found and wakes the ones close enough.
func (g *Game) activate(pos *component.Position, visible world.PointSet) {
	for _, e := range ecs.Query(g.world, ecs.With[component.Position](), ecs.Without[component.Player]()) {
		p, _ := ecs.Get[component.Position](g.world, e)
		if p.Layer != pos.Layer || !visible.Contains(p.Pt) {
			continue
		}
		if ecs.Has[component.Colonist](g.world, e) {
			ecs.Add(g.world, e, component.Found{})
			if status, ok := ecs.Get[component.ColonistStatus](g.world, e); ok {
				status.Transition(component.StatusAlive)
			}
		}
		if !ecs.Has[component.CanBeActivated](g.world, e) {
			continue
		}
		ecs.Add(g.world, e, component.Found{})
		if world.Distance(pos.Pt, p.Pt) <= g.settings.ActivationRange {
			ecs.Remove[component.CanBeActivated](g.world, e)
			ecs.Add(g.world, e, component.Active{})
		}
	}
}

// retarget rebuilds the target list from visible targetable entities,
// keeping the current target selected while it stays in the list.
func (g *Game) retarget(pos *component.Position, visible world.PointSet) {
	tg, ok := ecs.Get[component.Targeting](g.world, g.player)
	if !ok {
		return
	}
	var entries []component.TargetEntry
	for _, e := range ecs.Query(g.world,
		ecs.With[component.Targetable](),
		ecs.With[component.Position](),
		ecs.Without[component.Dead](),
		ecs.Without[component.Player](),
	) {
		p, _ := ecs.Get[component.Position](g.world, e)
		if p.Layer != pos.Layer || !visible.Contains(p.Pt) {
			continue
		}
		entries = append(entries, component.TargetEntry{
			Entity: e,
			Score:  world.Distance(pos.Pt, p.Pt) + g.targetWeight(e),
		})
	}
	slices.SortStableFunc(entries, func(a, b component.TargetEntry) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Entity, b.Entity)
	})

	prev := tg.Current
	tg.Targets = entries
	tg.Index = 0
	tg.Current = ecs.NoEntity
	if len(entries) == 0 {
		return
	}
	tg.Current = entries[0].Entity
	for i, t := range entries {
		if t.Entity == prev {
			tg.Index, tg.Current = i, prev
			break
		}
	}
}

func (g *Game) targetWeight(e ecs.Entity) float64 {
	w := 0.0
	if ecs.Has[component.Hostile](g.world, e) {
		w += weightHostile
	}
	if ecs.Has[component.Colonist](g.world, e) {
		w += weightColonist
	}
	if ecs.Has[component.Explosive](g.world, e) {
		w += weightExplosive
	}
	return w
}
