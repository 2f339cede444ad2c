package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/combat"
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/stats"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Settings tune actor behavior.
type Settings struct {
	ColonistSight int
	FriendlySight int
	QueenName     string
	// CloseCallSteps is the length of the marine's route to the queen, its
	// own tile included, at which it warns the queen is near.
	CloseCallSteps int
	// HostileSight is the fallback field-of-view radius for hostiles without
	// a FieldOfView component.
	HostileSight int

	DialogLifetime    int
	FireLifetime      int
	CloseCallLifetime int
}

// DefaultSettings mirrors the shipped tuning.
func DefaultSettings() Settings {
	return Settings{
		ColonistSight:     6,
		FriendlySight:     8,
		QueenName:         "Alien Queen",
		CloseCallSteps:    15,
		HostileSight:      6,
		DialogLifetime:    20,
		FireLifetime:      300,
		CloseCallLifetime: 1000,
	}
}

// Brain runs the enemy phase for colonists, marines and hostiles.
type Brain struct {
	world    *ecs.World
	m        *world.Map
	resolver *combat.Resolver
	roller   *dice.Roller
	tracker  *stats.Tracker
	registry *Registry
	settings Settings
	logger   *zap.Logger
}

// NewBrain wires a Brain. Hostiles whose domain is not in registry fall back
// to DefaultDomainID, which is registered on demand.
//
// Precondition: every argument must be non-nil.
func NewBrain(w *ecs.World, m *world.Map, resolver *combat.Resolver, roller *dice.Roller, tracker *stats.Tracker, registry *Registry, settings Settings, logger *zap.Logger) *Brain {
	if w == nil || m == nil || resolver == nil || roller == nil || tracker == nil || registry == nil || logger == nil {
		panic("ai: NewBrain called with a nil dependency")
	}
	if _, ok := registry.PlannerFor(DefaultDomainID); !ok {
		_ = registry.Register(DefaultDomain(), nil)
	}
	return &Brain{
		world:    w,
		m:        m,
		resolver: resolver,
		roller:   roller,
		tracker:  tracker,
		registry: registry,
		settings: settings,
		logger:   logger,
	}
}

// Say queues a speech bubble at pos and records it as the last thing heard.
func Say(cmds *ecs.Commands, tracker *stats.Tracker, pos component.Position, text string, lifetime int) {
	cmds.Spawn(pos, component.Speech{Text: text, Lifetime: lifetime})
	tracker.RecordSpeech(text)
}

// OpenDoor permanently opens the door at pt on layer idx and queues the
// removal of the entity standing for it.
//
// Postcondition: returns false when there is no door at pt.
func OpenDoor(w *ecs.World, cmds *ecs.Commands, m *world.Map, idx int, pt world.Point) bool {
	layer := m.Layer(idx)
	if layer == nil || !layer.OpenDoor(pt) {
		return false
	}
	for _, e := range ecs.Query(w, ecs.With[component.Door](), ecs.With[component.Position]()) {
		pos, _ := ecs.Get[component.Position](w, e)
		if pos.Layer == idx && pos.Pt == pt {
			cmds.Despawn(e)
		}
	}
	return true
}

// occupied returns the tiles on layer idx held by living bodies.
func (b *Brain) occupied(idx int) world.PointSet {
	out := make(world.PointSet)
	for _, e := range ecs.Query(b.world, ecs.With[component.Position](), ecs.With[component.Health](), ecs.Without[component.Dead]()) {
		pos, _ := ecs.Get[component.Position](b.world, e)
		if pos.Layer == idx {
			out[pos.Pt] = struct{}{}
		}
	}
	return out
}
