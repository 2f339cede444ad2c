package component

import "github.com/cory-johannsen/secbot/internal/game/world"

// AggroMode selects whom a hostile pursues when nothing is in reach.
type AggroMode int

// Aggro modes.
const (
	AggroNearest AggroMode = iota
	AggroPlayer
)

// MeleeAttack is one close-range attack.
type MeleeAttack struct {
	Damage int
}

// RangedAttack is one shot with a maximum range.
type RangedAttack struct {
	Range int
	Power int
}

// Hostile is a creature that attacks the player and colonists.
// A hostile with neither melee nor ranged attacks is passive.
type Hostile struct {
	Aggro  AggroMode
	Melee  []MeleeAttack
	Ranged []RangedAttack
	// Domain names the planner domain; empty uses the built-in one.
	Domain string
	// LastKnown is where the player was last seen; valid when HasLastKnown.
	LastKnown    world.Point
	HasLastKnown bool
}

// Friendly is an allied marine escorting the player toward the queen.
type Friendly struct {
	Power int
	// Announced records milestone lines already spoken.
	Announced map[string]bool
}

// EventKind is what a TimedEvent does when its timer runs out.
type EventKind int

// Timed event kinds.
const (
	EventExplode EventKind = iota
	EventHatch
)

// TimedEvent counts down once per wrap-up phase.
type TimedEvent struct {
	Timer int
	Kind  EventKind
	// Range is the blast radius for EventExplode.
	Range int
	// Template is the spawn template for EventHatch.
	Template string
}
