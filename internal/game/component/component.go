// Package component defines the data attached to entities in the ecs.World.
//
// Components are plain values; behavior lives in the combat, ai and turn
// packages and is chosen by inspecting which components an entity carries.
package component

import (
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Position places an entity on a layer.
type Position struct {
	Pt    world.Point
	Layer int
}

// At is shorthand for a Position.
func At(x, y, layer int) Position {
	return Position{Pt: world.Pt(x, y), Layer: layer}
}

// Health is hit points.
//
// Invariant: 0 <= Current <= Max.
type Health struct {
	Current int
	Max     int
}

// Damage lowers Current by amount, flooring at zero, and reports whether the
// entity is now at zero.
//
// Precondition: amount >= 0.
func (h *Health) Damage(amount int) bool {
	if amount < 0 {
		panic("component: Health.Damage called with negative amount")
	}
	h.Current = max(0, h.Current-amount)
	return h.Current == 0
}

// Heal restores Current to Max.
func (h *Health) Heal() { h.Current = h.Max }

// Name is the display name.
type Name string

// Description is tooltip flavor text.
type Description string

// Glyph is how the renderer draws the entity.
type Glyph struct {
	Rune  rune
	Color world.ColorPair
}

// Blood is the color painted on tiles when the entity is hurt.
type Blood struct {
	Color world.RGB
}

// Player marks SecBot.
type Player struct{}

// Active entities run their AI each enemy phase.
type Active struct{}

// CanBeActivated entities wake up once the player sees them up close.
type CanBeActivated struct{}

// Found entities have been seen by the player at least once.
type Found struct{}

// Targetable entities appear in the player's target list.
type Targetable struct{}

// Dead marks an entity that has already been through kill cleanup.
type Dead struct{}

// SetDecoration marks scenery that vanishes when destroyed.
type SetDecoration struct{}

// PropertyValue is what the colony loses when the entity is destroyed.
type PropertyValue int

// Door marks the entity standing for a closed door tile.
type Door struct{}

// Explosive entities leave a Boom when they die.
type Explosive struct {
	Range int
}

// Boom is a pending explosion resolved during wrap-up.
type Boom struct {
	Range int
}

// Projectile is a traced shot the renderer animates one point per tick.
type Projectile struct {
	Path  []world.Point
	Layer int
}

// Speech is a transient line of text shown at the entity's Position.
type Speech struct {
	Text     string
	Lifetime int
}

// Dialog is a queue of lines spoken one per turn.
type Dialog struct {
	Lines []string
}

// Pop removes and returns the next line.
func (d *Dialog) Pop() (string, bool) {
	if len(d.Lines) == 0 {
		return "", false
	}
	line := d.Lines[0]
	d.Lines = d.Lines[1:]
	return line, true
}

// FieldOfView is the set of tiles an entity can currently see.
type FieldOfView struct {
	Radius  int
	Visible world.PointSet
}

// TriggerKind is what happens when the player steps on a TileTrigger.
type TriggerKind int

// Tile trigger kinds.
const (
	TriggerEndGame TriggerKind = iota
	TriggerHeal
)

// TileTrigger fires when the player ends an action on its Position.
type TileTrigger struct {
	Kind TriggerKind
}

// TargetEntry is one candidate in the player's target list.
type TargetEntry struct {
	Entity ecs.Entity
	Score  float64
}

// Targeting is the player's target list, best candidate first.
type Targeting struct {
	Targets []TargetEntry
	Current ecs.Entity
	Index   int
}

// Cycle advances to the next target, wrapping around.
func (t *Targeting) Cycle() {
	if len(t.Targets) == 0 {
		t.Current = ecs.NoEntity
		t.Index = 0
		return
	}
	t.Index = (t.Index + 1) % len(t.Targets)
	t.Current = t.Targets[t.Index].Entity
}
