// Package stats keeps the per-game tallies shown on the status panel and
// derives the colony's "human resources" standing from the entity store.
package stats

import (
	"sync"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
)

// PlayStats is a snapshot of the tallies.
type PlayStats struct {
	TurnsElapsed   int
	LastHeard      string
	TotalDead      int
	PropsSmashed   int
	HostilesKilled int
}

// Tracker accumulates PlayStats for one game.
type Tracker struct {
	mu sync.Mutex
	s  PlayStats
}

// NewTracker returns a Tracker with nothing heard yet.
func NewTracker() *Tracker {
	return &Tracker{s: PlayStats{LastHeard: "Nothing"}}
}

// RecordTurn counts one completed turn.
func (t *Tracker) RecordTurn() { t.update(func(s *PlayStats) { s.TurnsElapsed++ }) }

// RecordSpeech remembers the most recent line spoken.
func (t *Tracker) RecordSpeech(line string) { t.update(func(s *PlayStats) { s.LastHeard = line }) }

// RecordDeath counts a colonist dying during the rescue.
func (t *Tracker) RecordDeath() { t.update(func(s *PlayStats) { s.TotalDead++ }) }

// RecordPropDeath counts destroyed scenery.
func (t *Tracker) RecordPropDeath() { t.update(func(s *PlayStats) { s.PropsSmashed++ }) }

// RecordMonsterDeath counts a killed hostile.
func (t *Tracker) RecordMonsterDeath() { t.update(func(s *PlayStats) { s.HostilesKilled++ }) }

// Snapshot returns a copy of the current tallies.
func (t *Tracker) Snapshot() PlayStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}

func (t *Tracker) update(fn func(*PlayStats)) {
	t.mu.Lock()
	fn(&t.s)
	t.mu.Unlock()
}

// Colony counts colonists the player has located, by outcome.
type Colony struct {
	Total        int
	LocatedAlive int
	LocatedDead  int
	DiedInRescue int
	Rescued      int
}

// CountColony tallies colonists; only Found colonists count toward outcomes.
func CountColony(w *ecs.World) Colony {
	var c Colony
	for _, e := range ecs.Query(w, ecs.With[component.Colonist](), ecs.With[component.ColonistStatus]()) {
		c.Total++
		if !ecs.Has[component.Found](w, e) {
			continue
		}
		status, _ := ecs.Get[component.ColonistStatus](w, e)
		switch *status {
		case component.StatusAlive:
			c.LocatedAlive++
		case component.StatusStartedDead:
			c.LocatedDead++
		case component.StatusDiedAfterStart:
			c.DiedInRescue++
		case component.StatusRescued:
			c.Rescued++
		}
	}
	return c
}

// PropertyDamage sums the value of positioned property that no longer has Health.
func PropertyDamage(w *ecs.World) int {
	total := 0
	for _, e := range ecs.Query(w, ecs.With[component.PropertyValue](), ecs.With[component.Position](), ecs.Without[component.Health]()) {
		v, _ := ecs.Get[component.PropertyValue](w, e)
		total += int(*v)
	}
	return total
}

// HumanResources is the colony's opinion of SecBot: rescues raise it,
// deaths and wrecked property lower it.
func HumanResources(w *ecs.World) int {
	c := CountColony(w)
	hr := 50
	hr -= PropertyDamage(w) / 100
	hr += c.Rescued * 3
	hr -= c.LocatedDead
	hr -= c.DiedInRescue * 10
	hr += c.LocatedAlive * 2
	return hr
}
