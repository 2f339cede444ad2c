package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/stats"
)

func colonist(w *ecs.World, status component.ColonistStatus, found bool) {
	e := w.Spawn(component.Colonist{}, status, component.At(0, 0, 0))
	if found {
		ecs.Add(w, e, component.Found{})
	}
}

func TestTracker_Records(t *testing.T) {
	tr := stats.NewTracker()
	assert.Equal(t, "Nothing", tr.Snapshot().LastHeard)
	tr.RecordTurn()
	tr.RecordTurn()
	tr.RecordSpeech("Fire!")
	tr.RecordDeath()
	tr.RecordPropDeath()
	tr.RecordMonsterDeath()
	assert.Equal(t, stats.PlayStats{TurnsElapsed: 2, LastHeard: "Fire!", TotalDead: 1, PropsSmashed: 1, HostilesKilled: 1}, tr.Snapshot())
}

func TestHumanResources_Baseline(t *testing.T) {
	assert.Equal(t, 50, stats.HumanResources(ecs.NewWorld()))
}

func TestHumanResources_Outcomes(t *testing.T) {
	w := ecs.NewWorld()
	colonist(w, component.StatusRescued, true)
	colonist(w, component.StatusRescued, true)
	colonist(w, component.StatusAlive, true)
	colonist(w, component.StatusStartedDead, true)
	colonist(w, component.StatusDiedAfterStart, true)
	colonist(w, component.StatusDiedAfterStart, false)

	w.Spawn(component.PropertyValue(250), component.At(1, 1, 0))
	w.Spawn(component.PropertyValue(900), component.At(1, 1, 0), component.Health{Current: 1, Max: 1})
	w.Spawn(component.PropertyValue(900))

	c := stats.CountColony(w)
	assert.Equal(t, stats.Colony{Total: 6, LocatedAlive: 1, LocatedDead: 1, DiedInRescue: 1, Rescued: 2}, c)
	assert.Equal(t, 250, stats.PropertyDamage(w))
	// 50 - 2 + 6 - 1 - 10 + 2
	assert.Equal(t, 45, stats.HumanResources(w))
}
