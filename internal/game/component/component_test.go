package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
)

func TestHealth_DamageFloorsAtZero(t *testing.T) {
	h := component.Health{Current: 3, Max: 3}
	assert.False(t, h.Damage(2))
	assert.True(t, h.Damage(10))
	assert.Equal(t, 0, h.Current)
	assert.Panics(t, func() { h.Damage(-1) })
	h.Heal()
	assert.Equal(t, 3, h.Current)
}

func TestColonistStatus_Transitions(t *testing.T) {
	s := component.StatusUnknown
	assert.True(t, s.Transition(component.StatusAlive))
	assert.False(t, s.Transition(component.StatusUnknown))
	assert.True(t, s.Transition(component.StatusRescued))
	assert.Equal(t, component.StatusRescued, s)
	assert.Equal(t, "rescued", s.String())
}

func TestProperty_TerminalStatusesNeverChange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := component.ColonistStatus(rapid.IntRange(0, 4).Draw(rt, "start"))
		steps := rapid.SliceOf(rapid.IntRange(0, 4)).Draw(rt, "steps")
		for _, n := range steps {
			before := s
			changed := s.Transition(component.ColonistStatus(n))
			if before.Terminal() && (changed || s != before) {
				rt.Fatalf("terminal status %v changed to %v", before, s)
			}
		}
	})
}

func TestTargeting_CycleWraps(t *testing.T) {
	tg := component.Targeting{Targets: []component.TargetEntry{{Entity: 4}, {Entity: 7}}, Current: 4}
	tg.Cycle()
	assert.Equal(t, ecs.Entity(7), tg.Current)
	tg.Cycle()
	assert.Equal(t, ecs.Entity(4), tg.Current)
	assert.Equal(t, 0, tg.Index)

	empty := component.Targeting{Current: 9}
	empty.Cycle()
	assert.Equal(t, ecs.NoEntity, empty.Current)
}

func TestDialog_Pop(t *testing.T) {
	d := component.Dialog{Lines: []string{"a", "b"}}
	line, ok := d.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", line)
	d.Pop()
	_, ok = d.Pop()
	assert.False(t, ok)
}
