package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/combat"
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/stats"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

type brainFixture struct {
	w       *ecs.World
	m       *world.Map
	tracker *stats.Tracker
	brain   *ai.Brain
}

// newBrainFixture builds two 12x5 open floors. Layer 0 exits at (1,1);
// layer 1 has its exit at (1,1) and layer 0 has down stairs at (10,3).
func newBrainFixture(t *testing.T, rolls ...int) *brainFixture {
	t.Helper()
	top := world.NewLayer(0, 12, 5, world.FloorTile())
	top.ColonistExit = world.Pt(1, 1)
	top.SetTile(world.Pt(10, 3), world.StairsDownTile())
	deep := world.NewLayer(1, 12, 5, world.FloorTile())
	deep.ColonistExit = world.Pt(1, 1)
	m, err := world.NewMap([]*world.Layer{top, deep})
	require.NoError(t, err)

	if len(rolls) == 0 {
		rolls = []int{1}
	}
	logger := zap.NewNop()
	w := ecs.NewWorld()
	tracker := stats.NewTracker()
	roller := dice.NewLoggedRoller(&dice.Fixed{Values: rolls}, logger)
	resolver := combat.NewResolver(w, m, roller, tracker, nil, combat.DefaultSettings(), logger)
	brain := ai.NewBrain(w, m, resolver, roller, tracker, ai.NewRegistry(), ai.DefaultSettings(), logger)
	return &brainFixture{w: w, m: m, tracker: tracker, brain: brain}
}

func (f *brainFixture) colonist(x, y, layer, hp int) ecs.Entity {
	return f.w.Spawn(
		component.At(x, y, layer),
		component.Health{Current: hp, Max: max(hp, 1)},
		component.Name("Miner"),
		component.Colonist{},
		component.StatusAlive,
		component.Active{},
		component.Targetable{},
		component.Glyph{Rune: '☺'},
	)
}

func (f *brainFixture) hostile(x, y int, h component.Hostile, hp int) ecs.Entity {
	return f.w.Spawn(
		component.At(x, y, 0),
		component.Health{Current: hp, Max: hp},
		component.Name("Face Eater"),
		h,
		component.Active{},
	)
}

func (f *brainFixture) run(step func(*ecs.Commands)) {
	cmds := ecs.NewCommands()
	step(cmds)
	cmds.Flush(f.w)
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) component.Position {
	t.Helper()
	pos, ok := ecs.Get[component.Position](w, e)
	require.True(t, ok)
	return *pos
}

func status(w *ecs.World, e ecs.Entity) component.ColonistStatus {
	s, _ := ecs.Get[component.ColonistStatus](w, e)
	return *s
}

func TestColonistTurn_WalksToExitAndIsRescued(t *testing.T) {
	f := newBrainFixture(t)
	miner := f.colonist(4, 1, 0, 5)

	f.run(f.brain.ColonistTurn)
	assert.Equal(t, world.Pt(4, 1), position(t, f.w, miner).Pt, "first turn computes the route")

	for _, want := range []world.Point{{X: 3, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}} {
		f.run(f.brain.ColonistTurn)
		assert.Equal(t, want, position(t, f.w, miner).Pt)
	}
	f.run(f.brain.ColonistTurn)
	assert.Equal(t, component.StatusRescued, status(f.w, miner))
	assert.False(t, ecs.Has[component.Glyph](f.w, miner))

	f.run(f.brain.ColonistTurn)
	assert.Equal(t, component.StatusRescued, status(f.w, miner), "rescued is terminal")
}

func TestColonistTurn_ClimbsToLayerAbove(t *testing.T) {
	f := newBrainFixture(t)
	miner := f.colonist(1, 1, 1, 5)
	f.run(f.brain.ColonistTurn)
	assert.Equal(t, component.At(10, 3, 0), position(t, f.w, miner))
	assert.Equal(t, component.StatusAlive, status(f.w, miner))
}

func TestColonistTurn_DiesAtZeroHealth(t *testing.T) {
	f := newBrainFixture(t)
	miner := f.colonist(4, 1, 0, 0)
	f.run(f.brain.ColonistTurn)
	assert.Equal(t, component.StatusDiedAfterStart, status(f.w, miner))
	assert.False(t, ecs.Has[component.Active](f.w, miner))
	assert.Equal(t, 1, f.tracker.Snapshot().TotalDead)
}

func TestColonistTurn_TerminalColonistsStayPut(t *testing.T) {
	f := newBrainFixture(t)
	corpse := f.colonist(4, 1, 0, 5)
	*ecs.MustGet[component.ColonistStatus](f.w, corpse) = component.StatusStartedDead
	f.run(f.brain.ColonistTurn)
	f.run(f.brain.ColonistTurn)
	assert.Equal(t, world.Pt(4, 1), position(t, f.w, corpse).Pt)
	assert.Equal(t, component.StatusStartedDead, status(f.w, corpse))
}

func TestColonistTurn_SpeaksDialog(t *testing.T) {
	f := newBrainFixture(t)
	miner := f.colonist(4, 1, 0, 5)
	ecs.Add(f.w, miner, component.Dialog{Lines: []string{"Help!", "This way!"}})
	f.run(f.brain.ColonistTurn)
	assert.Equal(t, "Help!", f.tracker.Snapshot().LastHeard)
	f.run(f.brain.ColonistTurn)
	assert.Equal(t, "This way!", f.tracker.Snapshot().LastHeard)
}

func TestColonistTurn_ArmedColonistFires(t *testing.T) {
	f := newBrainFixture(t, 0)
	miner := f.colonist(4, 1, 0, 5)
	ecs.MustGet[component.Colonist](f.w, miner).Weapon = 5
	beast := f.hostile(6, 1, component.Hostile{}, 10)

	f.run(f.brain.ColonistTurn)
	hp, _ := ecs.Get[component.Health](f.w, beast)
	assert.Equal(t, 6, hp.Current)
	assert.Equal(t, 1, ecs.Count[component.Projectile](f.w))
}

func TestHostileTurn_PursuesNearest(t *testing.T) {
	f := newBrainFixture(t)
	f.colonist(6, 1, 0, 5)
	beast := f.hostile(2, 1, component.Hostile{Aggro: component.AggroNearest, Melee: []component.MeleeAttack{{Damage: 1}}}, 3)
	f.run(f.brain.HostileTurn)
	assert.Equal(t, world.Pt(3, 1), position(t, f.w, beast).Pt)
}

func TestHostileTurn_MeleeWhenAdjacent(t *testing.T) {
	f := newBrainFixture(t)
	miner := f.colonist(3, 1, 0, 5)
	beast := f.hostile(2, 1, component.Hostile{Melee: []component.MeleeAttack{{Damage: 1}, {Damage: 2}}}, 3)
	f.run(f.brain.HostileTurn)
	hp, _ := ecs.Get[component.Health](f.w, miner)
	assert.Equal(t, 2, hp.Current)
	assert.Equal(t, world.Pt(2, 1), position(t, f.w, beast).Pt)
}

func TestHostileTurn_RemembersPlayer(t *testing.T) {
	f := newBrainFixture(t)
	f.w.Spawn(component.At(6, 1, 0), component.Player{}, component.Health{Current: 10, Max: 10})
	beast := f.hostile(2, 1, component.Hostile{Aggro: component.AggroPlayer}, 3)
	f.run(f.brain.HostileTurn)
	h, _ := ecs.Get[component.Hostile](f.w, beast)
	assert.True(t, h.HasLastKnown)
	assert.Equal(t, world.Pt(6, 1), h.LastKnown)
	assert.Equal(t, world.Pt(3, 1), position(t, f.w, beast).Pt)
}

func TestHostileTurn_NeverStacks(t *testing.T) {
	f := newBrainFixture(t)
	f.colonist(5, 4, 0, 5)
	a := f.hostile(4, 2, component.Hostile{}, 3)
	b := f.hostile(6, 2, component.Hostile{}, 3)
	f.run(f.brain.HostileTurn)
	assert.Equal(t, world.Pt(5, 2), position(t, f.w, a).Pt)
	assert.Equal(t, world.Pt(6, 2), position(t, f.w, b).Pt, "second hostile yields the contested tile")
}

func TestFriendlyTurn_FiresAtVisibleHostile(t *testing.T) {
	f := newBrainFixture(t)
	f.w.Spawn(component.At(2, 2, 0), component.Friendly{Power: 5}, component.Active{})
	beast := f.hostile(6, 2, component.Hostile{}, 20)
	f.run(f.brain.FriendlyTurn)
	hp, _ := ecs.Get[component.Health](f.w, beast)
	assert.Equal(t, 15, hp.Current)
	assert.Equal(t, ai.LineFire, f.tracker.Snapshot().LastHeard)
}

func TestFriendlyTurn_AnnouncesDeadQueenOnce(t *testing.T) {
	f := newBrainFixture(t)
	f.w.Spawn(component.At(2, 2, 0), component.Friendly{Power: 5}, component.Active{})
	f.run(f.brain.FriendlyTurn)
	f.run(f.brain.FriendlyTurn)
	assert.Equal(t, ai.LineQueenDead, f.tracker.Snapshot().LastHeard)
	assert.Equal(t, 1, ecs.Count[component.Speech](f.w))
}

func TestColonistTurn_ArmedColonistOnExitLeavesInsteadOfFiring(t *testing.T) {
	f := newBrainFixture(t, 0)
	guard := f.colonist(1, 1, 0, 5)
	ecs.MustGet[component.Colonist](f.w, guard).Weapon = 5
	beast := f.hostile(5, 1, component.Hostile{}, 10)

	f.run(f.brain.ColonistTurn)

	assert.Equal(t, component.StatusRescued, status(f.w, guard))
	assert.Equal(t, 10, ecs.MustGet[component.Health](f.w, beast).Current)
	assert.Zero(t, ecs.Count[component.Projectile](f.w))
}

func TestHostileTurn_ShootsWithFirstAttackInRange(t *testing.T) {
	f := newBrainFixture(t, 0)
	miner := f.colonist(6, 1, 0, 10)
	f.hostile(2, 1, component.Hostile{Ranged: []component.RangedAttack{
		{Range: 2, Power: 9},
		{Range: 5, Power: 4},
		{Range: 6, Power: 7},
	}}, 3)

	f.run(f.brain.HostileTurn)

	assert.Equal(t, 7, ecs.MustGet[component.Health](f.w, miner).Current, "power 4 less one for the variance roll")
	assert.Equal(t, 1, ecs.Count[component.Projectile](f.w))
}

func TestHostileTurn_HoldsFireWhenOutOfRange(t *testing.T) {
	f := newBrainFixture(t, 0)
	miner := f.colonist(7, 1, 0, 10)
	beast := f.hostile(2, 1, component.Hostile{Ranged: []component.RangedAttack{{Range: 3, Power: 4}}}, 3)

	f.run(f.brain.HostileTurn)

	assert.Equal(t, 10, ecs.MustGet[component.Health](f.w, miner).Current)
	assert.Zero(t, ecs.Count[component.Projectile](f.w))
	assert.Equal(t, world.Pt(3, 1), position(t, f.w, beast).Pt, "closes in instead")
}

func TestHostileTurn_StoresFieldOfView(t *testing.T) {
	f := newBrainFixture(t)
	beast := f.hostile(2, 1, component.Hostile{}, 3)
	ecs.Add(f.w, beast, component.FieldOfView{Radius: 3})

	f.run(f.brain.HostileTurn)

	fov := ecs.MustGet[component.FieldOfView](f.w, beast)
	assert.True(t, fov.Visible.Contains(world.Pt(2, 1)))
	assert.True(t, fov.Visible.Contains(world.Pt(5, 1)))
	assert.False(t, fov.Visible.Contains(world.Pt(9, 1)))
}

func TestFriendlyTurn_WarnsFourteenStepsFromTheQueen(t *testing.T) {
	f := newBrainFixture(t)
	f.w.Spawn(component.At(0, 0, 0), component.Friendly{Power: 5}, component.Active{})
	f.w.Spawn(component.At(11, 4, 0), component.Name("Alien Queen"), component.Hostile{}, component.Health{Current: 30, Max: 30})

	f.run(f.brain.FriendlyTurn)
	assert.NotEqual(t, ai.LineCloseCall, f.tracker.Snapshot().LastHeard, "fifteen steps away")

	f.run(f.brain.FriendlyTurn)
	assert.Equal(t, ai.LineCloseCall, f.tracker.Snapshot().LastHeard)
}
