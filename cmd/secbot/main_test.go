package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/config"
	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/npc"
	"github.com/cory-johannsen/secbot/internal/game/scenario"
	"github.com/cory-johannsen/secbot/internal/game/turn"
	"github.com/cory-johannsen/secbot/internal/scripting"
)

const hallYAML = `
name: Hall
intro: Quiet in here.
layers:
  - depth: 0
    rows:
      - "#######"
      - "#@...X#"
      - "#######"
`

func validGameConfig() config.GameConfig {
	return config.GameConfig{
		PlayerHealth:        12,
		PlayerFOVRadius:     9,
		FirePower:           15,
		ActivationRange:     4,
		ColonistSight:       5,
		FriendlySight:       7,
		HostileSight:        3,
		QueenName:           "Broodmother",
		MeleeReach:          1.2,
		RangedVariance:      "1d6-3",
		BoomPower:           9,
		ExplosionRange:      2,
		TimerSpeechLifetime: 30,
		DialogLifetime:      25,
	}
}

func TestSettingsFrom(t *testing.T) {
	s, err := settingsFrom(validGameConfig())
	require.NoError(t, err)

	assert.Equal(t, 12, s.PlayerHealth)
	assert.Equal(t, 9, s.PlayerFOVRadius)
	assert.Equal(t, 15, s.FirePower)
	assert.Equal(t, 4.0, s.ActivationRange)
	assert.Equal(t, 25, s.DialogLifetime)
	assert.Equal(t, dice.MustParse("1d6-3"), s.Combat.Variance)
	assert.Equal(t, 1.2, s.Combat.MeleeReach)
	assert.Equal(t, 9, s.Combat.BoomPower)
	assert.Equal(t, 2, s.Combat.DefaultBoomRange)
	assert.Equal(t, 30, s.Combat.TimerSpeechLifetime)
	assert.Equal(t, "Broodmother", s.AI.QueenName)
	assert.Equal(t, 3, s.AI.HostileSight)
	// not configurable
	assert.Equal(t, turn.DefaultSettings().Combat.MaxRange, s.Combat.MaxRange)
}

func TestSettingsFrom_BadVariance(t *testing.T) {
	g := validGameConfig()
	g.RangedVariance = "lots"
	_, err := settingsFrom(g)
	assert.Error(t, err)
}

func TestSourceFor_SeededIsReproducible(t *testing.T) {
	a, b := sourceFor(7), sourceFor(7)
	for range 20 {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestLoadDomains_PerDomainScripts(t *testing.T) {
	dir := t.TempDir()
	domains := filepath.Join(dir, "ai")
	scriptsDir := filepath.Join(dir, "scripts")
	require.NoError(t, os.MkdirAll(domains, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(scriptsDir, "queen"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(domains, "queen.yaml"), []byte(`
domain:
  id: queen
  tasks:
    - id: behave
  methods:
    - task: behave
      id: idle
      subtasks: [wait]
  operators:
    - id: wait
      action: hold
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scriptsDir, "queen", "queen.lua"),
		[]byte("function queen_enraged(self, dist, hp, sees) return true end\n"), 0o644))

	logger := zap.NewNop()
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(1), logger), logger)
	t.Cleanup(mgr.Close)

	registry, err := loadDomains(config.ContentConfig{AIDomains: domains, Scripts: scriptsDir}, mgr, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())
	_, ok := registry.PlannerFor("queen")
	assert.True(t, ok)

	ret, err := mgr.CallHook("queen", "queen_enraged")
	require.NoError(t, err)
	assert.Equal(t, lua.LTrue, ret)
}

func TestLoadDomains_MissingDir(t *testing.T) {
	_, err := loadDomains(config.ContentConfig{AIDomains: filepath.Join(t.TempDir(), "none")}, nil, zap.NewNop())
	assert.Error(t, err)
}

func newTestGame(t *testing.T) *turn.Game {
	t.Helper()
	sc, err := scenario.LoadFromBytes([]byte(hallYAML))
	require.NoError(t, err)
	spawner, err := npc.NewSpawner(nil, zap.NewNop())
	require.NoError(t, err)
	g, err := turn.New(turn.DefaultSettings(), turn.Content{
		Scenario: sc,
		Spawner:  spawner,
		Registry: ai.NewRegistry(),
	}, dice.NewSeededSource(1), zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestConsole_PlaysUntilTheShipExit(t *testing.T) {
	g := newTestGame(t)
	var out bytes.Buffer
	con := newConsole(g, strings.NewReader("go\nd\nd\nd\nd\nd\n"), &out, zap.NewNop())

	require.NoError(t, con.Start())

	text := out.String()
	assert.Contains(t, text, "== SecBot Has Landed ==")
	assert.Contains(t, text, "Quiet in here.")
	assert.Contains(t, text, `unknown command "go"`)
	assert.Contains(t, text, "game over: left")
	assert.Equal(t, turn.OutcomeLeft, g.Outcome())
}

func TestConsole_QuitStopsReading(t *testing.T) {
	g := newTestGame(t)
	var out bytes.Buffer
	con := newConsole(g, strings.NewReader(".\nq\nd\n"), &out, zap.NewNop())

	require.NoError(t, con.Start())
	assert.Equal(t, turn.StateWaitingForInput, g.State())
	assert.Equal(t, 0, g.Status().Turn, "the first key only dismisses the modal")
}

func TestConsole_DrawsRevealedMapAndPlayer(t *testing.T) {
	g := newTestGame(t)
	con := newConsole(g, strings.NewReader(""), &bytes.Buffer{}, zap.NewNop())

	assert.Contains(t, con.draw(), "#@...+#")
}

func TestStatusLine(t *testing.T) {
	line := statusLine(turn.Status{Turn: 3, State: turn.StateWaitingForInput, HP: 7, MaxHP: 10, HumanResources: 52, Target: "Drone"})
	assert.Contains(t, line, "turn 3")
	assert.Contains(t, line, "HP 7/10")
	assert.Contains(t, line, "HR 52")
	assert.Contains(t, line, "target: Drone")
	assert.NotContains(t, line, "game over")
}
