package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/scripting"
)

func TestNewSandboxedState_OnlySafeLibraries(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "package"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "%s must not be loaded", name)
	}
	for _, name := range []string{"table", "string", "math"} {
		assert.NotEqual(t, lua.LNil, L.GetGlobal(name), "%s must be loaded", name)
	}
	assert.NoError(t, L.DoString(`
		assert(math.floor(7 / 2) == 3)
		assert(string.rep("ab", 2) == "abab")
		local t = {3, 1, 2}
		table.sort(t)
		assert(t[1] == 1)
	`))
}

func TestNewSandboxedState_LoadersRemoved(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "%s must be removed", name)
	}
	assert.Error(t, L.DoString(`require("os")`))
	assert.Error(t, L.DoString(`dofile("/etc/passwd")`))
}

func TestNewSandboxedState_RunawayLoopIsStopped(t *testing.T) {
	L := scripting.NewSandboxedState(10)
	defer L.Close()
	assert.Error(t, L.DoString(`while true do end`))
}

func TestProperty_AnyLimitStopsARunawayLoop(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 50).Draw(t, "limit")
		L := scripting.NewSandboxedState(limit)
		defer L.Close()
		if err := L.DoString(`while true do end`); err == nil {
			t.Fatalf("limit %d did not stop the loop", limit)
		}
	})
}

func TestManager_BudgetAppliesPerHookCall(t *testing.T) {
	logger := zap.NewNop()
	mgr := scripting.NewManager(dice.NewLoggedRoller(&dice.Fixed{}, logger), logger)
	t.Cleanup(mgr.Close)
	dir := writeTempLua(t, "spin.lua", `
		function spin()
			for i = 1, 30 do end
			return true
		end
	`)
	require.NoError(t, mgr.Load("stalker", dir, 200))

	for i := range 20 {
		ret, err := mgr.CallHook("stalker", "spin")
		require.NoError(t, err)
		require.Equal(t, lua.LTrue, ret, "call %d ran out of budget", i)
	}
}
