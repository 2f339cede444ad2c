package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/dice"
)

// RegisterModules installs the engine table into L:
//
//	engine.roll(expr)   -> total of a dice expression such as "2d6+1"
//	engine.chance(pct)  -> true with pct percent probability
//	engine.entity(id)   -> {id, name, hp, max_hp, x, y, layer} or nil
//	engine.log(msg)     -> writes msg to the debug log
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"roll":   m.luaRoll,
		"chance": m.luaChance,
		"entity": m.luaEntity,
		"log":    m.luaLog,
	})
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	expr, err := dice.Parse(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LNumber(m.roller.Roll(expr).Total()))
	return 1
}

func (m *Manager) luaChance(L *lua.LState) int {
	L.Push(lua.LBool(m.roller.Percent(L.CheckInt(1))))
	return 1
}

func (m *Manager) luaEntity(L *lua.LState) int {
	id := L.CheckInt64(1)
	if m.Describe == nil {
		L.Push(lua.LNil)
		return 1
	}
	info := m.Describe(id)
	if info == nil {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(info.ID))
	t.RawSetString("name", lua.LString(info.Name))
	t.RawSetString("hp", lua.LNumber(info.HP))
	t.RawSetString("max_hp", lua.LNumber(info.MaxHP))
	t.RawSetString("x", lua.LNumber(info.X))
	t.RawSetString("y", lua.LNumber(info.Y))
	t.RawSetString("layer", lua.LNumber(info.Layer))
	L.Push(t)
	return 1
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Debug("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
