package ai_test

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// mockScriptCaller always returns the given value for any hook call.
type mockScriptCaller struct {
	returnVal lua.LValue
	calls     []string
}

func (m *mockScriptCaller) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.calls = append(m.calls, key+"."+hook)
	if m.returnVal == nil {
		return lua.LNil, nil
	}
	return m.returnVal, nil
}

func queenDomain() *ai.Domain {
	return &ai.Domain{
		ID: "queen",
		Tasks: []*ai.Task{
			{ID: "behave"},
			{ID: "rage"},
		},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "enraged", Precondition: "queen_enraged", Subtasks: []string{"rage"}},
			{TaskID: "behave", ID: "idle_mode", Subtasks: []string{"hold"}},
			{TaskID: "rage", ID: "charge", Subtasks: []string{"charge_player"}},
		},
		Operators: []*ai.Operator{
			{ID: "charge_player", Action: ai.ActionPursue, Target: "player"},
			{ID: "hold", Action: ai.ActionHold},
		},
	}
}

func stateWithPlayerAt(x, y int) *ai.WorldState {
	return &ai.WorldState{
		Agent: &ai.AgentState{
			Entity:  7,
			Name:    "Alien Queen",
			Pos:     world.Pt(0, 0),
			HP:      10,
			MaxHP:   40,
			Visible: world.PointSet{world.Pt(x, y): {}},
			Hostile: component.Hostile{Melee: []component.MeleeAttack{{Damage: 2}}},
		},
		Targets: []*ai.TargetState{{Entity: 1, Name: "SecBot", Pos: world.Pt(x, y), HP: 10, MaxHP: 10, Player: true}},
	}
}

func TestPlanner_Plan_LuaPreconditionTrue(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LTrue}
	planner := ai.NewPlanner(queenDomain(), caller)

	actions, err := planner.Plan(stateWithPlayerAt(5, 0))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionPursue {
		t.Fatalf("expected pursue, got %v", actions)
	}
	if actions[0].Target == nil || actions[0].Target.Name != "SecBot" {
		t.Fatalf("expected target SecBot, got %v", actions[0].Target)
	}
	if len(caller.calls) != 1 || caller.calls[0] != "queen.queen_enraged" {
		t.Fatalf("expected one hook call on the queen VM, got %v", caller.calls)
	}
}

func TestPlanner_Plan_FallsBackWhenPreconditionFalse(t *testing.T) {
	planner := ai.NewPlanner(queenDomain(), &mockScriptCaller{returnVal: lua.LFalse})
	actions, err := planner.Plan(stateWithPlayerAt(5, 0))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionHold {
		t.Fatalf("expected hold fallback, got %v", actions)
	}
}

func TestPlanner_Plan_NilCallerTreatsHooksAsFalse(t *testing.T) {
	planner := ai.NewPlanner(queenDomain(), nil)
	actions, _ := planner.Plan(stateWithPlayerAt(5, 0))
	if len(actions) != 1 || actions[0].Action != ai.ActionHold {
		t.Fatalf("expected hold, got %v", actions)
	}
}

func TestPlanner_Plan_RejectsNilState(t *testing.T) {
	planner := ai.NewPlanner(queenDomain(), nil)
	if _, err := planner.Plan(&ai.WorldState{}); err == nil {
		t.Fatal("expected error for nil agent")
	}
}

func TestPlanner_DefaultDomain_MeleeWhenAdjacent(t *testing.T) {
	caller := &mockScriptCaller{}
	planner := ai.NewPlanner(ai.DefaultDomain(), caller)
	actions, _ := planner.Plan(stateWithPlayerAt(1, 0))
	if len(actions) != 1 || actions[0].Action != ai.ActionMelee {
		t.Fatalf("expected melee, got %v", actions)
	}
	if len(caller.calls) != 0 {
		t.Fatalf("built-in conditions must not reach Lua, got %v", caller.calls)
	}
}

func TestPlanner_DefaultDomain_ShootsWhenInRange(t *testing.T) {
	ws := stateWithPlayerAt(4, 0)
	ws.Agent.Hostile = component.Hostile{Ranged: []component.RangedAttack{{Range: 6, Power: 3}}}
	actions, _ := ai.NewPlanner(ai.DefaultDomain(), nil).Plan(ws)
	if len(actions) != 1 || actions[0].Action != ai.ActionShoot {
		t.Fatalf("expected shoot, got %v", actions)
	}
}

func TestPlanner_DefaultDomain_PassiveCreatureHolds(t *testing.T) {
	ws := stateWithPlayerAt(1, 0)
	ws.Agent.Hostile = component.Hostile{Aggro: component.AggroPlayer}
	actions, _ := ai.NewPlanner(ai.DefaultDomain(), nil).Plan(ws)
	if len(actions) != 1 || actions[0].Action != ai.ActionHold {
		t.Fatalf("expected hold without a last known position, got %v", actions)
	}
}

func TestProperty_Planner_NeverReturnsNilSlice(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var lv lua.LValue = lua.LFalse
		if rapid.Bool().Draw(rt, "precond") {
			lv = lua.LTrue
		}
		planner := ai.NewPlanner(queenDomain(), &mockScriptCaller{returnVal: lv})
		ws := stateWithPlayerAt(rapid.IntRange(-10, 10).Draw(rt, "x"), rapid.IntRange(-10, 10).Draw(rt, "y"))
		actions, err := planner.Plan(ws)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if actions == nil {
			rt.Fatal("Plan must return non-nil slice")
		}
	})
}
