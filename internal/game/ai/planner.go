package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// rootTask is where every plan starts.
const rootTask = "behave"

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the VM registered under key.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string
	// Token is the operator's target token.
	Token string
	// Target is the resolved target; nil for hold, last_known, and targets
	// that could not be resolved.
	Target *TargetState
}

// Planner evaluates an HTN domain for a single hostile and produces an
// ordered action plan for the current turn.
//
// Invariant: domain must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
}

// NewPlanner constructs a Planner. A nil caller treats every Lua
// precondition as false.
//
// Precondition: domain must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	return &Planner{domain: domain, caller: caller}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan evaluates the HTN domain against state and returns an ordered plan.
//
// Precondition: state and state.Agent must not be nil.
// Postcondition: returns non-nil slice (may be empty); Lua failures are
// treated as precondition-false.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Agent == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Agent must not be nil")
	}

	taskQueue := []string{rootTask}
	result := []PlannedAction{}

	const maxDepth = 32 // guard against recursive domains
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{
				Action: op.Action,
				Token:  op.Target,
				Target: state.ResolveTarget(op.Target),
			})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		taskQueue = append(append([]string{}, method.Subtasks...), taskQueue...)
	}
	return result, nil
}

// findApplicableMethod returns the first Method for taskID whose precondition passes,
// or nil if none applies.
//
// Methods are tried in declaration order. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if p.holds(m.Precondition, state) {
			return m
		}
	}
	return nil
}

func (p *Planner) holds(cond string, state *WorldState) bool {
	if cond == "" {
		return true
	}
	if fn, ok := builtinConditions[cond]; ok {
		return fn(state)
	}
	if p.caller == nil {
		return false
	}
	sees := false
	if pl := state.Player(); pl != nil {
		sees = state.Sees(pl)
	}
	val, _ := p.caller.CallHook(p.domain.ID, cond,
		lua.LNumber(state.Agent.Entity),
		lua.LNumber(state.Distance(state.Nearest())),
		lua.LNumber(hpPercent(state.Agent)),
		lua.LBool(sees),
	)
	return val == lua.LTrue
}

func hpPercent(a *AgentState) float64 {
	if a.MaxHP <= 0 {
		return 0
	}
	return float64(a.HP) / float64(a.MaxHP) * 100
}
