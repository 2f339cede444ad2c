package turn

import "fmt"

// State is a phase of the turn machine.
type State int

// States. GameOver is absorbing until Restart.
const (
	StateModal State = iota
	StateWaitingForInput
	StatePlayerTurn
	StateEnemyTurn
	StateWrapUp
	StateGameOver
)

var stateNames = [...]string{"modal", "waiting_for_input", "player_turn", "enemy_turn", "wrap_up", "game_over"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Outcome is why a game ended.
type Outcome int

// Outcomes.
const (
	OutcomeNone Outcome = iota
	OutcomeDead
	OutcomeLeft
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeDead:
		return "dead"
	case OutcomeLeft:
		return "left"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Action is one player command.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionMoveNorth
	ActionMoveSouth
	ActionMoveEast
	ActionMoveWest
	ActionCycleTarget
	ActionAscend
	ActionDescend
	ActionFire
	ActionWait
	ActionRestart
)

var actionNames = [...]string{"none", "north", "south", "east", "west", "cycle_target", "ascend", "descend", "fire", "wait", "restart"}

// String implements fmt.Stringer.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps a console key to an Action.
func ParseAction(key string) (Action, bool) {
	switch key {
	case "w", "k":
		return ActionMoveNorth, true
	case "s", "j":
		return ActionMoveSouth, true
	case "d", "l":
		return ActionMoveEast, true
	case "a", "h":
		return ActionMoveWest, true
	case "t", "tab":
		return ActionCycleTarget, true
	case "<":
		return ActionAscend, true
	case ">":
		return ActionDescend, true
	case "f":
		return ActionFire, true
	case ".", "space", " ":
		return ActionWait, true
	case "r":
		return ActionRestart, true
	}
	return ActionNone, false
}

// Modal is a message the player must dismiss before play continues.
type Modal struct {
	Title string
	Body  string
}
