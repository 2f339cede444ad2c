package component

import "fmt"

// ColonistStatus tracks what became of a colonist.
type ColonistStatus int

// Colonist statuses. StartedDead, DiedAfterStart and Rescued are terminal.
const (
	StatusUnknown ColonistStatus = iota
	StatusAlive
	StatusStartedDead
	StatusDiedAfterStart
	StatusRescued
)

// String implements fmt.Stringer.
func (s ColonistStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusAlive:
		return "alive"
	case StatusStartedDead:
		return "started_dead"
	case StatusDiedAfterStart:
		return "died_after_start"
	case StatusRescued:
		return "rescued"
	}
	return fmt.Sprintf("ColonistStatus(%d)", int(s))
}

// Terminal reports whether s can never change again.
func (s ColonistStatus) Terminal() bool {
	return s == StatusStartedDead || s == StatusDiedAfterStart || s == StatusRescued
}

// Transition moves s to next when the move is legal and reports whether it
// happened. Terminal statuses never change.
func (s *ColonistStatus) Transition(next ColonistStatus) bool {
	if s.Terminal() {
		return false
	}
	switch {
	case *s == StatusUnknown && next == StatusAlive,
		*s == StatusAlive && next == StatusDiedAfterStart,
		*s == StatusAlive && next == StatusRescued,
		*s == StatusUnknown && next == StatusDiedAfterStart:
		*s = next
		return true
	}
	return false
}

// Colonist is a survivor fleeing toward the exit.
type Colonist struct {
	// Path holds the tile indices still to walk, nearest first; nil when no
	// route is cached.
	Path []int
	// Weapon is the ranged power of an armed colonist; zero means unarmed.
	Weapon int
}
