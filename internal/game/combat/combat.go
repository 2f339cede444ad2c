// Package combat resolves every way entities hurt each other: traced ranged
// shots with power decay, melee blows, explosions, timed hazards, and the
// shared cleanup that turns the dead into corpses.
//
// Health changes are applied immediately so later hits in the same trace see
// them; component stripping and spawning go through the caller's
// ecs.Commands and land when the caller flushes.
package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/stats"
	"github.com/cory-johannsen/secbot/internal/game/world"
)

// Settings are the tunable constants of combat resolution.
type Settings struct {
	// Variance is added to a shot's power to get the damage of each hit.
	Variance dice.Expression
	// FalloffRange is how far a shot travels before each tile costs power.
	FalloffRange int
	// MaxRange caps the tiles a shot may travel.
	MaxRange int
	// SplatterFade is subtracted from each blood component per tile.
	SplatterFade float32
	// MeleeReach is the largest Euclidean distance a melee blow spans.
	MeleeReach float64
	// BoomPower is the nominal power of an explosion's per-tile hit.
	BoomPower int
	// DefaultBoomRange is used by explode timers that carry no range.
	DefaultBoomRange int
	// TimerSpeechLifetime is how long "Timer: N" callouts stay on screen.
	TimerSpeechLifetime int
}

// DefaultSettings mirrors the tuning the game shipped with.
func DefaultSettings() Settings {
	return Settings{
		Variance:            dice.MustParse("1d4-2"),
		FalloffRange:        5,
		MaxRange:            25,
		SplatterFade:        0.1,
		MeleeReach:          1.5,
		BoomPower:           12,
		DefaultBoomRange:    3,
		TimerSpeechLifetime: 40,
	}
}

// Hatcher spawns a creature from a template when an egg timer expires.
type Hatcher interface {
	Hatch(cmds *ecs.Commands, template string, pos component.Position) error
}

// Resolver applies combat to one game's entity store and map.
type Resolver struct {
	world    *ecs.World
	m        *world.Map
	roller   *dice.Roller
	tracker  *stats.Tracker
	hatcher  Hatcher
	settings Settings
	logger   *zap.Logger
}

// NewResolver wires a Resolver.
//
// Precondition: every argument except hatcher must be non-nil; a nil hatcher
// makes hatch timers expire without spawning.
func NewResolver(w *ecs.World, m *world.Map, roller *dice.Roller, tracker *stats.Tracker, hatcher Hatcher, settings Settings, logger *zap.Logger) *Resolver {
	if w == nil || m == nil || roller == nil || tracker == nil || logger == nil {
		panic("combat: NewResolver called with a nil dependency")
	}
	return &Resolver{
		world:    w,
		m:        m,
		roller:   roller,
		tracker:  tracker,
		hatcher:  hatcher,
		settings: settings,
		logger:   logger,
	}
}

// Settings returns the resolver's tuning.
func (r *Resolver) Settings() Settings { return r.settings }

// Splatter is the fading blood color a trace paints behind a hit.
type Splatter struct {
	color  world.RGB
	active bool
}

// Set starts painting with c.
func (s *Splatter) Set(c world.RGB) {
	s.color = c
	s.active = true
}

// Active reports whether there is blood left to paint.
func (s *Splatter) Active() bool { return s.active }

// Paint stains t with the current color, then fades it by step, dropping the
// splatter once it is nearly black.
func (s *Splatter) Paint(t *world.Tile, step float32) {
	if !s.active {
		return
	}
	t.Color.FG = s.color
	s.color = s.color.Fade(step)
	if s.color.Sum() < 0.1 {
		s.active = false
	}
}

func (r *Resolver) position(e ecs.Entity) (component.Position, bool) {
	p, ok := ecs.Get[component.Position](r.world, e)
	if !ok {
		return component.Position{}, false
	}
	return *p, true
}
