// Package turn is the game's state machine: it takes player commands, runs
// the colonist, marine and hostile phases, resolves timers and explosions,
// and decides when the game is over.
//
// A Game owns one entity store and map at a time; Restart discards both and
// builds fresh ones from the same content.
package turn

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/combat"
	"github.com/cory-johannsen/secbot/internal/game/component"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/ecs"
	"github.com/cory-johannsen/secbot/internal/game/npc"
	"github.com/cory-johannsen/secbot/internal/game/scenario"
	"github.com/cory-johannsen/secbot/internal/game/stats"
	"github.com/cory-johannsen/secbot/internal/game/world"
	"github.com/cory-johannsen/secbot/internal/scripting"
)

// LandingTitle heads the modal shown at the start of every game.
const LandingTitle = "SecBot Has Landed"

// Settings tune the player and bundle the combat and AI tuning.
type Settings struct {
	PlayerHealth    int
	PlayerFOVRadius int
	FirePower       int
	ActivationRange float64
	// DialogLifetime is how long prop dialog stays on screen.
	DialogLifetime int

	Combat combat.Settings
	AI     ai.Settings
}

// DefaultSettings mirrors the shipped tuning.
func DefaultSettings() Settings {
	return Settings{
		PlayerHealth:    10,
		PlayerFOVRadius: 20,
		FirePower:       20,
		ActivationRange: 6,
		DialogLifetime:  40,
		Combat:          combat.DefaultSettings(),
		AI:              ai.DefaultSettings(),
	}
}

// Content is everything a game is built from.
type Content struct {
	Scenario *scenario.Scenario
	Spawner  *npc.Spawner
	Registry *ai.Registry
	// Scripts is optional; when set, engine.entity in Lua reads this game.
	Scripts *scripting.Manager
}

// Game is one run of the simulation.
//
// Every exported method serializes on the same lock, so Game itself may be
// shared between goroutines. World and Map hand out the live store and map:
// read them only between calls to Submit, Restart and AdvanceEffects, on the
// goroutine that makes those calls.
type Game struct {
	mu sync.Mutex

	settings Settings
	content  Content
	src      dice.Source
	base     *zap.Logger

	runID    string
	logger   *zap.Logger
	world    *ecs.World
	m        *world.Map
	roller   *dice.Roller
	tracker  *stats.Tracker
	resolver *combat.Resolver
	brain    *ai.Brain
	player   ecs.Entity

	state   State
	outcome Outcome
	modal   *Modal
}

// New builds a game and leaves it showing the landing modal.
//
// Precondition: content.Scenario, content.Spawner, content.Registry, src and
// logger must be non-nil.
// Postcondition: State() == StateModal.
func New(settings Settings, content Content, src dice.Source, logger *zap.Logger) (*Game, error) {
	if content.Scenario == nil || content.Spawner == nil || content.Registry == nil {
		return nil, errors.New("turn: content needs a scenario, a spawner and a registry")
	}
	if src == nil || logger == nil {
		panic("turn: New requires a dice source and a logger")
	}
	g := &Game{settings: settings, content: content, src: src, base: logger}
	if content.Scripts != nil {
		content.Scripts.Describe = g.describe
	}
	if err := g.build(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) build() error {
	g.runID = uuid.NewString()
	g.logger = g.base.With(zap.String("run_id", g.runID))

	w := ecs.NewWorld()
	m, err := g.content.Scenario.Instantiate(w, g.content.Spawner, g.logger)
	if err != nil {
		return fmt.Errorf("turn: building game: %w", err)
	}
	start := m.Layer(0).Start
	player := w.Spawn(
		component.Position{Pt: start, Layer: 0},
		component.Player{},
		component.Name("SecBot"),
		component.Description("Colony security robot. Armed, armored, and out of warranty."),
		component.Health{Current: g.settings.PlayerHealth, Max: g.settings.PlayerHealth},
		component.FieldOfView{Radius: g.settings.PlayerFOVRadius},
		component.Targeting{},
		component.Blood{Color: world.Brown},
		component.Glyph{Rune: '@', Color: world.ColorPair{FG: world.Yellow, BG: world.Black}},
	)

	g.world = w
	g.m = m
	g.player = player
	g.roller = dice.NewLoggedRoller(g.src, g.logger)
	g.tracker = stats.NewTracker()
	g.resolver = combat.NewResolver(w, m, g.roller, g.tracker, g.content.Spawner, g.settings.Combat, g.logger)
	g.brain = ai.NewBrain(w, m, g.resolver, g.roller, g.tracker, g.content.Registry, g.settings.AI, g.logger)
	g.state = StateModal
	g.outcome = OutcomeNone
	g.modal = &Modal{Title: LandingTitle, Body: g.content.Scenario.Intro}
	g.refreshVision()
	g.logger.Info("game started", zap.String("scenario", g.content.Scenario.Name))
	return nil
}

// Restart discards the current run and builds a fresh one.
//
// Postcondition: State() == StateModal with the landing modal.
func (g *Game) Restart() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.restart()
}

func (g *Game) restart() error {
	g.logger.Info("game restarting")
	return g.build()
}

// Submit feeds one player command to the machine and runs every phase it
// triggers, stopping when input is needed again or the game ends.
//
// While a modal is showing, any command dismisses it without taking a turn.
// After the game ends only ActionRestart does anything.
func (g *Game) Submit(a Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if a == ActionRestart {
		return g.restart()
	}
	switch g.state {
	case StateModal:
		g.modal = nil
		g.state = StateWaitingForInput
		return nil
	case StateGameOver:
		return nil
	case StateWaitingForInput:
	default:
		return fmt.Errorf("turn: Submit in state %s", g.state)
	}

	if !g.perform(a) {
		return nil
	}
	g.state = StatePlayerTurn
	g.checkTriggers()
	if g.state == StateGameOver {
		return nil
	}
	g.refreshVision()
	for g.state != StateWaitingForInput && g.state != StateGameOver {
		g.step()
	}
	return nil
}

// step runs the current phase and moves to the next.
func (g *Game) step() {
	switch g.state {
	case StatePlayerTurn:
		if hp, ok := ecs.Get[component.Health](g.world, g.player); !ok || hp.Current == 0 {
			g.end(OutcomeDead)
			return
		}
		g.state = StateEnemyTurn
	case StateEnemyTurn:
		g.enemyPhase()
		g.state = StateWrapUp
	case StateWrapUp:
		g.wrapUp()
	}
}

func (g *Game) end(o Outcome) {
	g.state = StateGameOver
	g.outcome = o
	g.logger.Info("game over",
		zap.Stringer("outcome", o),
		zap.Int("turns", g.tracker.Snapshot().TurnsElapsed),
		zap.Int("human_resources", stats.HumanResources(g.world)),
	)
}

// State returns the current phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Outcome returns why the game ended, or OutcomeNone.
func (g *Game) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

// Modal returns the message awaiting dismissal, or nil.
func (g *Game) Modal() *Modal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modal
}

// RunID identifies the current run in logs.
func (g *Game) RunID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runID
}

// World returns the current entity store for read-only use by renderers and
// tests. Restart replaces it.
func (g *Game) World() *ecs.World {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world
}

// Map returns the current layers; Restart replaces them.
func (g *Game) Map() *world.Map {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m
}

// Player returns the player's entity.
func (g *Game) Player() ecs.Entity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.player
}

// Status is the one-line summary shown under the map.
type Status struct {
	RunID          string
	State          State
	Outcome        Outcome
	Turn           int
	HP             int
	MaxHP          int
	Layer          int
	Target         string
	HumanResources int
	Stats          stats.PlayStats
	Colony         stats.Colony
}

// Status snapshots the game for display.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Status{
		RunID:          g.runID,
		State:          g.state,
		Outcome:        g.outcome,
		HumanResources: stats.HumanResources(g.world),
		Stats:          g.tracker.Snapshot(),
		Colony:         stats.CountColony(g.world),
	}
	s.Turn = s.Stats.TurnsElapsed
	if hp, ok := ecs.Get[component.Health](g.world, g.player); ok {
		s.HP, s.MaxHP = hp.Current, hp.Max
	}
	if pos, ok := ecs.Get[component.Position](g.world, g.player); ok {
		s.Layer = pos.Layer
	}
	if tg, ok := ecs.Get[component.Targeting](g.world, g.player); ok && tg.Current != ecs.NoEntity {
		if n, ok := ecs.Get[component.Name](g.world, tg.Current); ok {
			s.Target = string(*n)
		}
	}
	return s
}

// describe backs engine.entity for Lua scripts.
func (g *Game) describe(id int64) *scripting.EntityInfo {
	e := ecs.Entity(id)
	if !g.world.Alive(e) {
		return nil
	}
	info := &scripting.EntityInfo{ID: id}
	if n, ok := ecs.Get[component.Name](g.world, e); ok {
		info.Name = string(*n)
	}
	if hp, ok := ecs.Get[component.Health](g.world, e); ok {
		info.HP, info.MaxHP = hp.Current, hp.Max
	}
	if pos, ok := ecs.Get[component.Position](g.world, e); ok {
		info.X, info.Y, info.Layer = pos.Pt.X, pos.Pt.Y, pos.Layer
	}
	return info
}
