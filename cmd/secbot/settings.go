package main

import (
	"fmt"

	"github.com/cory-johannsen/secbot/internal/config"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/turn"
)

// settingsFrom maps the game section of the configuration onto the
// simulation's tuning, keeping defaults for anything the config does not
// expose.
func settingsFrom(g config.GameConfig) (turn.Settings, error) {
	variance, err := dice.Parse(g.RangedVariance)
	if err != nil {
		return turn.Settings{}, fmt.Errorf("game.ranged_variance: %w", err)
	}
	s := turn.DefaultSettings()
	s.PlayerHealth = g.PlayerHealth
	s.PlayerFOVRadius = g.PlayerFOVRadius
	s.FirePower = g.FirePower
	s.ActivationRange = g.ActivationRange
	s.DialogLifetime = g.DialogLifetime

	s.Combat.Variance = variance
	s.Combat.MeleeReach = g.MeleeReach
	s.Combat.BoomPower = g.BoomPower
	s.Combat.DefaultBoomRange = g.ExplosionRange
	s.Combat.TimerSpeechLifetime = g.TimerSpeechLifetime

	s.AI.ColonistSight = g.ColonistSight
	s.AI.FriendlySight = g.FriendlySight
	s.AI.HostileSight = g.HostileSight
	s.AI.QueenName = g.QueenName
	return s, nil
}
