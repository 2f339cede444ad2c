package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Game: GameConfig{
			PlayerHealth:        10,
			PlayerFOVRadius:     20,
			FirePower:           20,
			ActivationRange:     6,
			ColonistSight:       6,
			FriendlySight:       8,
			HostileSight:        6,
			QueenName:           "Alien Queen",
			MeleeReach:          1.5,
			RangedVariance:      "1d4-2",
			BoomPower:           12,
			ExplosionRange:      3,
			TimerSpeechLifetime: 40,
			DialogLifetime:      40,
		},
		Content: ContentConfig{
			Scenario:  "content/scenarios/outpost.yaml",
			Templates: "content/npcs",
			AIDomains: "content/ai",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
game:
  seed: 42
  fire_power: 30
  ranged_variance: 1d6-3
content:
  scenario: scenarios/depot.yaml
  scripts: scripts
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, uint64(42), cfg.Game.Seed)
	assert.Equal(t, 30, cfg.Game.FirePower)
	assert.Equal(t, "1d6-3", cfg.Game.RangedVariance)
	assert.Equal(t, "scenarios/depot.yaml", cfg.Content.Scenario)
	assert.Equal(t, "scripts", cfg.Content.Scripts)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Game.PlayerHealth)
	assert.Equal(t, "Alien Queen", cfg.Game.QueenName)
	assert.Equal(t, "content/npcs", cfg.Content.Templates)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  player_health: 10\n"), 0644))
	t.Setenv("SECBOT_GAME_PLAYER_HEALTH", "25")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Game.PlayerHealth)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("game.queen_name", "Broodmother")

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "Broodmother", cfg.Game.QueenName)
	assert.Equal(t, 1.5, cfg.Game.MeleeReach)
}

func TestLoadFromViper_Invalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("game.fire_power", 0)

	_, err := LoadFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.fire_power")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateRangedVariance(t *testing.T) {
	cfg := validConfig()
	cfg.Game.RangedVariance = "two dice"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.ranged_variance")
}

func TestValidateRanges(t *testing.T) {
	cfg := validConfig()
	cfg.Game.ActivationRange = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Game.MeleeReach = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateQueenNameEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Game.QueenName = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateContentPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Content.Scripts = ""
	assert.NoError(t, cfg.Validate(), "scripts are optional")

	cfg.Content.Templates = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateAggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Game.PlayerHealth = 0
	cfg.Content.Scenario = ""

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "configuration validation failed: ")
	assert.Contains(t, msg, "logging.level")
	assert.Contains(t, msg, "game.player_health")
	assert.Contains(t, msg, "content.scenario")
}

// Property-based tests

func TestPropertyPositiveTuningAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Game.PlayerHealth = rapid.IntRange(1, 1000).Draw(t, "player_health")
		cfg.Game.FirePower = rapid.IntRange(1, 1000).Draw(t, "fire_power")
		cfg.Game.BoomPower = rapid.IntRange(1, 1000).Draw(t, "boom_power")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid tuning rejected: %v", err)
		}
	})
}

func TestPropertyNonPositiveHealthRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Game.PlayerHealth = rapid.IntRange(-1000, 0).Draw(t, "player_health")
		if err := cfg.Validate(); err == nil {
			t.Fatalf("player_health %d accepted", cfg.Game.PlayerHealth)
		}
	})
}
