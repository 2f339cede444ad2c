// Package config provides Viper-based configuration loading for SecBot.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/secbot/internal/game/dice"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is where log lines go: "stderr", "stdout", or a file path.
	// The console runner keeps stdout for the game.
	Output string `mapstructure:"output"`
}

// GameConfig holds simulation tuning.
type GameConfig struct {
	// Seed seeds the shared random source; 0 seeds from the clock.
	Seed            uint64  `mapstructure:"seed"`
	PlayerHealth    int     `mapstructure:"player_health"`
	PlayerFOVRadius int     `mapstructure:"player_fov_radius"`
	FirePower       int     `mapstructure:"fire_power"`
	ActivationRange float64 `mapstructure:"activation_range"`
	ColonistSight   int     `mapstructure:"colonist_sight"`
	FriendlySight   int     `mapstructure:"friendly_sight"`
	HostileSight    int     `mapstructure:"hostile_sight"`
	QueenName       string  `mapstructure:"queen_name"`
	MeleeReach      float64 `mapstructure:"melee_reach"`
	// RangedVariance is a dice expression added to every tile hit.
	RangedVariance      string `mapstructure:"ranged_variance"`
	BoomPower           int    `mapstructure:"boom_power"`
	ExplosionRange      int    `mapstructure:"explosion_range"`
	TimerSpeechLifetime int    `mapstructure:"timer_speech_lifetime"`
	DialogLifetime      int    `mapstructure:"dialog_lifetime"`
}

// ContentConfig locates the data files a game is built from.
type ContentConfig struct {
	Scenario  string `mapstructure:"scenario"`
	Templates string `mapstructure:"templates"`
	AIDomains string `mapstructure:"ai_domains"`
	// Scripts is optional; empty disables Lua preconditions.
	Scripts string `mapstructure:"scripts"`
	// ScriptInstructionLimit caps Lua instructions per hook call; 0 uses the
	// sandbox default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	positive := []struct {
		key string
		val int
	}{
		{"game.player_health", g.PlayerHealth},
		{"game.player_fov_radius", g.PlayerFOVRadius},
		{"game.fire_power", g.FirePower},
		{"game.colonist_sight", g.ColonistSight},
		{"game.friendly_sight", g.FriendlySight},
		{"game.hostile_sight", g.HostileSight},
		{"game.boom_power", g.BoomPower},
		{"game.explosion_range", g.ExplosionRange},
		{"game.timer_speech_lifetime", g.TimerSpeechLifetime},
		{"game.dialog_lifetime", g.DialogLifetime},
	}
	for _, p := range positive {
		if p.val < 1 {
			errs = append(errs, fmt.Sprintf("%s must be >= 1, got %d", p.key, p.val))
		}
	}
	if g.ActivationRange <= 0 {
		errs = append(errs, fmt.Sprintf("game.activation_range must be > 0, got %g", g.ActivationRange))
	}
	if g.MeleeReach <= 0 {
		errs = append(errs, fmt.Sprintf("game.melee_reach must be > 0, got %g", g.MeleeReach))
	}
	if g.QueenName == "" {
		errs = append(errs, "game.queen_name must not be empty")
	}
	if _, err := dice.Parse(g.RangedVariance); err != nil {
		errs = append(errs, fmt.Sprintf("game.ranged_variance: %v", err))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Scenario == "" {
		errs = append(errs, "content.scenario must not be empty")
	}
	if c.Templates == "" {
		errs = append(errs, "content.templates must not be empty")
	}
	if c.AIDomains == "" {
		errs = append(errs, "content.ai_domains must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SECBOT_ prefix
	v.SetEnvPrefix("SECBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the shipped tuning on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.player_health", 10)
	v.SetDefault("game.player_fov_radius", 20)
	v.SetDefault("game.fire_power", 20)
	v.SetDefault("game.activation_range", 6.0)
	v.SetDefault("game.colonist_sight", 6)
	v.SetDefault("game.friendly_sight", 8)
	v.SetDefault("game.hostile_sight", 6)
	v.SetDefault("game.queen_name", "Alien Queen")
	v.SetDefault("game.melee_reach", 1.5)
	v.SetDefault("game.ranged_variance", "1d4-2")
	v.SetDefault("game.boom_power", 12)
	v.SetDefault("game.explosion_range", 3)
	v.SetDefault("game.timer_speech_lifetime", 40)
	v.SetDefault("game.dialog_lifetime", 40)

	v.SetDefault("content.scenario", "content/scenarios/outpost.yaml")
	v.SetDefault("content.templates", "content/npcs")
	v.SetDefault("content.ai_domains", "content/ai")
	v.SetDefault("content.scripts", "")
	v.SetDefault("content.script_instruction_limit", 0)
}
