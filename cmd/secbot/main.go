// Package main provides the secbot binary: a headless console runner that
// reads one command per line from stdin and prints the map and a status
// line after each one.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/secbot/internal/config"
	"github.com/cory-johannsen/secbot/internal/game/ai"
	"github.com/cory-johannsen/secbot/internal/game/dice"
	"github.com/cory-johannsen/secbot/internal/game/npc"
	"github.com/cory-johannsen/secbot/internal/game/scenario"
	"github.com/cory-johannsen/secbot/internal/game/turn"
	"github.com/cory-johannsen/secbot/internal/observability"
	"github.com/cory-johannsen/secbot/internal/scripting"
	"github.com/cory-johannsen/secbot/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	settings, err := settingsFrom(cfg.Game)
	if err != nil {
		logger.Fatal("building game settings", zap.Error(err))
	}

	src := sourceFor(cfg.Game.Seed)
	roller := dice.NewLoggedRoller(src, logger)

	templates, err := npc.LoadTemplates(cfg.Content.Templates)
	if err != nil {
		logger.Fatal("loading npc templates", zap.Error(err))
	}
	spawner, err := npc.NewSpawner(templates, logger)
	if err != nil {
		logger.Fatal("indexing npc templates", zap.Error(err))
	}
	logger.Info("loaded npc templates", zap.Int("count", len(templates)))

	var scripts *scripting.Manager
	if cfg.Content.Scripts != "" {
		scripts = scripting.NewManager(roller, logger)
		defer scripts.Close()
		if err := scripts.LoadGlobal(cfg.Content.Scripts, cfg.Content.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading global scripts", zap.Error(err))
		}
	}

	registry, err := loadDomains(cfg.Content, scripts, logger)
	if err != nil {
		logger.Fatal("loading ai domains", zap.Error(err))
	}

	sc, err := scenario.Load(cfg.Content.Scenario)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}

	game, err := turn.New(settings, turn.Content{
		Scenario: sc,
		Spawner:  spawner,
		Registry: registry,
		Scripts:  scripts,
	}, src, logger)
	if err != nil {
		logger.Fatal("creating game", zap.Error(err))
	}

	con := newConsole(game, os.Stdin, os.Stdout, logger)
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("console", con)

	logger.Info("secbot ready",
		zap.String("scenario", sc.Name),
		zap.Int("domains", registry.Len()),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("console", zap.Error(err))
	}
}

// sourceFor returns a reproducible source for a non-zero seed and a
// clock-seeded one otherwise.
func sourceFor(seed uint64) dice.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return dice.NewSeededSource(seed)
}

// loadDomains registers every HTN domain in the configured directory. A
// domain gets its own Lua VM when the scripts directory has a subdirectory
// named after it; otherwise its hooks fall back to the global scripts.
func loadDomains(content config.ContentConfig, scripts *scripting.Manager, logger *zap.Logger) (*ai.Registry, error) {
	domains, err := ai.LoadDomains(content.AIDomains)
	if err != nil {
		return nil, err
	}
	registry := ai.NewRegistry()
	for _, d := range domains {
		var caller ai.ScriptCaller
		if scripts != nil {
			caller = scripts
			dir := filepath.Join(content.Scripts, d.ID)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				if err := scripts.Load(d.ID, dir, content.ScriptInstructionLimit); err != nil {
					return nil, err
				}
			}
		}
		if err := registry.Register(d, caller); err != nil {
			return nil, err
		}
		logger.Debug("registered ai domain", zap.String("domain", d.ID))
	}
	return registry, nil
}
