// Package main runs the tworld text adventure on the terminal.
// It wires together configuration, logging, world content, the game engine
// and the console loop.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/config"
	"github.com/cory-johannsen/tworld/internal/frontend/console"
	"github.com/cory-johannsen/tworld/internal/game/content"
	"github.com/cory-johannsen/tworld/internal/game/dice"
	"github.com/cory-johannsen/tworld/internal/game/engine"
	"github.com/cory-johannsen/tworld/internal/observability"
	"github.com/cory-johannsen/tworld/internal/server"
	"github.com/cory-johannsen/tworld/internal/storage/snapshot"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/tworld.yaml", "path to configuration file")
	worldPath := flag.String("world", "", "world file, overriding world.path")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *worldPath != "" {
		cfg.World.Path = *worldPath
		if err := cfg.Validate(); err != nil {
			log.Fatalf("validating config: %v", err)
		}
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load world content
	w, err := content.LoadFile(cfg.World.Path)
	if err != nil {
		logger.Fatal("loading world", zap.String("path", cfg.World.Path), zap.Error(err))
	}
	logger.Info("world loaded",
		zap.String("path", cfg.World.Path),
		zap.String("name", w.Meta.Name),
		zap.Int("rooms", len(w.Map)),
		zap.Int("definitions", len(w.Definitions)),
	)

	opts := engine.Options{
		PlayerName:       cfg.Game.PlayerName,
		PlayerHealth:     cfg.Game.PlayerHealth,
		MaxHealth:        cfg.Game.MaxHealth,
		PlayerAttack:     cfg.Game.PlayerAttack,
		PlayerResistance: cfg.Game.PlayerResistance,
		AdminName:        cfg.Game.AdminName,
		Store:            snapshot.NewStore(cfg.Game.SaveDir, logger),
	}
	if cfg.Game.Seed != 0 {
		opts.Source = dice.NewSeededSource(cfg.Game.Seed)
	}

	g, err := engine.New(w, opts, logger)
	if err != nil {
		logger.Fatal("starting game", zap.Error(err))
	}
	term := console.New(g, os.Stdin, os.Stdout, cfg.Display.Width, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("console", term)

	logger.Debug("engine initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("console error", zap.Error(err))
	}
}
