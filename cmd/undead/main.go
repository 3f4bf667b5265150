// Package main runs the zombie survival simulation headless: one survivor
// on autopilot against escalating waves on a navigation mesh.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/config"
	"github.com/cory-johannsen/undead/internal/game/event"
	"github.com/cory-johannsen/undead/internal/game/wave"
	"github.com/cory-johannsen/undead/internal/observability"
	"github.com/cory-johannsen/undead/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	levelPath := flag.String("level", "", "navmesh level file; overrides level.navmesh")
	waveScript := flag.String("wave-script", "", "Lua wave sizing script; overrides waves.script")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *levelPath != "" {
		cfg.Level.Navmesh = *levelPath
	}
	if *waveScript != "" {
		cfg.Waves.Script = *waveScript
	}

	logger, err := observability.NewLogger(cfg.Logging, "undead")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	game, cleanup, err := InitializeGame(cfg, logger)
	if err != nil {
		logger.Fatal("building game", zap.Error(err))
	}
	defer cleanup()
	defer game.Close()

	waves := event.Subscribe(game.Bus, wave.TopicWaveStarted, func(s wave.Started) {
		logger.Info("wave started", zap.Int("wave", s.Wave), zap.Int("size", s.Size))
	})
	defer waves.Unsubscribe()

	logger.Info("simulation initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("regions", len(game.Mesh.Regions())),
		zap.Float64("tick_rate", cfg.Simulation.TickRate),
	)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("simulation", &server.FuncService{
		RunFn: game.Run,
		StopFn: func() {
			logger.Info("simulation stopping", zap.Duration("simulated", game.World.Clock().Elapsed()))
		},
	})

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("simulation error", zap.Error(err))
	}
}
