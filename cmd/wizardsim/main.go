// Package main provides the wizardsim binary, which finds the least mana a
// wizard must spend to win the boss fight, or replays a chosen spell list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wizardsim/internal/config"
	"github.com/cory-johannsen/wizardsim/internal/game/spell"
	"github.com/cory-johannsen/wizardsim/internal/observability"
)

type flags struct {
	configPath string
	objective  string
	workers    int
	hardOnly   bool
	replay     string
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "configs/wizardsim.yaml", "path to configuration file; missing means built-in defaults")
	flag.StringVar(&f.objective, "objective", "", "override search.objective: min_win or max_loss")
	flag.IntVar(&f.workers, "workers", 0, "override search.workers when > 0")
	flag.BoolVar(&f.hardOnly, "hard-only", false, "solve hard mode only")
	flag.StringVar(&f.replay, "replay", "", "comma-separated spell ids to replay instead of searching")
	flag.Parse()

	cfg, err := resolveConfig(f)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	base, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	// run returns before Fatal so its deferred cleanup has already happened.
	if err := run(cfg, f.replay, base); err != nil {
		base.Fatal("wizardsim failed", zap.Error(err))
	}
	_ = base.Sync()
}

// run loads the spells and either replays or searches, writing answers to stdout.
//
// Precondition: cfg must be valid and base non-nil.
func run(cfg config.Config, replay string, base *zap.Logger) error {
	start := time.Now()
	logger, _ := observability.WithRun(base)
	defer func() { _ = logger.Sync() }()

	reg, err := loadSpells(cfg.Spells.Dir)
	if err != nil {
		return fmt.Errorf("loading spells: %w", err)
	}
	logger.Info("spells loaded",
		zap.Int("count", reg.Len()),
		zap.String("dir", cfg.Spells.Dir),
	)

	if replay != "" {
		spells, err := reg.Parse(replay)
		if err != nil {
			return fmt.Errorf("parsing replay: %w", err)
		}
		return runReplay(os.Stdout, cfg, reg, spells)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runSearch(ctx, os.Stdout, cfg, reg, logger); err != nil {
		return err
	}
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// resolveConfig loads the configuration and applies flag overrides.
//
// Postcondition: Returns a valid Config or a non-nil error.
func resolveConfig(f flags) (config.Config, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.objective != "" {
		cfg.Search.Objective = f.objective
	}
	if f.workers > 0 {
		cfg.Search.Workers = f.workers
	}
	if f.hardOnly {
		cfg.Search.Modes = []string{config.ModeHard}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("applying flags: %w", err)
	}
	return cfg, nil
}

// loadConfig falls back to the built-in defaults when path does not exist.
func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return config.Load(path)
}

func loadSpells(dir string) (*spell.Registry, error) {
	if dir == "" {
		return spell.DefaultRegistry(), nil
	}
	return spell.LoadDirectory(dir)
}
