package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wizardsim/internal/config"
	"github.com/cory-johannsen/wizardsim/internal/game/combat"
	"github.com/cory-johannsen/wizardsim/internal/game/search"
	"github.com/cory-johannsen/wizardsim/internal/game/spell"
)

// part numbers the answers the way the puzzle does: normal first, hard second.
func part(mode string) int {
	if mode == config.ModeHard {
		return 2
	}
	return 1
}

func params(s config.ScenarioConfig, mode string) search.Params {
	return search.Params{
		BossHP:     s.BossHP,
		BossDamage: s.BossDamage,
		PlayerHP:   s.PlayerHP,
		Mana:       s.Mana,
		Hard:       mode == config.ModeHard,
	}
}

// runSearch solves every configured mode and writes one answer line per mode,
// followed by the plan that achieves it.
//
// Precondition: cfg must be valid.
func runSearch(ctx context.Context, w io.Writer, cfg config.Config, reg *spell.Registry, logger *zap.Logger) error {
	obj, err := search.ParseObjective(cfg.Search.Objective)
	if err != nil {
		return err
	}
	for _, mode := range cfg.Search.Modes {
		res, err := search.Solve(ctx, params(cfg.Scenario, mode),
			search.WithObjective(obj),
			search.WithWorkers(cfg.Search.Workers),
			search.WithPruning(cfg.Search.Prune),
			search.WithMemo(cfg.Search.Memo),
			search.WithRegistry(reg),
			search.WithLogger(logger.With(zap.String("mode", mode))),
		)
		if err != nil {
			return fmt.Errorf("solving %s mode: %w", mode, err)
		}
		if !res.Found {
			fmt.Fprintf(w, "Part %d: no solution\n", part(mode))
			continue
		}
		fmt.Fprintf(w, "Part %d: %d\n", part(mode), res.Spent)
		fmt.Fprintf(w, "  plan: %s\n", planString(res.Plan))
	}
	return nil
}

// runReplay plays spells in every configured mode and writes the full
// narrative of each fight.
func runReplay(w io.Writer, cfg config.Config, reg *spell.Registry, spells []*spell.Def) error {
	for _, mode := range cfg.Search.Modes {
		p := params(cfg.Scenario, mode)
		tr, err := combat.Replay(reg, p.Initial(), p.BossDamage, spells)
		for _, ev := range tr.Events {
			for _, line := range ev.Narrative() {
				fmt.Fprintln(w, line)
			}
			fmt.Fprintln(w)
		}
		if err != nil {
			return fmt.Errorf("replaying %s mode: %w", mode, err)
		}
		fmt.Fprintf(w, "Part %d: %s after %d casts, %d mana spent\n",
			part(mode), tr.Outcome, tr.Casts, tr.Final.Spent)
	}
	return nil
}

func planString(plan []*spell.Def) string {
	if len(plan) == 0 {
		return "(no casts)"
	}
	names := make([]string, len(plan))
	for i, d := range plan {
		names[i] = d.Name
	}
	return strings.Join(names, " -> ")
}
