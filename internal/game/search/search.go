// Package search finds the cheapest spell sequence that wins a fight, or the
// most expensive one that still loses it.
//
// The engine is a depth-first branch-and-bound search over combat.State.
// Every spell in the catalog is tried from every state, in catalog order.
// When minimizing, a branch is abandoned once its spend reaches the best
// winning spend found so far. When maximizing, a branch is abandoned once an
// upper bound on what it could still spend cannot beat the best losing spend,
// and a transposition table collapses states that only differ in spend.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/wizardsim/internal/game/combat"
	"github.com/cory-johannsen/wizardsim/internal/game/spell"
)

// ErrInvalidParams is wrapped by every Params validation failure.
var ErrInvalidParams = errors.New("invalid search parameters")

// Objective selects what the search optimizes.
type Objective int

const (
	// MinimizeWin finds the least mana spent on any winning sequence.
	MinimizeWin Objective = iota
	// MaximizeLoss finds the most mana spent on any losing sequence.
	MaximizeLoss
)

// String returns the configuration name of the objective.
func (o Objective) String() string {
	switch o {
	case MinimizeWin:
		return "min_win"
	case MaximizeLoss:
		return "max_loss"
	default:
		return "unknown"
	}
}

// ParseObjective maps a configuration name to an Objective.
func ParseObjective(s string) (Objective, error) {
	switch s {
	case "min_win":
		return MinimizeWin, nil
	case "max_loss":
		return MaximizeLoss, nil
	default:
		return 0, fmt.Errorf("unknown objective %q", s)
	}
}

// Params are the scalar inputs of one search.
type Params struct {
	BossHP     int
	BossDamage int
	PlayerHP   int
	Mana       int
	Hard       bool
}

// Validate checks the parameter preconditions.
//
// Postcondition: nil return guarantees BossHP > 0, PlayerHP > 0, BossDamage >= 0 and Mana >= 0;
// any error wraps ErrInvalidParams.
func (p Params) Validate() error {
	var errs []error
	if p.BossHP <= 0 {
		errs = append(errs, fmt.Errorf("boss hp must be > 0, got %d", p.BossHP))
	}
	if p.BossDamage < 0 {
		errs = append(errs, fmt.Errorf("boss damage must be >= 0, got %d", p.BossDamage))
	}
	if p.PlayerHP <= 0 {
		errs = append(errs, fmt.Errorf("player hp must be > 0, got %d", p.PlayerHP))
	}
	if p.Mana < 0 {
		errs = append(errs, fmt.Errorf("mana must be >= 0, got %d", p.Mana))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
	}
	return nil
}

// Initial returns the opening combat state for p.
func (p Params) Initial() combat.State {
	return combat.NewState(p.BossHP, p.PlayerHP, p.Mana, p.Hard)
}

// Result is the outcome of a search.
type Result struct {
	// Spent is the optimal total spend; meaningful only when Found is true.
	Spent int
	// Found is false when no branch reaches the objective's terminal state.
	Found bool
	// Plan is one spell sequence achieving Spent.
	Plan []*spell.Def
	// Nodes is the number of search nodes visited.
	Nodes int64
}

type options struct {
	objective Objective
	prune     bool
	memo      bool
	workers   int
	registry  *spell.Registry
	logger    *zap.Logger
}

// Option configures Solve.
type Option func(*options)

// WithObjective selects MinimizeWin (the default) or MaximizeLoss.
func WithObjective(o Objective) Option { return func(opts *options) { opts.objective = o } }

// WithPruning enables or disables bound pruning. Disabling it never changes
// Result.Spent, only the work done to find it.
func WithPruning(on bool) Option { return func(opts *options) { opts.prune = on } }

// WithMemo enables or disables the transposition table used by MaximizeLoss.
// It has no effect on MinimizeWin.
func WithMemo(on bool) Option { return func(opts *options) { opts.memo = on } }

// WithWorkers explores the first spell choices on up to n goroutines.
// Values below 2 run the search on the calling goroutine.
func WithWorkers(n int) Option { return func(opts *options) { opts.workers = n } }

// WithRegistry replaces the default spell catalog.
func WithRegistry(reg *spell.Registry) Option { return func(opts *options) { opts.registry = reg } }

// WithLogger sets the logger for bound improvements and the final summary.
func WithLogger(l *zap.Logger) Option { return func(opts *options) { opts.logger = l } }

// Solve runs the search for p.
//
// Precondition: ctx must not be nil.
// Postcondition: returns an error wrapping ErrInvalidParams before searching if p is invalid,
// or ctx.Err() if ctx is cancelled mid-search. Otherwise Result.Found reports whether any
// branch reached the objective, and Result.Plan replays to exactly Result.Spent.
func Solve(ctx context.Context, p Params, opts ...Option) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	o := options{objective: MinimizeWin, prune: true, memo: true, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = spell.DefaultRegistry()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.registry.Len() == 0 {
		return Result{}, fmt.Errorf("%w: spell catalog is empty", ErrInvalidParams)
	}

	if o.objective == MaximizeLoss && !o.memo {
		o.logger.Warn("maximizing without memoisation can take very long on large inputs",
			zap.Int("boss_hp", p.BossHP),
			zap.Int("mana", p.Mana),
		)
	}

	start := time.Now()
	spells := o.registry.All()
	bound := NewBound(o.objective)
	var nodes atomic.Int64

	newEngine := func(ctx context.Context) *engine {
		return &engine{
			ctx:       ctx,
			objective: o.objective,
			prune:     o.prune,
			memo:      o.memo,
			spells:    spells,
			attack:    p.BossDamage,
			bound:     bound,
			logger:    o.logger,
			ceiling:   newSpendCeiling(o.registry),
		}
	}

	begin, out := combat.BeginPlayerTurn(p.Initial())
	var roots []int
	// Below the cheapest spell nothing is castable, so there is no root to try.
	if out == combat.Ongoing && begin.Mana >= o.registry.Cheapest() {
		for i, sp := range spells {
			if _, err := combat.Cast(begin, sp); err == nil {
				roots = append(roots, i)
			}
		}
	}
	// A player who dies to the hard-mode penalty or cannot afford any spell
	// loses before casting anything.
	if o.objective == MaximizeLoss && (out == combat.Loss || (out == combat.Ongoing && len(roots) == 0)) {
		bound.Offer(begin.Spent, nil)
	}

	switch {
	case len(roots) == 0:
	case o.workers < 2:
		e := newEngine(ctx)
		for _, i := range roots {
			e.branch(begin, i)
			if e.err != nil {
				break
			}
		}
		nodes.Add(e.nodes)
		if e.err != nil {
			return Result{}, e.err
		}
	default:
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.workers)
		for _, i := range roots {
			i := i
			g.Go(func() error {
				e := newEngine(gctx)
				e.branch(begin, i)
				nodes.Add(e.nodes)
				return e.err
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	res := Result{Nodes: nodes.Load()}
	if spent, plan, found := bound.Best(); found {
		res.Spent, res.Found = spent, true
		res.Plan = make([]*spell.Def, len(plan))
		for k, i := range plan {
			res.Plan[k] = spells[i]
		}
	}
	o.logger.Info("search finished",
		zap.Stringer("objective", o.objective),
		zap.Bool("hard", p.Hard),
		zap.Bool("found", res.Found),
		zap.Int("spent", res.Spent),
		zap.Int("plan_length", len(res.Plan)),
		zap.Int64("nodes", res.Nodes),
		zap.Int("workers", o.workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
