package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wizardsim/internal/game/combat"
	"github.com/cory-johannsen/wizardsim/internal/game/condition"
	"github.com/cory-johannsen/wizardsim/internal/game/spell"
)

// ctxCheckInterval is how many nodes are visited between context checks.
const ctxCheckInterval = 4096

// engine runs one depth-first search over the subtrees handed to it.
// It is single-goroutine; concurrent engines share only the Bound.
type engine struct {
	ctx       context.Context
	objective Objective
	prune     bool
	memo      bool
	spells    []*spell.Def
	attack    int
	bound     *Bound
	logger    *zap.Logger
	ceiling   spendCeiling

	path  []int
	nodes int64
	err   error
	table map[memoKey]memoEntry
}

// visit counts a node and polls the context.
func (e *engine) visit() bool {
	e.nodes++
	if e.nodes%ctxCheckInterval == 0 && e.err == nil {
		e.err = e.ctx.Err()
	}
	return e.err == nil
}

func (e *engine) offer(spent int) {
	e.offerPlan(spent, e.path)
}

func (e *engine) offerPlan(spent int, plan []int) {
	if e.bound.Offer(spent, plan) {
		e.logger.Debug("bound improved",
			zap.Stringer("objective", e.objective),
			zap.Int("spent", spent),
			zap.Int("depth", len(plan)),
		)
	}
}

// branch explores the subtree that starts by casting spells[i] from begin.
//
// Precondition: begin is the Ongoing state returned by combat.BeginPlayerTurn.
func (e *engine) branch(begin combat.State, i int) {
	switch {
	case e.objective == MinimizeWin:
		e.minCast(begin, i)
	case e.memo:
		e.memoCast(begin, i)
	default:
		e.maxCast(begin, i)
	}
}

// minRound plays one full round from s, the state before a player turn.
func (e *engine) minRound(s combat.State) {
	if !e.visit() {
		return
	}
	if e.prune && s.Spent >= e.bound.Load() {
		return
	}
	s, out := combat.BeginPlayerTurn(s)
	switch out {
	case combat.Loss:
		return
	case combat.Win:
		e.offer(s.Spent)
		return
	}
	for i := range e.spells {
		e.minCast(s, i)
		if e.err != nil {
			return
		}
	}
	// No castable spell leaves nothing to offer: the branch is lost.
}

func (e *engine) minCast(s combat.State, i int) {
	sp := e.spells[i]
	if e.prune && s.Spent+sp.Cost >= e.bound.Load() {
		return
	}
	next, out, err := combat.Round(s, sp, e.attack)
	if err != nil {
		return
	}
	e.path = append(e.path, i)
	switch out {
	case combat.Win:
		e.offer(next.Spent)
	case combat.Ongoing:
		e.minRound(next)
	}
	e.path = e.path[:len(e.path)-1]
}

// maxRound is the MaximizeLoss counterpart of minRound, without memoisation.
func (e *engine) maxRound(s combat.State) {
	if !e.visit() {
		return
	}
	if e.prune && e.ceiling.max(s) <= e.bound.Load() {
		return
	}
	s, out := combat.BeginPlayerTurn(s)
	switch out {
	case combat.Loss:
		e.offer(s.Spent)
		return
	case combat.Win:
		return
	}
	castable := false
	for i := range e.spells {
		if e.maxCast(s, i) {
			castable = true
		}
		if e.err != nil {
			return
		}
	}
	if !castable {
		e.offer(s.Spent)
	}
}

// maxCast reports whether spells[i] was castable from s.
func (e *engine) maxCast(s combat.State, i int) bool {
	next, out, err := combat.Round(s, e.spells[i], e.attack)
	if err != nil {
		return false
	}
	e.path = append(e.path, i)
	switch out {
	case combat.Loss:
		e.offer(next.Spent)
	case combat.Ongoing:
		e.maxRound(next)
	}
	e.path = e.path[:len(e.path)-1]
	return true
}

// spendCeiling computes an upper bound on the total spend of any losing
// continuation of a state.
//
// On a losing branch the boss survives, so each healing spell is cast at most
// (BossHP-1)/Damage more times. Every boss attack deals at least 1 damage, so
// the player survives at most PlayerHP plus total healing more rounds, and a
// mana effect can tick at most twice per round.
type spendCeiling struct {
	manaPerTick int
	heals       []*spell.Def
}

func newSpendCeiling(reg *spell.Registry) spendCeiling {
	c := spendCeiling{}
	if d, ok := reg.ByEffect(condition.KindMana); ok {
		c.manaPerTick = d.Effect.Amount
	}
	for _, d := range reg.All() {
		if d.Heal > 0 {
			c.heals = append(c.heals, d)
		}
	}
	return c
}

// max returns the ceiling for s, the state before a player turn.
//
// Postcondition: no losing continuation of s ends with Spent above the result.
func (c spendCeiling) max(s combat.State) int {
	rounds := s.PlayerHP
	for _, d := range c.heals {
		rounds += d.Heal * ((s.BossHP - 1) / d.Damage)
	}
	if rounds < 0 {
		rounds = 0
	}
	return s.Spent + s.Mana + 2*rounds*c.manaPerTick
}
