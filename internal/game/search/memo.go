package search

import (
	"github.com/cory-johannsen/wizardsim/internal/game/combat"
	"github.com/cory-johannsen/wizardsim/internal/game/condition"
)

// memoKey identifies a state before a player turn up to its spend. Spend is
// additive, so the best further spend from a state does not depend on it.
type memoKey struct {
	playerHP int
	bossHP   int
	mana     int
	timers   [condition.NumKinds]int
}

// memoEntry is the best further spend to a loss from a memoKey.
type memoEntry struct {
	extra  int
	loses  bool // false when every continuation wins
	choice int  // spell index of the first cast; -1 when the loss needs no cast
}

func keyOf(s combat.State) memoKey {
	return memoKey{
		playerHP: s.PlayerHP,
		bossHP:   s.BossHP,
		mana:     s.Mana,
		timers:   s.Effects.Relative(s.Turn),
	}
}

// memoCast explores the subtree that starts by casting spells[i] from begin
// and offers its best loss to the bound.
func (e *engine) memoCast(begin combat.State, i int) {
	if e.table == nil {
		e.table = make(map[memoKey]memoEntry)
	}
	next, out, err := combat.Round(begin, e.spells[i], e.attack)
	if err != nil {
		return
	}
	switch out {
	case combat.Loss:
		e.offerPlan(next.Spent, []int{i})
	case combat.Ongoing:
		extra, loses := e.maxValue(next)
		if loses && e.err == nil {
			e.offerPlan(next.Spent+extra, append([]int{i}, e.planFrom(next)...))
		}
	}
}

// maxValue returns the most mana that can still be spent from s, the state
// before a player turn, on a continuation that loses.
//
// Postcondition: loses is false iff every continuation of s wins.
func (e *engine) maxValue(s combat.State) (extra int, loses bool) {
	key := keyOf(s)
	if v, ok := e.table[key]; ok {
		return v.extra, v.loses
	}
	if !e.visit() {
		return 0, false
	}
	entry := memoEntry{choice: -1}
	begin, out := combat.BeginPlayerTurn(s)
	switch out {
	case combat.Loss:
		entry.loses = true
	case combat.Ongoing:
		castable := false
		for i, sp := range e.spells {
			next, out, err := combat.Round(begin, sp, e.attack)
			if err != nil {
				continue
			}
			castable = true
			cand, ok := sp.Cost, out == combat.Loss
			if out == combat.Ongoing {
				var more int
				more, ok = e.maxValue(next)
				cand += more
			}
			if e.err != nil {
				return 0, false
			}
			if ok && (!entry.loses || cand > entry.extra) {
				entry = memoEntry{extra: cand, loses: true, choice: i}
			}
		}
		if !castable {
			entry.loses = true
		}
	}
	e.table[key] = entry
	return entry.extra, entry.loses
}

// planFrom follows the recorded choices from s.
//
// Precondition: maxValue(s) has completed.
func (e *engine) planFrom(s combat.State) []int {
	var plan []int
	for {
		entry, ok := e.table[keyOf(s)]
		if !ok || !entry.loses || entry.choice < 0 {
			return plan
		}
		plan = append(plan, entry.choice)
		begin, _ := combat.BeginPlayerTurn(s)
		next, out, err := combat.Round(begin, e.spells[entry.choice], e.attack)
		if err != nil || out != combat.Ongoing {
			return plan
		}
		s = next
	}
}
