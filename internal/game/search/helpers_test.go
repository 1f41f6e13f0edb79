package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wizardsim/internal/game/combat"
	"github.com/cory-johannsen/wizardsim/internal/game/search"
	"github.com/cory-johannsen/wizardsim/internal/game/spell"
)

// bruteForce enumerates every spell sequence from s, the state before a
// player turn, with no pruning and no memoisation.
func bruteForce(s combat.State, spells []*spell.Def, attack int, obj search.Objective) (best int, found bool) {
	consider := func(spent int) {
		switch {
		case !found:
			best, found = spent, true
		case obj == search.MinimizeWin && spent < best:
			best = spent
		case obj == search.MaximizeLoss && spent > best:
			best = spent
		}
	}
	begin, out := combat.BeginPlayerTurn(s)
	switch out {
	case combat.Win:
		if obj == search.MinimizeWin {
			consider(begin.Spent)
		}
		return
	case combat.Loss:
		if obj == search.MaximizeLoss {
			consider(begin.Spent)
		}
		return
	}
	castable := false
	for _, sp := range spells {
		next, out, err := combat.Round(begin, sp, attack)
		if err != nil {
			continue
		}
		castable = true
		switch {
		case out == combat.Win && obj == search.MinimizeWin:
			consider(next.Spent)
		case out == combat.Loss && obj == search.MaximizeLoss:
			consider(next.Spent)
		case out == combat.Ongoing:
			if v, ok := bruteForce(next, spells, attack, obj); ok {
				consider(v)
			}
		}
	}
	if !castable && obj == search.MaximizeLoss {
		consider(begin.Spent)
	}
	return
}

// replayPlan replays res.Plan from p and checks that it reaches the
// objective's terminal state at exactly res.Spent.
func replayPlan(t require.TestingT, p search.Params, obj search.Objective, res search.Result) {
	reg := spell.DefaultRegistry()
	tr, err := combat.Replay(reg, p.Initial(), p.BossDamage, res.Plan)
	require.NoError(t, err)
	require.Equal(t, len(res.Plan), tr.Casts, "every planned spell is cast")
	require.Equal(t, res.Spent, tr.Final.Spent)

	prev := 0
	for _, ev := range tr.Events {
		require.GreaterOrEqual(t, ev.After.Spent, prev, "spend never decreases")
		prev = ev.After.Spent
	}

	if obj == search.MinimizeWin {
		require.Equal(t, combat.Win, tr.Outcome)
		return
	}
	if tr.Outcome == combat.Loss {
		return
	}
	// The plan ran out because the player cannot cast anything next turn.
	require.Equal(t, combat.Ongoing, tr.Outcome)
	begin, out := combat.BeginPlayerTurn(tr.Final)
	if out == combat.Loss {
		return
	}
	require.Equal(t, combat.Ongoing, out)
	for _, sp := range reg.All() {
		_, err := combat.Cast(begin, sp)
		require.Error(t, err, "%s must not be castable", sp.ID)
	}
}

func planIDs(res search.Result) []string {
	ids := make([]string, 0, len(res.Plan))
	for _, d := range res.Plan {
		ids = append(ids, d.ID)
	}
	return ids
}

func mustSolve(t *testing.T, p search.Params, opts ...search.Option) search.Result {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	res, err := search.Solve(ctx, p, opts...)
	require.NoError(t, err)
	return res
}
