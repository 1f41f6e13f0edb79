package search

import (
	"math"
	"sync"
	"sync/atomic"
)

// Bound is the best total spend found so far, shared by every branch of one
// search.
//
// Reads are lock-free so the hot path can prune cheaply. Offer re-checks the
// bound under the lock before committing, so concurrent workers can never
// replace a better value with a worse one and the stored plan always belongs
// to the stored value.
type Bound struct {
	objective Objective
	value     atomic.Int64

	mu    sync.Mutex
	plan  []int
	found bool
}

// NewBound returns an empty bound for objective.
//
// Postcondition: Load returns math.MaxInt64 for MinimizeWin and -1 for
// MaximizeLoss, so every real spend improves on it.
func NewBound(objective Objective) *Bound {
	b := &Bound{objective: objective}
	if objective == MaximizeLoss {
		b.value.Store(-1)
	} else {
		b.value.Store(math.MaxInt64)
	}
	return b
}

// Load returns the current bound.
func (b *Bound) Load() int {
	return int(b.value.Load())
}

// Improves reports whether spent is strictly better than the current bound.
func (b *Bound) Improves(spent int) bool {
	return b.better(int64(spent), b.value.Load())
}

func (b *Bound) better(spent, current int64) bool {
	if b.objective == MaximizeLoss {
		return spent > current
	}
	return spent < current
}

// Offer records spent and the spell indices of plan if spent is strictly
// better than the current bound. Ties never replace the incumbent.
//
// Postcondition: returns true iff the bound was updated; plan is copied.
func (b *Bound) Offer(spent int, plan []int) bool {
	if !b.Improves(spent) {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.better(int64(spent), b.value.Load()) {
		return false
	}
	b.value.Store(int64(spent))
	b.plan = append(b.plan[:0], plan...)
	b.found = true
	return true
}

// Best returns the incumbent spend and plan.
//
// Postcondition: found is false iff Offer never succeeded; plan is a copy.
func (b *Bound) Best() (spent int, plan []int, found bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.found {
		return 0, nil, false
	}
	out := make([]int, len(b.plan))
	copy(out, b.plan)
	return int(b.value.Load()), out, true
}
