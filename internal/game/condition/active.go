package condition

import "errors"

// ErrAlreadyActive is returned when an effect is started while an effect of
// the same kind has not yet expired.
var ErrAlreadyActive = errors.New("effect already active")

// Timers holds the active timed effects of one combat, one slot per Kind.
//
// Each slot stores the absolute half-turn on which the effect applies its
// final tick. An effect started on half-turn t with duration d ticks at the
// start of half-turns t+1 through t+d. Timers is a value type: copying it
// copies every slot, so branches of a search never share timers.
type Timers struct {
	start  [NumKinds]int
	expiry [NumKinds]int
	amount [NumKinds]int
}

// Tick describes one effect applying at the start of a half-turn.
type Tick struct {
	Kind      Kind
	Amount    int
	Remaining int // half-turns left after this tick; 0 means the effect wears off
}

// Start registers def as cast on half-turn turn.
//
// Precondition: def must be valid.
// Postcondition: on success, Active(def.Kind, h) is true for h in turn+1..turn+def.Duration;
// returns ErrAlreadyActive and leaves t unchanged if Blocks(def.Kind, turn).
func (t *Timers) Start(def EffectDef, turn int) error {
	if t.Blocks(def.Kind, turn) {
		return ErrAlreadyActive
	}
	t.start[def.Kind] = turn
	t.expiry[def.Kind] = turn + def.Duration
	t.amount[def.Kind] = def.Amount
	return nil
}

// Blocks reports whether an effect of kind k started earlier is still
// running after half-turn turn, so a new one cannot be started yet.
// An effect may be restarted on the half-turn of its final tick.
func (t Timers) Blocks(k Kind, turn int) bool {
	return t.expiry[k] > turn
}

// Active reports whether the effect of kind k ticks at the start of half-turn turn.
// An effect never ticks on the half-turn it was started.
//
// Precondition: turn >= 1.
func (t Timers) Active(k Kind, turn int) bool {
	return t.start[k] < turn && turn <= t.expiry[k]
}

// Expiry returns the absolute half-turn of the final tick of kind k, or 0 if
// the effect was never started.
func (t Timers) Expiry(k Kind) int {
	return t.expiry[k]
}

// Remaining returns the number of ticks kind k still has after half-turn turn.
//
// Postcondition: Returns >= 0.
func (t Timers) Remaining(k Kind, turn int) int {
	if r := t.expiry[k] - turn; r > 0 {
		return r
	}
	return 0
}

// Relative returns Remaining for every kind. Two timer sets with equal
// relative values behave identically on every half-turn after turn.
func (t Timers) Relative(turn int) [NumKinds]int {
	var out [NumKinds]int
	for k := Kind(0); k < NumKinds; k++ {
		out[k] = t.Remaining(k, turn)
	}
	return out
}

// Ticks returns the effects that apply at the start of half-turn turn, in Kind order.
//
// Precondition: turn >= 1.
// Postcondition: every returned Tick has Active(Kind, turn) true.
func (t Timers) Ticks(turn int) []Tick {
	var out []Tick
	for k := Kind(0); k < NumKinds; k++ {
		if !t.Active(k, turn) {
			continue
		}
		out = append(out, Tick{Kind: k, Amount: t.amount[k], Remaining: t.expiry[k] - turn})
	}
	return out
}
