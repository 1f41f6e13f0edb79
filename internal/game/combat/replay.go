package combat

import (
	"fmt"

	"github.com/cory-johannsen/wizardsim/internal/game/spell"
)

// Actor identifies whose half-turn an Event records.
type Actor int

const (
	ActorPlayer Actor = iota
	ActorBoss
)

// String returns "player" or "boss".
func (a Actor) String() string {
	if a == ActorBoss {
		return "boss"
	}
	return "player"
}

// Event records one half-turn of a replayed fight.
type Event struct {
	Actor Actor
	// Before is the state as the half-turn opens, before any penalty or tick.
	Before State
	// After is the state as the half-turn closes.
	After State
	Lines []string
}

// Narrative renders the event the way the puzzle text does.
func (e Event) Narrative() []string {
	title := "-- Player turn --"
	if e.Actor == ActorBoss {
		title = "-- Boss turn --"
	}
	b := e.Before
	out := []string{
		title,
		fmt.Sprintf("- Player has %d hit points, %d armor, %d mana", b.PlayerHP, armorAt(b, b.Turn+1), b.Mana),
		fmt.Sprintf("- Boss has %d hit points", b.BossHP),
	}
	return append(out, e.Lines...)
}

// Trace is the full record of a replayed spell sequence.
type Trace struct {
	Events  []Event
	Final   State
	Outcome Outcome
	// Casts is the number of spells actually cast before the fight ended.
	Casts int
}

// Replay plays spells in order against a boss that attacks for attack
// damage, recording every half-turn.
//
// Spells left over once the fight ends are ignored. If the sequence runs out
// while the fight is still going, the trace ends Ongoing after the last boss
// half-turn.
//
// Precondition: reg and every element of spells must be non-nil.
// Postcondition: returns the trace so far and a non-nil error if a spell is
// not castable when its turn comes.
func Replay(reg *spell.Registry, initial State, attack int, spells []*spell.Def) (Trace, error) {
	if reg == nil {
		panic("combat.Replay: reg must not be nil")
	}
	tr := Trace{Final: initial, Outcome: Ongoing}
	s := initial
	for _, sp := range spells {
		ev := Event{Actor: ActorPlayer, Before: s}
		say := func(format string, args ...any) {
			ev.Lines = append(ev.Lines, fmt.Sprintf(format, args...))
		}
		var out Outcome
		s, out = beginPlayerTurn(s, reg, say)
		if out == Ongoing {
			var err error
			s, err = cast(s, sp, say)
			if err != nil {
				ev.After = s
				tr.Events = append(tr.Events, ev)
				tr.Final = s
				return tr, err
			}
			tr.Casts++
			if s.BossHP <= 0 {
				say("This kills the boss, and the player wins.")
				out = Win
			}
		}
		ev.After = s
		tr.Events = append(tr.Events, ev)
		if out != Ongoing {
			tr.Final, tr.Outcome = s, out
			return tr, nil
		}

		bev := Event{Actor: ActorBoss, Before: s}
		bsay := func(format string, args ...any) {
			bev.Lines = append(bev.Lines, fmt.Sprintf(format, args...))
		}
		s, out = bossTurn(s, attack, reg, bsay)
		bev.After = s
		tr.Events = append(tr.Events, bev)
		if out != Ongoing {
			tr.Final, tr.Outcome = s, out
			return tr, nil
		}
	}
	tr.Final = s
	return tr, nil
}

// armorAt returns the armor that will be in force on half-turn turn.
func armorAt(s State, turn int) int {
	s.Turn = turn
	return s.Armor()
}
