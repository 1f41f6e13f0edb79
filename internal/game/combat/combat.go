// Package combat implements the wizard-versus-boss combat rules: the state
// of one fight and the half-turn transitions that advance it.
package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/wizardsim/internal/game/condition"
)

var (
	// ErrInsufficientMana is returned when a spell costs more than the player's mana.
	ErrInsufficientMana = errors.New("insufficient mana")
	// ErrEffectActive is returned when a spell would start an effect that is still running.
	ErrEffectActive = condition.ErrAlreadyActive
)

// Outcome is the result of a half-turn.
type Outcome int

const (
	Ongoing Outcome = iota
	Win             // the boss is at or below 0 HP
	Loss            // the player is at or below 0 HP, or cannot cast
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// State is one snapshot of a fight.
//
// State is a value: every transition returns a modified copy and never
// touches its argument, so search branches cannot observe each other.
type State struct {
	PlayerHP int
	BossHP   int
	Mana     int
	// Spent is the total mana paid for spells so far. Mana credited by
	// effects is not subtracted from it.
	Spent int
	// Turn is the half-turn counter. It is 0 before the fight starts and is
	// incremented at the start of every half-turn.
	Turn    int
	Effects condition.Timers
	// Hard makes the player lose 1 HP at the start of each player turn.
	Hard bool
}

// NewState returns the opening state of a fight.
//
// Precondition: all arguments are >= 0.
// Postcondition: Turn == 0, Spent == 0 and no effect is active.
func NewState(bossHP, playerHP, mana int, hard bool) State {
	return State{PlayerHP: playerHP, BossHP: bossHP, Mana: mana, Hard: hard}
}

// Armor returns the player's armor on the current half-turn.
func (s State) Armor() int {
	return condition.Armor(s.Effects, s.Turn)
}

// String renders the state for logs and narratives.
func (s State) String() string {
	return fmt.Sprintf("turn=%d player_hp=%d boss_hp=%d mana=%d spent=%d",
		s.Turn, s.PlayerHP, s.BossHP, s.Mana, s.Spent)
}

// BossDamage returns the damage a boss attack deals against armor.
// The boss always deals at least 1 damage.
//
// Postcondition: Returns >= 1.
func BossDamage(attack, armor int) int {
	if d := attack - armor; d > 1 {
		return d
	}
	return 1
}
