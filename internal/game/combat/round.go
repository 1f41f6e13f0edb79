package combat

import (
	"fmt"

	"github.com/cory-johannsen/wizardsim/internal/game/condition"
	"github.com/cory-johannsen/wizardsim/internal/game/spell"
)

// narrator receives narrative lines; nil disables narration.
type narrator func(format string, args ...any)

// BeginPlayerTurn opens a player half-turn: the hard-mode penalty, then the
// effect ticks.
//
// Postcondition: Turn is incremented by 1 unless the hard-mode penalty kills
// the player first; returns Loss if PlayerHP <= 0, Win if BossHP <= 0 after
// the ticks, Ongoing otherwise.
func BeginPlayerTurn(s State) (State, Outcome) {
	return beginPlayerTurn(s, nil, nil)
}

func beginPlayerTurn(s State, reg *spell.Registry, say narrator) (State, Outcome) {
	if s.Hard {
		s.PlayerHP--
		if say != nil {
			say("Player loses 1 hit point to the hard difficulty.")
		}
		if s.PlayerHP <= 0 {
			return s, Loss
		}
	}
	s.Turn++
	s = applyTicks(s, reg, say)
	if s.BossHP <= 0 {
		return s, Win
	}
	return s, Ongoing
}

// Cast pays for sp and applies its immediate damage, heal and effect on the
// current half-turn.
//
// Precondition: s is the state returned by BeginPlayerTurn with Outcome Ongoing.
// Postcondition: on success Spent and Mana change by exactly sp.Cost; returns an
// error wrapping ErrInsufficientMana or ErrEffectActive and the unchanged state
// if sp is not castable.
func Cast(s State, sp *spell.Def) (State, error) {
	return cast(s, sp, nil)
}

func cast(s State, sp *spell.Def, say narrator) (State, error) {
	if sp.Cost > s.Mana {
		return s, fmt.Errorf("casting %s: need %d mana, have %d: %w", sp.ID, sp.Cost, s.Mana, ErrInsufficientMana)
	}
	next := s
	if sp.StartsEffect() {
		if err := next.Effects.Start(*sp.Effect, next.Turn); err != nil {
			return s, fmt.Errorf("casting %s: %w", sp.ID, err)
		}
	}
	s = next
	s.Mana -= sp.Cost
	s.Spent += sp.Cost
	s.BossHP -= sp.Damage
	s.PlayerHP += sp.Heal
	if say != nil {
		say("%s", castLine(sp))
	}
	return s, nil
}

// BossTurn plays a boss half-turn: the effect ticks, then the boss attack.
//
// Precondition: attack >= 0.
// Postcondition: Turn is incremented by 1; returns Win if the ticks kill the
// boss, Loss if the attack kills the player, Ongoing otherwise.
func BossTurn(s State, attack int) (State, Outcome) {
	return bossTurn(s, attack, nil, nil)
}

func bossTurn(s State, attack int, reg *spell.Registry, say narrator) (State, Outcome) {
	s.Turn++
	s = applyTicks(s, reg, say)
	if s.BossHP <= 0 {
		return s, Win
	}
	armor := s.Armor()
	dmg := BossDamage(attack, armor)
	s.PlayerHP -= dmg
	if say != nil {
		if armor > 0 {
			say("Boss attacks for %d - %d = %d damage!", attack, armor, dmg)
		} else {
			say("Boss attacks for %d damage!", dmg)
		}
	}
	if s.PlayerHP <= 0 {
		return s, Loss
	}
	return s, Ongoing
}

// Round casts sp and, unless the cast alone kills the boss, plays the boss
// half-turn that follows.
//
// Precondition: s is the state returned by BeginPlayerTurn with Outcome Ongoing.
// Postcondition: returns the error from Cast, if any, with the unchanged state.
func Round(s State, sp *spell.Def, attack int) (State, Outcome, error) {
	next, err := Cast(s, sp)
	if err != nil {
		return s, Ongoing, err
	}
	if next.BossHP <= 0 {
		return next, Win, nil
	}
	next, out := BossTurn(next, attack)
	return next, out, nil
}

// applyTicks applies every effect active on s.Turn.
func applyTicks(s State, reg *spell.Registry, say narrator) State {
	if say == nil {
		s.BossHP -= condition.DamageOverTime(s.Effects, s.Turn)
		s.Mana += condition.ManaRegen(s.Effects, s.Turn)
		return s
	}
	for _, tk := range s.Effects.Ticks(s.Turn) {
		name := effectName(reg, tk.Kind)
		switch tk.Kind {
		case condition.KindDamage:
			s.BossHP -= tk.Amount
			if s.BossHP <= 0 {
				say("%s deals %d damage. This kills the boss, and the player wins.", name, tk.Amount)
				continue
			}
			say("%s deals %d damage; its timer is now %d.", name, tk.Amount, tk.Remaining)
		case condition.KindMana:
			s.Mana += tk.Amount
			say("%s provides %d mana; its timer is now %d.", name, tk.Amount, tk.Remaining)
		case condition.KindArmor:
			say("%s's timer is now %d.", name, tk.Remaining)
		}
		if tk.Remaining == 0 {
			if tk.Kind == condition.KindArmor {
				say("%s wears off, decreasing armor by %d.", name, tk.Amount)
			} else if s.BossHP > 0 {
				say("%s wears off.", name)
			}
		}
	}
	return s
}

func effectName(reg *spell.Registry, k condition.Kind) string {
	if reg != nil {
		if d, ok := reg.ByEffect(k); ok {
			return d.Name
		}
	}
	return k.String()
}

func castLine(sp *spell.Def) string {
	switch {
	case sp.Damage > 0 && sp.Heal > 0:
		return fmt.Sprintf("Player casts %s, dealing %d damage, and healing %d hit points.", sp.Name, sp.Damage, sp.Heal)
	case sp.Damage > 0:
		return fmt.Sprintf("Player casts %s, dealing %d damage.", sp.Name, sp.Damage)
	case sp.Effect != nil && sp.Effect.Kind == condition.KindArmor:
		return fmt.Sprintf("Player casts %s, increasing armor by %d.", sp.Name, sp.Effect.Amount)
	default:
		return fmt.Sprintf("Player casts %s.", sp.Name)
	}
}
