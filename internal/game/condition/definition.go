// Package condition tracks the timed effects a spell can leave behind:
// armor while a shield is up, damage-over-time on the boss, and mana
// regeneration for the player.
package condition

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind identifies one of the timed effect families.
type Kind int

const (
	KindArmor  Kind = iota // raises the player's armor on boss half-turns
	KindDamage             // damages the boss at the start of every half-turn
	KindMana               // credits the player's mana at the start of every half-turn

	// NumKinds is the number of effect kinds; Timers is indexed by Kind.
	NumKinds = 3
)

// String returns the YAML name of the kind.
func (k Kind) String() string {
	switch k {
	case KindArmor:
		return "armor"
	case KindDamage:
		return "damage"
	case KindMana:
		return "mana"
	default:
		return "unknown"
	}
}

// ParseKind maps a YAML kind name to a Kind.
//
// Postcondition: Returns an error for any name other than "armor", "damage" or "mana".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "armor":
		return KindArmor, nil
	case "damage":
		return KindDamage, nil
	case "mana":
		return KindMana, nil
	default:
		return 0, fmt.Errorf("unknown effect kind %q", s)
	}
}

// UnmarshalYAML decodes a kind from its name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a kind as its name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// EffectDef is the static definition of a timed effect, loaded from YAML as
// part of a spell definition.
type EffectDef struct {
	Kind     Kind `yaml:"kind"`
	Duration int  `yaml:"duration"` // half-turns, counted from the cast
	Amount   int  `yaml:"amount"`   // armor points, damage or mana per tick
}

// Validate checks the effect invariants.
//
// Postcondition: nil return guarantees a known Kind, Duration > 0 and Amount >= 0.
func (d EffectDef) Validate() error {
	var errs []error
	if d.Kind < 0 || d.Kind >= NumKinds {
		errs = append(errs, fmt.Errorf("effect kind %d out of range", int(d.Kind)))
	}
	if d.Duration <= 0 {
		errs = append(errs, fmt.Errorf("effect duration must be > 0, got %d", d.Duration))
	}
	if d.Amount < 0 {
		errs = append(errs, fmt.Errorf("effect amount must be >= 0, got %d", d.Amount))
	}
	return errors.Join(errs...)
}
