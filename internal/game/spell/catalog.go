package spell

import "github.com/cory-johannsen/wizardsim/internal/game/condition"

// Built-in spell IDs.
const (
	MagicMissile = "magic_missile"
	Drain        = "drain"
	Shield       = "shield"
	Poison       = "poison"
	Recharge     = "recharge"
)

// DefaultRegistry returns the standard five-spell catalog.
//
// Postcondition: Returns a Registry holding magic_missile, drain, shield,
// poison and recharge, in that order.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, d := range []*Def{
		{ID: MagicMissile, Name: "Magic Missile", Cost: 53, Damage: 4},
		{ID: Drain, Name: "Drain", Cost: 73, Damage: 2, Heal: 2},
		{ID: Shield, Name: "Shield", Cost: 113,
			Effect: &condition.EffectDef{Kind: condition.KindArmor, Duration: 6, Amount: 7}},
		{ID: Poison, Name: "Poison", Cost: 173,
			Effect: &condition.EffectDef{Kind: condition.KindDamage, Duration: 6, Amount: 3}},
		{ID: Recharge, Name: "Recharge", Cost: 229,
			Effect: &condition.EffectDef{Kind: condition.KindMana, Duration: 5, Amount: 101}},
	} {
		if err := reg.Register(d); err != nil {
			panic("spell.DefaultRegistry: " + err.Error())
		}
	}
	return reg
}
