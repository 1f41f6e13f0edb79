package condition

// Armor returns the armor granted by an active armor effect on half-turn turn.
//
// Postcondition: Returns >= 0.
func Armor(t Timers, turn int) int {
	return t.amountAt(KindArmor, turn)
}

// DamageOverTime returns the damage the boss takes at the start of half-turn turn.
//
// Postcondition: Returns >= 0.
func DamageOverTime(t Timers, turn int) int {
	return t.amountAt(KindDamage, turn)
}

// ManaRegen returns the mana credited to the player at the start of half-turn turn.
//
// Postcondition: Returns >= 0.
func ManaRegen(t Timers, turn int) int {
	return t.amountAt(KindMana, turn)
}

func (t Timers) amountAt(k Kind, turn int) int {
	if !t.Active(k, turn) {
		return 0
	}
	return t.amount[k]
}
