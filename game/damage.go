package game

import "math"

// RandomSource supplies combat jitter. *rand.Rand from golang.org/x/exp/rand
// satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// jitter is the fraction of the base damage a roll may deviate by
const jitter = 0.2

// retaliationFactor scales the defender's attack power when it strikes back
const retaliationFactor = 0.75

// BaseDamage is the damage before the random roll, truncated toward zero.
func BaseDamage(rules Rules, attacker, defender *Unit, defenderEnv, attackPower int) int {
	modifier := rules.AttackModifier(attacker.Type, defender.Type)
	base := float64(attackPower+modifier) * (0.5 + 0.5*float64(attacker.Health)/100)
	base -= 0.1 * float64(rules.Stats(defender.Type).Defense) * float64(defenderEnv)
	return int(base)
}

// DamageBounds returns the inclusive range a roll around base can land in.
func DamageBounds(base int) (lo, hi int) {
	spread := int(math.Round(jitter * math.Abs(float64(base))))
	return base - spread, base + spread
}

// ComputeDamage rolls the damage attacker deals to defender. The result is
// never negative.
func ComputeDamage(rules Rules, attacker, defender *Unit, defenderEnv, attackPower int, rng RandomSource) int {
	lo, hi := DamageBounds(BaseDamage(rules, attacker, defender, defenderEnv, attackPower))
	damage := lo + rng.Intn(hi-lo+1)
	return max(0, damage)
}

// RetaliationPower is the attack power a surviving defender strikes back with.
func RetaliationPower(attack int) int {
	return int(math.Round(retaliationFactor * float64(attack)))
}

// CanRetaliate reports whether a counter-attack happens between the two unit
// types. Artillery never gives or receives one.
func CanRetaliate(rules Rules, attacker, defender UnitType) bool {
	return !rules.Stats(attacker).Artillery && !rules.Stats(defender).Artillery
}
