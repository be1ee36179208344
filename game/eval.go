package game

import "math"

// Evaluate scores a battle between -1 and 1 from a team's point of view,
// positive meaning the team is ahead.
type Evaluate func(b *Battle, team int) float64

// EvaluateResources compares held objectives, army value and funds against
// the strongest opponent.
func EvaluateResources(b *Battle, team int) float64 {
	if score, done := decided(b, team); done {
		return score
	}
	objectiveScore, armyScore, fundsScore := b.calculateResourceScores(team)
	return (objectiveScore + armyScore + fundsScore) / 3.0
}

// EvaluatePressure adds how close each side's units are to the other side's
// HQ, in addition to resources.
func EvaluatePressure(b *Battle, team int) float64 {
	if score, done := decided(b, team); done {
		return score
	}
	objectiveScore, armyScore, fundsScore := b.calculateResourceScores(team)
	pressureScore := b.calculatePressureScore(team)
	return (objectiveScore + armyScore + fundsScore + pressureScore) / 4
}

func decided(b *Battle, team int) (float64, bool) {
	if b.GameOver() {
		if b.Winner() == team {
			return 1, true
		}
		return -1, true
	}
	if b.teams[team].Eliminated {
		return -1, true
	}
	return 0, false
}

// armyValue weights each unit's shop cost by its remaining health
func (b *Battle) armyValue(team int) float64 {
	value := 0.0
	for _, u := range b.teams[team].Units {
		value += float64(b.rules.Cost(u.Type)) * float64(u.Health) / MaxUnitHealth
	}
	return value
}

// strongestOpponent is the live enemy with the most valuable army
func (b *Battle) strongestOpponent(team int) int {
	best, bestValue := -1, -1.0
	for _, t := range b.teams {
		if t.ID == team || t.Eliminated {
			continue
		}
		if v := b.armyValue(t.ID); v > bestValue {
			best, bestValue = t.ID, v
		}
	}
	return best
}

func (b *Battle) calculateResourceScores(team int) (objectiveScore, armyScore, fundsScore float64) {
	opponent := b.strongestOpponent(team)
	if opponent < 0 {
		return 1, 1, 1
	}
	objectiveScore = normalize(float64(b.HeldObjectiveCount(team)), float64(b.HeldObjectiveCount(opponent)))
	armyScore = normalize(b.armyValue(team), b.armyValue(opponent))
	fundsScore = normalize(float64(b.teams[team].Funds), float64(b.teams[opponent].Funds))
	return objectiveScore, armyScore, fundsScore
}

// calculatePressureScore rewards units close to enemy HQs and penalises enemy
// units close to our own. Closeness is 1/(1+distance) so adjacent units count
// the most.
func (b *Battle) calculatePressureScore(team int) float64 {
	pressure := make(map[int]float64)
	for _, attacker := range b.teams {
		if attacker.Eliminated {
			continue
		}
		for _, defender := range b.teams {
			if defender.ID == attacker.ID || defender.Eliminated {
				continue
			}
			hq, ok := b.m.HQ(defender.ID)
			if !ok {
				continue
			}
			for _, u := range attacker.Units {
				pressure[attacker.ID] += 1 / (1 + float64(u.Pos.Distance(hq)))
			}
		}
	}

	opponent := b.strongestOpponent(team)
	if opponent < 0 {
		return 1
	}
	return normalize(pressure[team], pressure[opponent])
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 || math.IsNaN(total) {
		return 0
	}
	return (value - otherValue) / total
}
