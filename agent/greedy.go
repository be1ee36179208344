package agent

import (
	"math"
	"wars/game"

	"golang.org/x/exp/rand"
)

// Relative weights of the greedy policy before normalization.
const (
	weightConfirm    = 8.0
	weightCapture    = 6.0
	weightAttack     = 5.0
	weightSelectUnit = 3.0
	weightApproach   = 4.0
	weightPurchase   = 2.0
	weightOpenShop   = 2.0
	weightWait       = 1.0
	weightCycle      = 1.0
	weightEndTurn    = 0.1
	weightRetreat    = 0.01
	weightStepOnGoal = 6.0
	weightBetterPrey = 3.0
	weightWorsePrey  = 2.0
	weightEndMidMove = 0.01
)

type greedyAgent struct {
	rng *rand.Rand
}

// NewGreedyAgent returns an agent that samples from a hand-tuned policy
// favouring attacks and captures, then advancing on the enemy, then buying.
func NewGreedyAgent(rng *rand.Rand) Agent {
	return &greedyAgent{rng: rng}
}

func (a *greedyAgent) FindIntent(b *game.Battle) game.Intent {
	legal := legalIntents(b)
	policy := make([]float64, len(legal))
	for i, intent := range legal {
		policy[i] = weigh(b, intent)
	}
	return sample(legal, policy, a.rng.Float64())
}

func weigh(b *game.Battle, i game.Intent) float64 {
	if isRetreat(i) {
		return weightRetreat
	}
	switch i.Kind {
	case game.BeginTurnIntent:
		return 1
	case game.EndTurnIntent:
		if b.Phase() == game.SelectedPhase {
			return weightEndMidMove
		}
		return weightEndTurn
	case game.SelectIntent:
		if b.UnitAt(i.Pos) != nil {
			return weightSelectUnit
		}
		return weightOpenShop
	case game.MoveToIntent:
		return weighMove(b, i.Pos)
	case game.ChooseActionIntent:
		switch i.Action {
		case game.CaptureAction:
			return weightCapture
		case game.AttackAction:
			return weightAttack
		}
		return weightWait
	case game.ConfirmAttackIntent:
		if isWeakestTarget(b) {
			return weightConfirm
		}
		return weightWorsePrey
	case game.CycleTargetIntent:
		if isWeakestTarget(b) {
			return weightCycle
		}
		return weightBetterPrey
	case game.PurchaseIntent:
		return weightPurchase
	}
	return weightWait
}

// weighMove favours destinations close to an enemy unit or to an objective
// the team does not hold.
func weighMove(b *game.Battle, pos game.Position) float64 {
	u := b.Selected()
	if u == nil {
		return weightWait
	}
	weight := weightWait
	if obj, ok := b.Map().ObjectiveAt(pos); ok && obj.Owner != u.Team && b.Rules().Stats(u.Type).CanCapture {
		weight += weightStepOnGoal
	}
	nearest := math.MaxInt
	for _, other := range b.Units() {
		if other.Team != u.Team {
			nearest = min(nearest, pos.Distance(other.Pos))
		}
	}
	for _, objPos := range b.Map().Objectives() {
		if obj, _ := b.Map().ObjectiveAt(objPos); obj.Owner != u.Team {
			nearest = min(nearest, pos.Distance(objPos))
		}
	}
	if nearest != math.MaxInt {
		weight += weightApproach / float64(1+nearest)
	}
	return weight
}

// isWeakestTarget reports whether the current target has the lowest health
// among the attack candidates.
func isWeakestTarget(b *game.Battle) bool {
	current := b.CurrentTarget()
	if current == nil {
		return true
	}
	for _, t := range b.Targets() {
		if t.Health < current.Health {
			return false
		}
	}
	return true
}

// sample draws an intent with probability proportional to its weight, with
// sampled uniform in [0, 1).
func sample(intents []game.Intent, policy []float64, sampled float64) game.Intent {
	total := 0.0
	for _, w := range policy {
		total += w
	}
	sampled *= total
	cumulative := 0.0
	for i, w := range policy {
		cumulative += w
		if sampled < cumulative {
			return intents[i]
		}
	}
	return intents[len(intents)-1] // Fallback in case of rounding errors
}
