package searcher

import "wars/game"

// Node is a search tree node. A node owns the statistics of the intent that
// led to it, seen from the team that played that intent.
type Node interface {
	// SelectOrExpand descends one level, applying the chosen intent to b.
	// expanded reports that the returned child was just added to the tree.
	SelectOrExpand(b *game.Battle) (child Node, expanded bool)
	Backup(reward func(team int) float64) Node
	Visits() float64
	applyLoss()
	score(policy *uct) float64
}

func rewarder(b *game.Battle, evaluate game.Evaluate) func(team int) float64 {
	if b.GameOver() {
		winner := b.Winner()
		return func(team int) float64 {
			if team == winner {
				return WIN
			}
			return LOSS
		}
	}
	return func(team int) float64 {
		return evaluate(b, team)
	}
}

func isDeterministic(i game.Intent) bool {
	return i.Kind != game.ConfirmAttackIntent
}

func play(b *game.Battle, i game.Intent) {
	if err := b.Apply(i); err != nil {
		panic("cannot replay a legal intent: " + err.Error())
	}
}
