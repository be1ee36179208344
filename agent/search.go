package agent

import (
	"wars/game"
	"wars/searcher"
)

type searchAgent struct {
	mcts *searcher.MCTS
}

// NewSearchAgent returns an agent that plays the most visited intent of a
// Monte Carlo tree search.
func NewSearchAgent(mcts *searcher.MCTS) Agent {
	return searchAgent{mcts: mcts}
}

func (a searchAgent) FindIntent(b *game.Battle) game.Intent {
	legal := legalIntents(b)
	policy, _ := a.mcts.Simulate(b)
	return findMax(legal, policy)
}

// findMax breaks ties by the order of legal so that the choice does not
// depend on map iteration.
func findMax(legal []game.Intent, policy map[game.Intent]float64) game.Intent {
	best := legal[0]
	maxVisit := -1.0
	for _, intent := range legal {
		if visit, ok := policy[intent]; ok && visit > maxVisit {
			maxVisit = visit
			best = intent
		}
	}
	return best
}
