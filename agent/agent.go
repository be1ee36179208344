package agent

import (
	"fmt"
	"wars/game"
	"wars/meta"
	"wars/searcher"

	"golang.org/x/exp/rand"
)

type Agent interface {
	// FindIntent returns the next intent for the active team. The battle must not be over.
	FindIntent(b *game.Battle) game.Intent
}

// Names lists the agents New can build.
var Names = []string{"random", "greedy", "mcts"}

// New builds an agent by name with its own seeded generator.
func New(name string, seed uint64) (Agent, error) {
	rng := rand.New(rand.NewSource(seed))
	switch name {
	case "random":
		return NewRandomAgent(rng), nil
	case "greedy":
		return NewGreedyAgent(rng), nil
	case "mcts":
		return NewSearchAgent(searcher.NewMCTS(meta.SEARCH_GOROUTINES,
			searcher.WithEpisodes(meta.SEARCH_EPISODES),
			searcher.WithCutoff(meta.SEARCH_CUTOFF),
			searcher.WithEvaluationFn(game.EvaluatePressure),
			searcher.WithSeed(seed))), nil
	}
	return nil, fmt.Errorf("unknown agent %q", name)
}

// isRetreat reports whether the intent throws away progress made this turn.
func isRetreat(i game.Intent) bool {
	return i.Kind == game.CancelIntent || (i.Kind == game.ChooseActionIntent && i.Action == game.UndoAction)
}

func legalIntents(b *game.Battle) []game.Intent {
	legal := b.LegalIntents()
	if len(legal) == 0 {
		panic(fmt.Sprintf("no legal intents in phase %s", b.Phase()))
	}
	return legal
}
