package agent

import (
	"wars/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays uniformly among legal intents,
// only cancelling or undoing when nothing else is legal.
func NewRandomAgent(rng *rand.Rand) Agent {
	return &randomAgent{rng: rng}
}

func (a *randomAgent) FindIntent(b *game.Battle) game.Intent {
	legal := legalIntents(b)
	preferred := make([]game.Intent, 0, len(legal))
	for _, i := range legal {
		if !isRetreat(i) {
			preferred = append(preferred, i)
		}
	}
	if len(preferred) == 0 {
		preferred = legal
	}
	return preferred[a.rng.Intn(len(preferred))]
}
