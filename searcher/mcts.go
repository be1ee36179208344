package searcher

import (
	"sync"
	"time"
	"wars/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a tree-parallel Monte Carlo tree search with virtual loss. The tree
// is kept between calls and reused when the next state is one it already
// explored.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	seed       uint64
	evaluate   game.Evaluate
	root       *decision
	metrics    MetricsCollector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithSeed seeds the rollouts and the combat rolls of simulated battles.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
		cutoff:     MaxCutoff,
		evaluate:   game.EvaluateResources,
		metrics:    NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from b, which is left untouched, and returns the visit
// share of each legal intent.
func (m *MCTS) Simulate(b *game.Battle) (map[game.Intent]float64, SearchMetrics) {
	m.findRoot(b)

	// Run simulations to collect statistics
	m.metrics.Start()
	if m.episodes > 0 {
		m.iterate(b)
	} else {
		m.countdown(b)
	}
	metric := m.metrics.Complete()

	log.Debug().Msgf("search: %d episodes (%d full playouts) in %v, tree reused: %t",
		metric.Episodes, metric.FullPlayouts, metric.Duration, metric.TreeReused)

	return m.root.Policy(), metric
}

func (m *MCTS) iterate(b *game.Battle) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				m.simulate(b, rng)
				m.metrics.AddEpisode()
			}
		}(m.workerRand(i))
	}

	wg.Wait()
}

func (m *MCTS) countdown(b *game.Battle) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(b, rng)
					m.metrics.AddEpisode()
				}
			}
		}(m.workerRand(i))
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) workerRand(i int) *rand.Rand {
	return rand.New(rand.NewSource(m.seed + uint64(i)))
}

// findRoot reuses the subtree of the previous search whose state matches b,
// looking two plies down so that a chance outcome can be found too.
func (m *MCTS) findRoot(b *game.Battle) {
	if root := traverse(m.root, b.Hash()); root != nil {
		root.parent = nil
		m.root = root
		m.metrics.SetTreeReused(true)
		return
	}
	m.root = newDecision(nil, b.ActiveTeam(), b)
	m.metrics.SetTreeReused(false)
}

func traverse(root *decision, hash game.StateHash) *decision {
	if root == nil {
		return nil
	}
	if root.hash == hash {
		return root
	}

	for _, child := range root.children {
		switch child := child.(type) {
		case *decision:
			if child.hash == hash {
				return child
			}
		case *chance:
			if grandChild := child.selects(hash); grandChild != nil {
				return grandChild
			}
		default:
			panic("Unexpected node type")
		}
	}
	return nil
}

func (m *MCTS) simulate(b *game.Battle, rng *rand.Rand) {
	sim := b.Clone(rng)
	newNode := selectThenExpand(m.root, sim)
	reward := rollout(sim, rng, m.cutoff, m.evaluate, m.metrics)
	backup(newNode, reward)
}

func selectThenExpand(root Node, b *game.Battle) Node {
	parent := root
	child, expanded := parent.SelectOrExpand(b)
	for !expanded && child != parent {
		parent = child
		child, expanded = parent.SelectOrExpand(b)
	}
	return child
}

func rollout(b *game.Battle, rng *rand.Rand, cutoff int, evaluate game.Evaluate, metrics MetricsCollector) func(int) float64 {
	depth := 0
	intents := rolloutIntents(b)
	// Rollout till game over or for cutoff number of intents
	for len(intents) > 0 && depth < cutoff {
		play(b, intents[rng.Intn(len(intents))]) // Random rollout policy
		intents = rolloutIntents(b)
		depth++
	}

	if b.GameOver() {
		metrics.AddFullPlayout()
	}
	return rewarder(b, evaluate)
}

// rolloutIntents drops Cancel and Undo unless nothing else is legal, so that
// random playouts make progress.
func rolloutIntents(b *game.Battle) []game.Intent {
	legal := b.LegalIntents()
	forward := legal[:0:0]
	for _, i := range legal {
		if i.Kind == game.CancelIntent || (i.Kind == game.ChooseActionIntent && i.Action == game.UndoAction) {
			continue
		}
		forward = append(forward, i)
	}
	if len(forward) == 0 {
		return legal
	}
	return forward
}

func backup(newNode Node, reward func(int) float64) {
	node := newNode
	for node != nil {
		parent := node.Backup(reward)
		node = parent
	}
}
