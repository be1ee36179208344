package searcher

import (
	"math"
	"sync"
	"wars/game"
)

// chance follows an intent with a random outcome. Its children are the
// outcomes seen so far, told apart by state hash.
type chance struct {
	sync.RWMutex
	parent   Node
	team     int
	children []*decision
	rewards  float64
	visits   float64
}

func newChance(parent *decision, team int) *chance {
	return &chance{
		parent: parent,
		team:   team,
	}
}

func (c *chance) SelectOrExpand(b *game.Battle) (Node, bool) {
	c.Lock()
	defer c.Unlock()

	// Select if explored outcome
	expanded := false
	child := c.selects(b.Hash())
	// Expand if unexplored outcome
	if child == nil {
		child = c.expands(b)
		expanded = true
	}

	child.applyLoss()
	return child, expanded
}

func (c *chance) selects(hash game.StateHash) *decision {
	for _, child := range c.children {
		if child.hash == hash {
			return child
		}
	}
	return nil
}

func (c *chance) expands(b *game.Battle) *decision {
	child := newDecision(c, c.team, b)
	c.children = append(c.children, child)
	return child
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += LOSS
	c.visits++
}

func (c *chance) score(policy *uct) float64 {
	c.RLock()
	defer c.RUnlock()

	if c.visits == 0 {
		return math.Inf(1)
	}
	return policy.evaluate(c.rewards, c.visits)
}

func (c *chance) Backup(reward func(team int) float64) Node {
	c.Lock()
	defer c.Unlock()

	c.reverseLoss()

	c.rewards += reward(c.team)
	c.visits++

	return c.parent
}

func (c *chance) reverseLoss() {
	c.rewards -= LOSS
	c.visits--
}

func (c *chance) Visits() float64 {
	c.RLock()
	defer c.RUnlock()

	return c.visits
}
