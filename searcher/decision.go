package searcher

import (
	"math"
	"sync"
	"wars/game"
)

type decision struct {
	sync.RWMutex
	parent   Node
	team     int // team that played into this node
	hash     game.StateHash
	intents  []game.Intent
	children []Node
	rewards  float64
	visits   float64
}

func newDecision(parent Node, team int, b *game.Battle) *decision {
	intents := b.LegalIntents()
	return &decision{
		parent:   parent,
		team:     team,
		hash:     b.Hash(),
		intents:  intents,
		children: make([]Node, 0, len(intents)),
	}
}

func (d *decision) SelectOrExpand(b *game.Battle) (Node, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.intents) == 0 { // Terminal node
		return d, false
	}

	if len(d.intents) > len(d.children) { // Expandable node
		child := d.addChild(b)
		child.applyLoss()
		return child, true
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	play(b, d.intents[ith])
	child.applyLoss()
	return child, false
}

func (d *decision) addChild(b *game.Battle) Node {
	intent := d.intents[len(d.children)]
	team := b.ActiveTeam()
	play(b, intent)

	var child Node
	if isDeterministic(intent) {
		child = newDecision(d, team, b)
	} else {
		child = newChance(d, team)
	}
	d.children = append(d.children, child)
	return child
}

func (d *decision) pickChild() int {
	// Other goroutines may have expanded every child without backing up yet
	policy := newUCT(CSquared, max(d.visits, 1))
	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(policy)
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) score(policy *uct) float64 {
	d.RLock()
	defer d.RUnlock()

	if d.visits == 0 {
		return math.Inf(1)
	}
	return policy.evaluate(d.rewards, d.visits)
}

func (d *decision) Backup(reward func(team int) float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.team)
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) Visits() float64 {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// Policy returns the visit share of every explored intent.
func (d *decision) Policy() map[game.Intent]float64 {
	d.RLock()
	defer d.RUnlock()

	total := 0.0
	visits := make([]float64, len(d.children))
	for i, child := range d.children {
		visits[i] = child.Visits()
		total += visits[i]
	}

	policy := make(map[game.Intent]float64, len(d.children))
	for i, v := range visits {
		if total > 0 {
			policy[d.intents[i]] = v / total
		} else {
			policy[d.intents[i]] = 1 / float64(len(visits))
		}
	}
	return policy
}
