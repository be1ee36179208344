package game

import "sort"

type frontierEntry struct {
	pos       Position
	remaining float64
}

// ComputeMovementRange returns every cell unit u can reach from origin.
//
// A neighbour is entered only when the budget left after paying its terrain
// cost is strictly positive, the terrain is passable for the unit, and no
// enemy stands on it. Allied units can be passed through. The origin is
// always part of the range.
//
// Each cell keeps the largest remaining budget it was reached with and is
// re-expanded only when a later path arrives with more, so the result holds
// every cell reachable by some path and does not depend on visiting order.
func (b *Battle) ComputeMovementRange(u *Unit, origin Position) map[Position]bool {
	best := map[Position]float64{origin: b.rules.MovementBudget(u.Type)}
	stack := []frontierEntry{{origin, best[origin]}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.remaining < best[cur.pos] {
			// superseded by a better path
			continue
		}

		for _, next := range cur.pos.Neighbors() {
			if !b.m.InBounds(next) {
				continue
			}
			cost, ok := b.rules.MovementCost(u.Type, b.movementTerrain(next))
			if !ok {
				continue
			}
			if occupant := b.grid[next.Row][next.Col]; occupant != nil && occupant.Team != u.Team {
				continue
			}
			left := cur.remaining - cost
			if left <= 0 {
				continue
			}
			if prev, seen := best[next]; seen && prev >= left {
				continue
			}
			best[next] = left
			stack = append(stack, frontierEntry{next, left})
		}
	}

	reach := make(map[Position]bool, len(best))
	for pos := range best {
		reach[pos] = true
	}
	return reach
}

// moveUnit relocates the unit at from. It does nothing if to is occupied.
func (b *Battle) moveUnit(from, to Position) {
	u := b.grid[from.Row][from.Col]
	if u == nil || from == to || b.grid[to.Row][to.Col] != nil {
		return
	}
	b.grid[from.Row][from.Col] = nil
	b.grid[to.Row][to.Col] = u
	u.Pos = to
}

func sortedPositions(set map[Position]bool) []Position {
	out := make([]Position, 0, len(set))
	for pos := range set {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
