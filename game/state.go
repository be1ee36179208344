package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Hash fingerprints the battle: phase, turn, active team, funds, units,
// objectives and the current selection.
func (b *Battle) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(b.phase))
	binary.Write(hasher, binary.LittleEndian, int64(b.turn))
	binary.Write(hasher, binary.LittleEndian, int64(b.active))

	for _, t := range b.teams {
		binary.Write(hasher, binary.LittleEndian, int64(t.Funds))
		binary.Write(hasher, binary.LittleEndian, t.Eliminated)
	}

	// Units in row-major order
	for _, u := range b.Units() {
		binary.Write(hasher, binary.LittleEndian, int64(u.ID))
		binary.Write(hasher, binary.LittleEndian, int64(u.Type))
		binary.Write(hasher, binary.LittleEndian, int64(u.Team))
		binary.Write(hasher, binary.LittleEndian, int64(u.Health))
		binary.Write(hasher, binary.LittleEndian, u.HasMoved)
		binary.Write(hasher, binary.LittleEndian, int64(u.Pos.Row))
		binary.Write(hasher, binary.LittleEndian, int64(u.Pos.Col))
	}

	for _, pos := range b.m.Objectives() {
		obj, _ := b.m.ObjectiveAt(pos)
		binary.Write(hasher, binary.LittleEndian, int64(obj.Owner))
		binary.Write(hasher, binary.LittleEndian, int64(obj.Kind))
		binary.Write(hasher, binary.LittleEndian, int64(obj.Health))
	}

	selected := int64(0)
	if b.selected != nil {
		selected = int64(b.selected.ID)
	}
	binary.Write(hasher, binary.LittleEndian, selected)
	binary.Write(hasher, binary.LittleEndian, int64(b.targetIdx))

	return StateHash(hasher.Sum64())
}

// CheckInvariants panics if the occupancy grid and the team rosters disagree,
// a unit sits on a tile twice, or the game-over flag does not match the
// number of teams left.
func (b *Battle) CheckInvariants() {
	onGrid := make(map[*Unit]Position)
	for r := range b.grid {
		for c, u := range b.grid[r] {
			if u == nil {
				continue
			}
			pos := Position{r, c}
			if u.Pos != pos {
				panic(fmt.Sprintf("unit %d believes it is at %v but sits at %v", u.ID, u.Pos, pos))
			}
			if u.Health <= 0 {
				panic(fmt.Sprintf("destroyed unit %d still on the grid at %v", u.ID, pos))
			}
			onGrid[u] = pos
		}
	}

	rostered := 0
	for _, t := range b.teams {
		if t.Eliminated && len(t.Units) > 0 {
			panic(fmt.Sprintf("eliminated team %d still has %d units", t.ID, len(t.Units)))
		}
		if t.Funds < 0 {
			panic(fmt.Sprintf("team %d has negative funds %d", t.ID, t.Funds))
		}
		for i, u := range t.Units {
			if u.Team != t.ID {
				panic(fmt.Sprintf("unit %d of team %d is in the roster of team %d", u.ID, u.Team, t.ID))
			}
			if _, ok := onGrid[u]; !ok {
				panic(fmt.Sprintf("unit %d of team %d is rostered but not on the grid", u.ID, t.ID))
			}
			if i > 0 && t.Units[i-1].ID >= u.ID {
				panic(fmt.Sprintf("roster of team %d is out of order", t.ID))
			}
			rostered++
		}
	}
	if rostered != len(onGrid) {
		panic(fmt.Sprintf("%d units on the grid but %d in rosters", len(onGrid), rostered))
	}

	alive := len(b.remainingTeams())
	if (alive == 1) != (b.phase == GameOverPhase) {
		panic(fmt.Sprintf("%d teams left but phase is %s", alive, b.phase))
	}
}
