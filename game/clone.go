package game

import "maps"

// Clone deep-copies the battle for look-ahead. Observers are not carried
// over and the copy rolls combat with rng.
func (b *Battle) Clone(rng RandomSource) *Battle {
	c := *b
	c.m = b.m.Clone()
	c.rng = rng
	c.observers = nil

	units := make(map[*Unit]*Unit)
	c.grid = make([][]*Unit, len(b.grid))
	for r, row := range b.grid {
		c.grid[r] = make([]*Unit, len(row))
		for col, u := range row {
			if u != nil {
				cu := *u
				units[u] = &cu
				c.grid[r][col] = &cu
			}
		}
	}

	c.teams = make([]*Team, len(b.teams))
	for i, t := range b.teams {
		ct := *t
		ct.Units = make([]*Unit, len(t.Units))
		for j, u := range t.Units {
			ct.Units[j] = units[u]
		}
		c.teams[i] = &ct
	}

	if b.selected != nil {
		c.selected = units[b.selected]
	}
	c.moveRange = maps.Clone(b.moveRange)
	c.actions = append([]Action(nil), b.actions...)
	c.targets = nil
	for _, u := range b.targets {
		c.targets = append(c.targets, units[u])
	}
	return &c
}
