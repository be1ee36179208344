package game

import "fmt"

// Position is a grid coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// cardinal directions in the order neighbours are explored: up, down, left, right
var cardinals = []Position{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// clockwise order used when listing melee targets: up, right, down, left
var clockwise = []Position{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

func (p Position) Add(d Position) Position {
	return Position{p.Row + d.Row, p.Col + d.Col}
}

// Distance is the taxicab distance between two positions.
func (p Position) Distance(o Position) int {
	return abs(p.Row-o.Row) + abs(p.Col-o.Col)
}

// Neighbors returns the four cardinal neighbours, which may be off the map.
func (p Position) Neighbors() []Position {
	out := make([]Position, len(cardinals))
	for i, d := range cardinals {
		out[i] = p.Add(d)
	}
	return out
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// Less orders positions row-major.
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
