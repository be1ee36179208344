package game

import "fmt"

var teamColors = []string{"Red", "Blue", "Green", "Yellow"}

// MaxPlayers is the largest number of teams a battle supports.
const MaxPlayers = 4

const MinPlayers = 2

func teamColor(team int) string {
	if team >= 0 && team < len(teamColors) {
		return teamColors[team]
	}
	if team == Neutral {
		return "Neutral"
	}
	return fmt.Sprintf("Team(%d)", team)
}

// TeamColor returns the display color name of a team id.
func TeamColor(team int) string {
	return teamColor(team)
}

// Team is one player slot. Held objectives are read from the map so that the
// two never disagree.
type Team struct {
	ID         int
	Color      string
	Funds      int
	Units      []*Unit // ordered by unit id
	SavedView  View
	Eliminated bool
}

func newTeam(id, funds int) *Team {
	return &Team{ID: id, Color: teamColor(id), Funds: funds}
}

func (t *Team) addUnit(u *Unit) {
	i := len(t.Units)
	for i > 0 && t.Units[i-1].ID > u.ID {
		i--
	}
	t.Units = append(t.Units, nil)
	copy(t.Units[i+1:], t.Units[i:])
	t.Units[i] = u
}

func (t *Team) removeUnit(u *Unit) bool {
	for i, other := range t.Units {
		if other == u {
			t.Units = append(t.Units[:i], t.Units[i+1:]...)
			return true
		}
	}
	return false
}
