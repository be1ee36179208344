package player

import (
	"fmt"
	"io"
	"strings"
	"wars/game"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var teamColors = []*color.Color{
	color.New(color.FgRed, color.Bold),
	color.New(color.FgBlue, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgYellow, color.Bold),
}

var neutralColor = color.New(color.FgWhite)

var terrainGlyphs = map[game.TerrainType]string{
	game.Sea:      "~~",
	game.Plain:    "..",
	game.Road:     "==",
	game.Forest:   "TT",
	game.Mountain: "/\\",
	game.River:    "~.",
	game.Bridge:   "][",
}

var unitGlyphs = map[game.UnitType]string{
	game.Infantry:  "In",
	game.RocketInf: "Rk",
	game.APC:       "Ap",
	game.SmTank:    "Tk",
	game.LgTank:    "TK",
	game.Artillery: "Ar",
}

var objectiveGlyphs = map[game.ObjectiveKind]string{
	game.HQ:      "HQ",
	game.City:    "Ci",
	game.Factory: "Fa",
}

func teamColor(team int) *color.Color {
	if team >= 0 && team < len(teamColors) {
		return teamColors[team]
	}
	return neutralColor
}

// Render draws the board, the team table and what the active team can do.
func Render(w io.Writer, snap game.Snapshot) {
	units := make(map[game.Position]game.Unit, len(snap.Units))
	for _, u := range snap.Units {
		units[u.Pos] = u
	}
	reach := make(map[game.Position]bool, len(snap.MovementRange))
	for _, p := range snap.MovementRange {
		reach[p] = true
	}

	var b strings.Builder
	b.WriteString("    ")
	for c := 0; c < snap.Cols; c++ {
		fmt.Fprintf(&b, "%-3d", c)
	}
	b.WriteString("\n")
	for r := 0; r < snap.Rows; r++ {
		fmt.Fprintf(&b, "%3d ", r)
		for c := 0; c < snap.Cols; c++ {
			pos := game.Position{Row: r, Col: c}
			b.WriteString(cell(snap.Tiles[r][c], units, pos))
			switch {
			case snap.CurrentTarget != nil && *snap.CurrentTarget == pos:
				b.WriteString("!")
			case reach[pos]:
				b.WriteString("*")
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprint(w, b.String())

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Team", "Funds", "Objectives", "Units", "Status"}),
	)
	for _, t := range snap.Teams {
		status := ""
		switch {
		case t.Eliminated:
			status = "eliminated"
		case snap.GameOver && t.ID == snap.Winner:
			status = "winner"
		case !snap.GameOver && t.ID == snap.ActiveTeam:
			status = "to play"
		}
		table.Append([]string{
			teamColor(t.ID).Sprint(t.Color),
			fmt.Sprintf("%d", t.Funds),
			fmt.Sprintf("%d", t.HeldObjectives),
			fmt.Sprintf("%d", t.Units),
			status,
		})
	}
	table.Render()

	fmt.Fprintf(w, "turn %d, phase %s\n", snap.Turn, snap.Phase)
	if snap.Selected != nil {
		fmt.Fprintf(w, "selected %s %s at %v (%d hp)\n", game.TeamColor(snap.Selected.Team), snap.Selected.Type, snap.Selected.Pos, snap.Selected.Health)
	}
	if len(snap.Actions) > 0 {
		fmt.Fprintf(w, "actions: %v\n", snap.Actions)
	}
	if snap.Shop != nil {
		for _, t := range game.UnitTypes {
			fmt.Fprintf(w, "  %-10s %6d\n", t, snap.Shop.Prices[t.String()])
		}
	}
}

func cell(tile game.Tile, units map[game.Position]game.Unit, pos game.Position) string {
	if u, ok := units[pos]; ok {
		return teamColor(u.Team).Sprint(unitGlyphs[u.Type])
	}
	if tile.Objective != nil {
		return teamColor(tile.Objective.Owner).Sprint(objectiveGlyphs[tile.Objective.Kind])
	}
	return terrainGlyphs[tile.Terrain]
}
