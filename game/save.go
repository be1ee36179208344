package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedSave is wrapped by every save-data parse failure.
var ErrMalformedSave = errors.New("malformed save data")

const sectionSeparator = "\n*\n"

// Scenario is the contents of a save file: the map, the player count, the
// starting funds of every team and the starting units.
type Scenario struct {
	Map        *Map
	NumPlayers int
	Funds      int
	Units      []UnitPlacement
}

// NewScenario builds a scenario the way the map editor does: the player count
// is the number of HQs on the map and units are stored row-major.
func NewScenario(m *Map, funds int, units []UnitPlacement) *Scenario {
	s := &Scenario{Map: m, NumPlayers: m.CountHQs(), Funds: funds}
	s.Units = append(s.Units, units...)
	sortPlacements(s.Units)
	return s
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedSave, fmt.Sprintf(format, args...))
}

// ParseScenario reads a save file. Any structural problem is reported as an
// error wrapping ErrMalformedSave; nothing is partially loaded.
func ParseScenario(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read save data: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	sections := strings.Split(text, sectionSeparator)
	if len(sections) != 4 {
		return nil, malformed("expected 4 sections, found %d", len(sections))
	}

	m, err := parseMapSection(sections[0])
	if err != nil {
		return nil, err
	}
	numPlayers, err := strconv.Atoi(strings.TrimSpace(sections[1]))
	if err != nil {
		return nil, malformed("player count %q is not a number", strings.TrimSpace(sections[1]))
	}
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, malformed("player count %d, need %d to %d", numPlayers, MinPlayers, MaxPlayers)
	}
	funds, err := strconv.Atoi(strings.TrimSpace(sections[2]))
	if err != nil {
		return nil, malformed("funds %q is not a number", strings.TrimSpace(sections[2]))
	}
	if funds < 0 {
		return nil, malformed("negative funds %d", funds)
	}
	if err := validateObjectives(m, numPlayers); err != nil {
		return nil, malformed("%v", err)
	}
	units, err := parseUnitSection(sections[3], m, numPlayers)
	if err != nil {
		return nil, err
	}

	return &Scenario{Map: m, NumPlayers: numPlayers, Funds: funds, Units: units}, nil
}

func parseMapSection(section string) (*Map, error) {
	var rows [][]Tile
	for i, line := range strings.Split(section, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]Tile, len(fields))
		for j, cell := range fields {
			tile, err := parseCell(cell)
			if err != nil {
				return nil, malformed("map line %d column %d: %v", i+1, j+1, err)
			}
			row[j] = tile
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, malformed("map line %d has %d cells, expected %d", i+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, malformed("empty map")
	}

	m := &Map{Rows: len(rows), Cols: len(rows[0]), tiles: rows}
	hqs := make(map[int]Position)
	for _, pos := range m.Objectives() {
		obj, _ := m.ObjectiveAt(pos)
		if obj.Kind != HQ {
			continue
		}
		if first, ok := hqs[obj.Owner]; ok {
			return nil, malformed("team %d has HQs at %v and %v", obj.Owner, first, pos)
		}
		hqs[obj.Owner] = pos
	}
	return m, nil
}

func parseCell(cell string) (Tile, error) {
	digits := make([]int, len(cell))
	for i, c := range cell {
		if c < '0' || c > '9' {
			return Tile{}, fmt.Errorf("cell %q is not numeric", cell)
		}
		digits[i] = int(c - '0')
	}
	switch len(digits) {
	case 1:
		t := TerrainType(digits[0])
		if !t.Valid() {
			return Tile{}, fmt.Errorf("unknown terrain code %d", t)
		}
		return terrainTile(t), nil
	case 2:
		owner, kind := digits[0], ObjectiveKind(digits[1])
		if owner > Neutral {
			return Tile{}, fmt.Errorf("unknown team %d", owner)
		}
		if !kind.Valid() {
			return Tile{}, fmt.Errorf("unknown objective kind %d", kind)
		}
		if kind == HQ && owner == Neutral {
			return Tile{}, fmt.Errorf("neutral HQ")
		}
		return objectiveTile(owner, kind), nil
	}
	return Tile{}, fmt.Errorf("cell %q must have 1 or 2 digits", cell)
}

func parseUnitSection(section string, m *Map, numPlayers int) ([]UnitPlacement, error) {
	var units []UnitPlacement
	occupied := make(map[Position]bool)
	for i, line := range strings.Split(section, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, malformed("unit line %d: expected \"<team> <type> <row>,<col>\", got %q", i+1, line)
		}
		team, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, malformed("unit line %d: team %q is not a number", i+1, fields[0])
		}
		if team < 0 || team >= numPlayers {
			return nil, malformed("unit line %d: team %d of %d", i+1, team, numPlayers)
		}
		code, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, malformed("unit line %d: unit type %q is not a number", i+1, fields[1])
		}
		t := UnitType(code)
		if !t.Valid() {
			return nil, malformed("unit line %d: unknown unit type %d", i+1, code)
		}
		pos, err := parseCoordinate(fields[2])
		if err != nil {
			return nil, malformed("unit line %d: %v", i+1, err)
		}
		if !m.InBounds(pos) {
			return nil, malformed("unit line %d: %v is outside the %dx%d map", i+1, pos, m.Rows, m.Cols)
		}
		if occupied[pos] {
			return nil, malformed("unit line %d: %v already holds a unit", i+1, pos)
		}
		occupied[pos] = true
		units = append(units, UnitPlacement{Team: team, Type: t, Pos: pos})
	}
	return units, nil
}

func parseCoordinate(s string) (Position, error) {
	row, col, ok := strings.Cut(s, ",")
	if !ok {
		return Position{}, fmt.Errorf("coordinate %q is not <row>,<col>", s)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return Position{}, fmt.Errorf("coordinate %q has a non-numeric row", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return Position{}, fmt.Errorf("coordinate %q has a non-numeric column", s)
	}
	return Position{r, c}, nil
}

// Format renders the scenario in the editor's save format.
func (s *Scenario) Format() string {
	rows := make([]string, s.Map.Rows)
	for r := range rows {
		var sb strings.Builder
		for c := 0; c < s.Map.Cols; c++ {
			tile := s.Map.tiles[r][c]
			if tile.Objective != nil {
				fmt.Fprintf(&sb, "%d%d ", tile.Objective.Owner, int(tile.Objective.Kind))
			} else {
				fmt.Fprintf(&sb, "%d  ", int(tile.Terrain))
			}
		}
		rows[r] = sb.String()
	}

	units := make([]string, len(s.Units))
	for i, u := range s.Units {
		units[i] = fmt.Sprintf("%d %d %d,%d", u.Team, int(u.Type), u.Pos.Row, u.Pos.Col)
	}

	return fmt.Sprintf("%s\n*\n%d\n*\n%d\n*\n%s",
		strings.Join(rows, "\n"), s.NumPlayers, s.Funds, strings.Join(units, "\n"))
}

func (s *Scenario) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.Format())
	return int64(n), err
}

func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	s, err := ParseScenario(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", path, err)
	}
	return s, nil
}

func (s *Scenario) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(s.Format()), 0o644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

// Scenario captures the battle's current map, units and settings in save
// form. Funds are the battle's starting funds.
func (b *Battle) Scenario() *Scenario {
	s := &Scenario{Map: b.m.Clone(), NumPlayers: b.numPlayers, Funds: b.initialFunds}
	for _, u := range b.Units() {
		s.Units = append(s.Units, UnitPlacement{Team: u.Team, Type: u.Type, Pos: u.Pos})
	}
	return s
}

func sortPlacements(units []UnitPlacement) {
	sort.SliceStable(units, func(i, j int) bool { return units[i].Pos.Less(units[j].Pos) })
}
