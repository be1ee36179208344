package game

import "fmt"

// TerrainType identifies the terrain of a tile. The numeric values are the
// single-digit codes used by the save format.
type TerrainType int

const (
	Sea TerrainType = iota
	Plain
	Road
	Forest
	Mountain
	River
	Bridge
	// ObjectiveTerrain is the movement-cost key shared by every objective tile.
	ObjectiveTerrain
)

// DefaultTerrain is used for blank maps and for tiles cleared in the editor.
const DefaultTerrain = Plain

var terrainNames = map[TerrainType]string{
	Sea:              "Sea",
	Plain:            "Plain",
	Road:             "Road",
	Forest:           "Forest",
	Mountain:         "Mountain",
	River:            "River",
	Bridge:           "Bridge",
	ObjectiveTerrain: "Objective",
}

// defense factor for each terrain type, used in damage calculations
var terrainDefense = map[TerrainType]int{
	Sea:      0,
	Plain:    1,
	Road:     0,
	Forest:   2,
	Mountain: 3,
	River:    0,
	Bridge:   0,
}

func (t TerrainType) String() string {
	if name, ok := terrainNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Terrain(%d)", int(t))
}

// Valid reports whether t is a plain terrain code (objectives excluded).
func (t TerrainType) Valid() bool {
	return t >= Sea && t <= Bridge
}

// ObjectiveKind is the kind of a capturable tile.
type ObjectiveKind int

const (
	HQ ObjectiveKind = iota
	City
	Factory
)

var objectiveNames = []string{"HQ", "City", "Factory"}

var objectiveDefense = map[ObjectiveKind]int{
	HQ:      5,
	City:    4,
	Factory: 4,
}

func (k ObjectiveKind) String() string {
	if k.Valid() {
		return objectiveNames[k]
	}
	return fmt.Sprintf("Objective(%d)", int(k))
}

func (k ObjectiveKind) Valid() bool {
	return k >= HQ && k <= Factory
}

// Neutral is the owner id of objectives that belong to no team.
const Neutral = 4

// ObjectiveBaseHealth is the health of a fresh or restored objective.
const ObjectiveBaseHealth = 20

// Objective is a capturable tile.
type Objective struct {
	Owner  int           `json:"owner"`
	Kind   ObjectiveKind `json:"kind"`
	Health int           `json:"health"`
}

// Tile is either plain terrain or an objective (Objective != nil).
type Tile struct {
	Terrain   TerrainType `json:"terrain"`
	Objective *Objective  `json:"objective,omitempty"`
}

func terrainTile(t TerrainType) Tile {
	return Tile{Terrain: t}
}

func objectiveTile(owner int, kind ObjectiveKind) Tile {
	return Tile{
		Terrain:   ObjectiveTerrain,
		Objective: &Objective{Owner: owner, Kind: kind, Health: ObjectiveBaseHealth},
	}
}

// IsObjective reports whether the tile is capturable.
func (t Tile) IsObjective() bool {
	return t.Objective != nil
}

// Defense returns the environmental defense factor of the tile.
func (t Tile) Defense() int {
	if t.Objective != nil {
		return objectiveDefense[t.Objective.Kind]
	}
	return terrainDefense[t.Terrain]
}

func (t Tile) Name() string {
	if t.Objective != nil {
		return t.Objective.Kind.String()
	}
	return t.Terrain.String()
}

func (t Tile) clone() Tile {
	if t.Objective == nil {
		return t
	}
	obj := *t.Objective
	return Tile{Terrain: t.Terrain, Objective: &obj}
}

// Map is the static grid of tiles. Only objective ownership and health change
// during a battle.
type Map struct {
	Rows  int
	Cols  int
	tiles [][]Tile
}

// NewBlankMap creates a map filled with the default terrain.
func NewBlankMap(rows, cols int) *Map {
	m := &Map{Rows: rows, Cols: cols, tiles: make([][]Tile, rows)}
	for r := range m.tiles {
		m.tiles[r] = make([]Tile, cols)
		for c := range m.tiles[r] {
			m.tiles[r][c] = terrainTile(DefaultTerrain)
		}
	}
	return m
}

// InBounds reports whether pos lies on the map.
func (m *Map) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < m.Rows && pos.Col >= 0 && pos.Col < m.Cols
}

// TileAt returns a copy of the tile at pos.
func (m *Map) TileAt(pos Position) Tile {
	m.mustBeInBounds(pos)
	return m.tiles[pos.Row][pos.Col].clone()
}

func (m *Map) DefenseAt(pos Position) int {
	m.mustBeInBounds(pos)
	return m.tiles[pos.Row][pos.Col].Defense()
}

func (m *Map) TerrainAt(pos Position) TerrainType {
	m.mustBeInBounds(pos)
	return m.tiles[pos.Row][pos.Col].Terrain
}

// ObjectiveAt returns the objective at pos, if there is one. The returned
// pointer aliases map state.
func (m *Map) ObjectiveAt(pos Position) (*Objective, bool) {
	if !m.InBounds(pos) {
		return nil, false
	}
	obj := m.tiles[pos.Row][pos.Col].Objective
	return obj, obj != nil
}

// TransferObjective hands the objective at pos to a new owner with the given
// kind and fresh health.
func (m *Map) TransferObjective(pos Position, owner int, kind ObjectiveKind) {
	if _, ok := m.ObjectiveAt(pos); !ok {
		panic(fmt.Sprintf("no objective at %v", pos))
	}
	m.tiles[pos.Row][pos.Col] = objectiveTile(owner, kind)
}

// DowngradeHQToCity turns the HQ at pos into a City, keeping its owner.
func (m *Map) DowngradeHQToCity(pos Position) {
	obj, ok := m.ObjectiveAt(pos)
	if !ok || obj.Kind != HQ {
		return
	}
	obj.Kind = City
}

// Objectives returns the positions of every objective in row-major order.
func (m *Map) Objectives() []Position {
	var out []Position
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if m.tiles[r][c].Objective != nil {
				out = append(out, Position{r, c})
			}
		}
	}
	return out
}

// HQ returns the position of the team's HQ.
func (m *Map) HQ(team int) (Position, bool) {
	for _, pos := range m.Objectives() {
		obj := m.tiles[pos.Row][pos.Col].Objective
		if obj.Kind == HQ && obj.Owner == team {
			return pos, true
		}
	}
	return Position{}, false
}

// CountHQs is the number of HQ tiles, which is how the editor derives the
// player count.
func (m *Map) CountHQs() int {
	n := 0
	for _, pos := range m.Objectives() {
		if m.tiles[pos.Row][pos.Col].Objective.Kind == HQ {
			n++
		}
	}
	return n
}

// SetTerrain replaces the tile at pos with plain terrain.
func (m *Map) SetTerrain(pos Position, t TerrainType) error {
	if !m.InBounds(pos) {
		return fmt.Errorf("cannot set terrain: %v is off the map", pos)
	}
	if !t.Valid() {
		return fmt.Errorf("cannot set terrain: unknown terrain code %d", t)
	}
	m.tiles[pos.Row][pos.Col] = terrainTile(t)
	return nil
}

// SetObjective places an objective at pos. Placing an HQ clears the team's
// previous HQ back to default terrain.
func (m *Map) SetObjective(pos Position, owner int, kind ObjectiveKind) error {
	if !m.InBounds(pos) {
		return fmt.Errorf("cannot set objective: %v is off the map", pos)
	}
	if owner < 0 || owner > Neutral {
		return fmt.Errorf("cannot set objective: unknown team %d", owner)
	}
	if !kind.Valid() {
		return fmt.Errorf("cannot set objective: unknown kind %d", kind)
	}
	if kind == HQ {
		if owner == Neutral {
			return fmt.Errorf("cannot set objective: neutral HQs are not allowed")
		}
		if old, ok := m.HQ(owner); ok {
			m.tiles[old.Row][old.Col] = terrainTile(DefaultTerrain)
		}
	}
	m.tiles[pos.Row][pos.Col] = objectiveTile(owner, kind)
	return nil
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	out := &Map{Rows: m.Rows, Cols: m.Cols, tiles: make([][]Tile, m.Rows)}
	for r := range m.tiles {
		out.tiles[r] = make([]Tile, m.Cols)
		for c := range m.tiles[r] {
			out.tiles[r][c] = m.tiles[r][c].clone()
		}
	}
	return out
}

func (m *Map) mustBeInBounds(pos Position) {
	if !m.InBounds(pos) {
		panic(fmt.Sprintf("position %v is outside the %dx%d map", pos, m.Rows, m.Cols))
	}
}
