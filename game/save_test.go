package game

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// editorSave is laid out exactly as the map editor writes it: objective
// cells are "td ", terrain cells are "t  ".
var editorSave = strings.Join([]string{
	"00 1  1  3  ",
	"1  5  6  1  ",
	"2  2  11 12 ",
	"1  1  4  10 ",
}, "\n") + "\n*\n2\n*\n5000\n*\n0 1 0,1\n1 4 3,2"

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(editorSave))
	require.NoError(t, err)

	require.Equal(t, 4, s.Map.Rows)
	require.Equal(t, 4, s.Map.Cols)
	require.Equal(t, 2, s.NumPlayers)
	require.Equal(t, 5000, s.Funds)

	hq, ok := s.Map.ObjectiveAt(Position{0, 0})
	require.True(t, ok)
	require.Equal(t, Objective{Owner: 0, Kind: HQ, Health: ObjectiveBaseHealth}, *hq)
	require.Equal(t, Forest, s.Map.TerrainAt(Position{0, 3}))
	require.Equal(t, River, s.Map.TerrainAt(Position{1, 1}))
	require.Equal(t, Bridge, s.Map.TerrainAt(Position{1, 2}))
	city, _ := s.Map.ObjectiveAt(Position{2, 2})
	require.Equal(t, City, city.Kind)
	require.Equal(t, 1, city.Owner)
	factory, _ := s.Map.ObjectiveAt(Position{2, 3})
	require.Equal(t, Factory, factory.Kind)
	require.Equal(t, Mountain, s.Map.TerrainAt(Position{3, 2}))
	require.Equal(t, 4, s.Map.DefenseAt(Position{2, 3}))
	require.Equal(t, 3, s.Map.DefenseAt(Position{3, 2}))

	require.Equal(t, []UnitPlacement{
		{Team: 0, Type: Infantry, Pos: Position{0, 1}},
		{Team: 1, Type: SmTank, Pos: Position{3, 2}},
	}, s.Units)
}

func TestScenarioRoundTrip(t *testing.T) {
	t.Run("format is bit exact", func(t *testing.T) {
		s, err := ParseScenario(strings.NewReader(editorSave))
		require.NoError(t, err)
		require.Equal(t, editorSave, s.Format())
	})

	t.Run("through a battle", func(t *testing.T) {
		s, err := ParseScenario(strings.NewReader(editorSave))
		require.NoError(t, err)
		b, err := NewBattleFromScenario(s, WithSeed(1))
		require.NoError(t, err)
		require.Equal(t, editorSave, b.Scenario().Format())

		again, err := ParseScenario(strings.NewReader(b.Scenario().Format()))
		require.NoError(t, err)
		require.Equal(t, s.NumPlayers, again.NumPlayers)
		require.Equal(t, s.Funds, again.Funds)
		require.Equal(t, s.Units, again.Units)
		for r := 0; r < s.Map.Rows; r++ {
			for c := 0; c < s.Map.Cols; c++ {
				pos := Position{r, c}
				require.Equal(t, s.Map.TileAt(pos), again.Map.TileAt(pos), "%v", pos)
			}
		}
	})

	t.Run("file", func(t *testing.T) {
		s, err := ParseScenario(strings.NewReader(editorSave))
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "map.txt")
		require.NoError(t, s.WriteFile(path))
		loaded, err := LoadScenarioFile(path)
		require.NoError(t, err)
		require.Equal(t, editorSave, loaded.Format())
	})

	t.Run("unit on impassable terrain", func(t *testing.T) {
		const stranded = "00 0  \n0  11 \n*\n2\n*\n5000\n*\n0 1 0,1\n1 1 1,1"
		s, err := ParseScenario(strings.NewReader(stranded))
		require.NoError(t, err)
		require.Equal(t, stranded, s.Format())
		b, err := NewBattleFromScenario(s, WithRand(lowRand{}), WithFirstTeam(0))
		require.NoError(t, err)
		require.Equal(t, Sea, b.Map().TerrainAt(Position{0, 1}))
		require.NoError(t, b.BeginTurn())

		act(t, b, selectAt(0, 1))
		require.Contains(t, b.MovementRange(), Position{0, 1})
		act(t, b, moveTo(0, 0), choose(WaitAction), endTurn())
		require.Equal(t, 1, b.ActiveTeam())
	})

	t.Run("no units", func(t *testing.T) {
		m := blankMapWithHQs(t, 2, 3, Position{0, 0}, Position{1, 2})
		s := NewScenario(m, 0, nil)
		require.Equal(t, "00 1  1  \n1  1  10 \n*\n2\n*\n0\n*\n", s.Format())

		parsed, err := ParseScenario(strings.NewReader(s.Format()))
		require.NoError(t, err)
		require.Empty(t, parsed.Units)
	})

	t.Run("editor scenario counts HQs and sorts units", func(t *testing.T) {
		m := blankMapWithHQs(t, 3, 3, Position{0, 0}, Position{2, 2}, Position{0, 2})
		s := NewScenario(m, 100, []UnitPlacement{
			{Team: 2, Type: APC, Pos: Position{2, 0}},
			{Team: 0, Type: Infantry, Pos: Position{1, 1}},
		})
		require.Equal(t, 3, s.NumPlayers)
		require.Equal(t, Position{1, 1}, s.Units[0].Pos)
		require.True(t, strings.HasSuffix(s.Format(), "0 1 1,1\n2 3 2,0"))
	})
}

func TestParseScenarioMalformed(t *testing.T) {
	const grid = "00 1  \n1  10 "
	for name, text := range map[string]string{
		"too few sections":       grid + "\n*\n2\n*\n0",
		"too many sections":      grid + "\n*\n2\n*\n0\n*\n\n*\n",
		"player count":           grid + "\n*\ntwo\n*\n0\n*\n",
		"one player":             grid + "\n*\n1\n*\n0\n*\n",
		"funds":                  grid + "\n*\n2\n*\nlots\n*\n",
		"negative funds":         grid + "\n*\n2\n*\n-5\n*\n",
		"non-numeric coordinate": grid + "\n*\n2\n*\n0\n*\n0 1 a,1",
		"missing coordinate":     grid + "\n*\n2\n*\n0\n*\n0 1",
		"unit outside map":       grid + "\n*\n2\n*\n0\n*\n0 1 2,0",
		"unit type":              grid + "\n*\n2\n*\n0\n*\n0 9 0,1",
		"unit team":              grid + "\n*\n2\n*\n0\n*\n3 1 0,1",
		"stacked units":          grid + "\n*\n2\n*\n0\n*\n0 1 0,1\n1 1 0,1",
		"duplicate HQ":           "00 00 \n1  10 \n*\n2\n*\n0\n*\n",
		"neutral HQ":             "00 40 \n1  10 \n*\n2\n*\n0\n*\n",
		"HQ beyond player count": "00 20 \n1  10 \n*\n2\n*\n0\n*\n",
		"terrain code":           "00 8  \n1  10 \n*\n2\n*\n0\n*\n",
		"objective kind":         "00 13 \n1  10 \n*\n2\n*\n0\n*\n",
		"ragged rows":            "00 1  1  \n1  10 \n*\n2\n*\n0\n*\n",
		"three digit cell":       "00 100\n1  10 \n*\n2\n*\n0\n*\n",
		"empty map":              "\n*\n2\n*\n0\n*\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario(strings.NewReader(text))
			require.ErrorIs(t, err, ErrMalformedSave)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScenarioFile(filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
	})

	t.Run("blank unit lines are tolerated", func(t *testing.T) {
		s, err := ParseScenario(strings.NewReader(grid + "\n*\n2\n*\n0\n*\n\n0 1 0,1\n\n"))
		require.NoError(t, err)
		require.Len(t, s.Units, 1)
	})

	t.Run("windows line endings", func(t *testing.T) {
		text := strings.ReplaceAll(editorSave, "\n", "\r\n")
		s, err := ParseScenario(strings.NewReader(text))
		require.NoError(t, err)
		require.Equal(t, editorSave, s.Format())
	})
}
