package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// pathRange explores every path without remembering visited cells, which is
// slow but obviously complete.
func pathRange(b *Battle, u *Unit, pos Position, remaining float64, out map[Position]bool) {
	out[pos] = true
	for _, next := range pos.Neighbors() {
		if !b.m.InBounds(next) {
			continue
		}
		cost, ok := b.rules.MovementCost(u.Type, b.movementTerrain(next))
		if !ok {
			continue
		}
		if occ := b.UnitAt(next); occ != nil && occ.Team != u.Team {
			continue
		}
		if left := remaining - cost; left > 0 {
			pathRange(b, u, next, left, out)
		}
	}
}

func mixedTerrainMap(t *testing.T) *Map {
	t.Helper()
	m := blankMapWithHQs(t, 7, 7, Position{0, 0}, Position{6, 6})
	for _, c := range []struct {
		pos     Position
		terrain TerrainType
	}{
		{Position{1, 3}, Forest},
		{Position{2, 3}, Mountain},
		{Position{3, 1}, Road},
		{Position{3, 2}, Road},
		{Position{4, 3}, River},
		{Position{4, 4}, Bridge},
		{Position{3, 5}, Sea},
		{Position{5, 2}, Forest},
	} {
		require.NoError(t, m.SetTerrain(c.pos, c.terrain))
	}
	require.NoError(t, m.SetObjective(Position{2, 2}, Neutral, City))
	return m
}

func TestComputeMovementRange(t *testing.T) {
	t.Run("plain diamond", func(t *testing.T) {
		b := startedBattle(t, blankMapWithHQs(t, 5, 5, Position{0, 0}, Position{4, 4}), 2, 0,
			[]UnitPlacement{{Team: 0, Type: Infantry, Pos: Position{2, 2}}})
		u := b.UnitAt(Position{2, 2})

		reach := b.ComputeMovementRange(u, u.Pos)
		// budget 4 at cost 1 leaves a positive remainder for up to 3 steps
		for pos := range reach {
			require.LessOrEqual(t, pos.Distance(u.Pos), 3, "%v is too far", pos)
		}
		require.True(t, reach[Position{2, 2}], "origin is always reachable")
		require.True(t, reach[Position{0, 1}])
		require.False(t, reach[Position{0, 0}], "HQ at distance 4")
		require.Len(t, reach, 21)
	})

	t.Run("matches exhaustive path search", func(t *testing.T) {
		for _, ut := range []UnitType{Infantry, RocketInf, SmTank, LgTank, Artillery} {
			for _, origin := range []Position{{3, 3}, {1, 1}, {5, 5}, {0, 6}} {
				b := startedBattle(t, mixedTerrainMap(t), 2, 0, []UnitPlacement{
					{Team: 0, Type: ut, Pos: origin},
					{Team: 1, Type: Infantry, Pos: Position{3, 4}},
					{Team: 0, Type: Infantry, Pos: Position{2, 4}},
				})
				u := b.UnitAt(origin)
				want := make(map[Position]bool)
				pathRange(b, u, origin, b.rules.MovementBudget(ut), want)
				require.Equal(t, want, b.ComputeMovementRange(u, origin), "%s from %v", ut, origin)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		b := startedBattle(t, mixedTerrainMap(t), 2, 0, []UnitPlacement{{Team: 0, Type: SmTank, Pos: Position{3, 3}}})
		u := b.UnitAt(Position{3, 3})
		first := b.ComputeMovementRange(u, u.Pos)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, b.ComputeMovementRange(u, u.Pos))
		}
	})

	t.Run("impassable terrain is never entered", func(t *testing.T) {
		m := blankMapWithHQs(t, 6, 6, Position{0, 0}, Position{5, 5})
		for c := 0; c < 6; c++ {
			require.NoError(t, m.SetTerrain(Position{2, c}, River))
			require.NoError(t, m.SetTerrain(Position{4, c}, Sea))
		}
		b := startedBattle(t, m, 2, 0, []UnitPlacement{
			{Team: 0, Type: APC, Pos: Position{1, 2}},
			{Team: 0, Type: Infantry, Pos: Position{1, 3}},
		})

		for _, u := range b.Units() {
			for pos := range b.ComputeMovementRange(u, u.Pos) {
				_, ok := b.rules.MovementCost(u.Type, b.movementTerrain(pos))
				require.True(t, ok, "%s reached impassable %v", u.Type, pos)
				require.NotEqual(t, 4, pos.Row, "%s crossed the sea", u.Type)
			}
		}

		apcRange := b.ComputeMovementRange(b.UnitAt(Position{1, 2}), Position{1, 2})
		for pos := range apcRange {
			require.Less(t, pos.Row, 2, "vehicles cannot cross a river")
		}
		infRange := b.ComputeMovementRange(b.UnitAt(Position{1, 3}), Position{1, 3})
		require.True(t, infRange[Position{3, 3}], "infantry wades the river")
	})

	t.Run("enemies block and allies do not", func(t *testing.T) {
		m := blankMapWithHQs(t, 3, 6, Position{0, 0}, Position{0, 5})
		for c := 0; c < 6; c++ {
			require.NoError(t, m.SetTerrain(Position{0, c}, Sea))
			require.NoError(t, m.SetTerrain(Position{2, c}, Sea))
		}
		require.NoError(t, m.SetObjective(Position{0, 0}, 0, HQ))
		require.NoError(t, m.SetObjective(Position{0, 5}, 1, HQ))

		b := startedBattle(t, m, 2, 0, []UnitPlacement{
			{Team: 0, Type: Infantry, Pos: Position{1, 0}},
			{Team: 0, Type: Infantry, Pos: Position{1, 1}},
			{Team: 1, Type: Infantry, Pos: Position{1, 3}},
		})

		reach := b.ComputeMovementRange(b.UnitAt(Position{1, 0}), Position{1, 0})
		require.True(t, reach[Position{1, 1}], "allied cell is passable")
		require.True(t, reach[Position{1, 2}], "beyond the ally")
		require.False(t, reach[Position{1, 3}], "enemy cell")
		require.False(t, reach[Position{1, 4}], "behind the enemy")

		act(t, b, selectAt(1, 0))
		err := b.MoveTo(Position{1, 1})
		require.ErrorIs(t, err, ErrIllegalIntent, "allies block final placement")
		act(t, b, moveTo(1, 2))
		require.Equal(t, Position{1, 2}, b.UnitAt(Position{1, 2}).Pos)
		require.Nil(t, b.UnitAt(Position{1, 0}))
	})
}
