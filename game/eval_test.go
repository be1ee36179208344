package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	m := blankMapWithHQs(t, 6, 6, Position{0, 0}, Position{5, 5})
	b := startedBattle(t, m, 2, 1000, []UnitPlacement{
		{Team: 0, Type: LgTank, Pos: Position{3, 1}},
		{Team: 1, Type: Infantry, Pos: Position{1, 1}},
	})

	for _, eval := range []Evaluate{EvaluateResources, EvaluatePressure} {
		ahead, behind := eval(b, 0), eval(b, 1)
		require.Greater(t, ahead, 0.0)
		require.Less(t, behind, 0.0)
		require.GreaterOrEqual(t, ahead, -1.0)
		require.LessOrEqual(t, ahead, 1.0)
	}

	b.UnitAt(Position{1, 1}).Health = 1
	act(t, b, selectAt(3, 1), moveTo(2, 1), choose(AttackAction), confirm())
	require.True(t, b.GameOver())
	require.Equal(t, 1.0, EvaluateResources(b, 0))
	require.Equal(t, -1.0, EvaluatePressure(b, 1))
}
