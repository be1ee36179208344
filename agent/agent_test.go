package agent

import (
	"testing"
	"wars/game"
	"wars/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newBattle(t *testing.T, funds int, units []game.UnitPlacement) *game.Battle {
	t.Helper()
	m := game.NewBlankMap(6, 6)
	require.NoError(t, m.SetObjective(game.Position{Row: 0, Col: 0}, 0, game.HQ))
	require.NoError(t, m.SetObjective(game.Position{Row: 5, Col: 5}, 1, game.HQ))
	require.NoError(t, m.SetObjective(game.Position{Row: 0, Col: 5}, 0, game.Factory))
	require.NoError(t, m.SetObjective(game.Position{Row: 3, Col: 3}, game.Neutral, game.City))
	b, err := game.NewBattle(m, 2, funds, units, game.WithSeed(7), game.WithFirstTeam(0))
	require.NoError(t, err)
	require.NoError(t, b.BeginTurn())
	return b
}

func apply(t *testing.T, b *game.Battle, intents ...game.Intent) {
	t.Helper()
	for _, i := range intents {
		require.NoError(t, b.Apply(i), "%v", i)
	}
}

func at(r, c int) game.Position { return game.Position{Row: r, Col: c} }

var skirmish = []game.UnitPlacement{
	{Team: 0, Type: game.Infantry, Pos: game.Position{Row: 2, Col: 2}},
	{Team: 0, Type: game.SmTank, Pos: game.Position{Row: 1, Col: 1}},
	{Team: 1, Type: game.Infantry, Pos: game.Position{Row: 2, Col: 4}},
	{Team: 1, Type: game.Artillery, Pos: game.Position{Row: 4, Col: 4}},
}

func TestAgentsPlayLegalIntents(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			a, err := New(name, 3)
			require.NoError(t, err)
			steps := 2000
			if name == "mcts" {
				steps = 30
			}
			b := newBattle(t, 5000, skirmish)
			for step := 0; step < steps && !b.GameOver(); step++ {
				intent := a.FindIntent(b)
				require.NoError(t, b.Apply(intent), "step %d: %v in phase %s", step, intent, b.Phase())
				b.CheckInvariants()
			}
			if name != "mcts" {
				require.Greater(t, b.Turn(), 1, "turns advance")
			}
		})
	}

	_, err := New("oracle", 1)
	require.Error(t, err)
}

func TestRandomAgent(t *testing.T) {
	a := NewRandomAgent(rand.New(rand.NewSource(1)))

	t.Run("avoids retreats", func(t *testing.T) {
		b := newBattle(t, 0, skirmish)
		apply(t, b,
			game.Intent{Kind: game.SelectIntent, Pos: at(2, 2)},
			game.Intent{Kind: game.MoveToIntent, Pos: at(2, 3)},
			game.Intent{Kind: game.ChooseActionIntent, Action: game.AttackAction})
		require.Equal(t, game.AttackTargetingPhase, b.Phase())
		for i := 0; i < 100; i++ {
			require.False(t, isRetreat(a.FindIntent(b)))
		}
	})

	t.Run("panics when nothing is legal", func(t *testing.T) {
		b := newBattle(t, 0, skirmish)
		require.NoError(t, b.EliminateTeam(1))
		require.True(t, b.GameOver())
		require.Panics(t, func() { a.FindIntent(b) })
	})
}

func TestGreedyAgent(t *testing.T) {
	t.Run("prefers attacking", func(t *testing.T) {
		a := NewGreedyAgent(rand.New(rand.NewSource(1)))
		b := newBattle(t, 0, skirmish)
		apply(t, b,
			game.Intent{Kind: game.SelectIntent, Pos: at(2, 2)},
			game.Intent{Kind: game.MoveToIntent, Pos: at(2, 3)})
		require.Contains(t, b.AvailableActions(), game.AttackAction)

		attacks := 0
		for i := 0; i < 100; i++ {
			intent := a.FindIntent(b)
			require.Equal(t, game.ChooseActionIntent, intent.Kind)
			if intent.Action == game.AttackAction {
				attacks++
			}
		}
		require.Greater(t, attacks, 50)
	})

	t.Run("moves toward the enemy", func(t *testing.T) {
		b := newBattle(t, 0, skirmish)
		apply(t, b, game.Intent{Kind: game.SelectIntent, Pos: at(1, 1)})
		require.Greater(t, weighMove(b, at(2, 3)), weighMove(b, at(1, 1)))
		require.Greater(t, weighMove(b, at(3, 3)), weighMove(b, at(1, 0)), "neutral city")
	})

	t.Run("capture bonus only for capturing units", func(t *testing.T) {
		b := newBattle(t, 0, skirmish)
		apply(t, b, game.Intent{Kind: game.SelectIntent, Pos: at(2, 2)})
		onCity := weighMove(b, at(3, 3))
		require.Greater(t, onCity, weightStepOnGoal)

		apply(t, b, game.Intent{Kind: game.CancelIntent}, game.Intent{Kind: game.SelectIntent, Pos: at(1, 1)})
		require.Less(t, weighMove(b, at(3, 3)), weightStepOnGoal)
	})

	t.Run("targets the weakest unit", func(t *testing.T) {
		b := newBattle(t, 0, []game.UnitPlacement{
			{Team: 0, Type: game.SmTank, Pos: at(2, 2)},
			{Team: 1, Type: game.Infantry, Pos: at(1, 3)},
			{Team: 1, Type: game.Infantry, Pos: at(3, 3)},
			{Team: 1, Type: game.Infantry, Pos: at(5, 4)},
		})
		b.UnitAt(at(3, 3)).Health = 10
		apply(t, b,
			game.Intent{Kind: game.SelectIntent, Pos: at(2, 2)},
			game.Intent{Kind: game.MoveToIntent, Pos: at(2, 3)},
			game.Intent{Kind: game.ChooseActionIntent, Action: game.AttackAction})
		require.Len(t, b.Targets(), 2)

		for b.CurrentTarget().Pos != at(1, 3) {
			apply(t, b, game.Intent{Kind: game.CycleTargetIntent, Dir: 1})
		}
		require.False(t, isWeakestTarget(b))
		require.Greater(t, weigh(b, game.Intent{Kind: game.CycleTargetIntent, Dir: 1}), weigh(b, game.Intent{Kind: game.ConfirmAttackIntent}))

		apply(t, b, game.Intent{Kind: game.CycleTargetIntent, Dir: 1})
		require.True(t, isWeakestTarget(b))
		require.Equal(t, weightConfirm, weigh(b, game.Intent{Kind: game.ConfirmAttackIntent}))
	})
}

func TestSample(t *testing.T) {
	intents := []game.Intent{
		{Kind: game.EndTurnIntent},
		{Kind: game.CancelIntent},
		{Kind: game.ConfirmAttackIntent},
	}
	require.Equal(t, intents[1], sample(intents, []float64{0, 1, 0}, 0.99))
	require.Equal(t, intents[0], sample(intents, []float64{1, 1, 2}, 0.2))
	require.Equal(t, intents[1], sample(intents, []float64{1, 1, 2}, 0.3))
	require.Equal(t, intents[2], sample(intents, []float64{1, 1, 2}, 0.6))
	require.Equal(t, intents[2], sample(intents, []float64{1, 1, 2}, 1.0), "falls back to the last intent")
}

func TestSearchAgent(t *testing.T) {
	t.Run("finishes off the last enemy unit", func(t *testing.T) {
		b := newBattle(t, 0, []game.UnitPlacement{
			{Team: 0, Type: game.SmTank, Pos: at(2, 2)},
			{Team: 1, Type: game.Infantry, Pos: at(2, 4)},
		})
		b.UnitAt(at(2, 4)).Health = 1
		apply(t, b,
			game.Intent{Kind: game.SelectIntent, Pos: at(2, 2)},
			game.Intent{Kind: game.MoveToIntent, Pos: at(2, 3)},
			game.Intent{Kind: game.ChooseActionIntent, Action: game.AttackAction})

		a := NewSearchAgent(searcher.NewMCTS(2, searcher.WithEpisodes(100), searcher.WithCutoff(10), searcher.WithSeed(1)))
		require.Equal(t, game.Intent{Kind: game.ConfirmAttackIntent}, a.FindIntent(b))
	})

	t.Run("ties go to the first legal intent", func(t *testing.T) {
		legal := []game.Intent{{Kind: game.EndTurnIntent}, {Kind: game.CancelIntent}}
		require.Equal(t, legal[0], findMax(legal, map[game.Intent]float64{legal[0]: 0.5, legal[1]: 0.5}))
		require.Equal(t, legal[1], findMax(legal, map[game.Intent]float64{legal[1]: 0.1}))
		require.Equal(t, legal[0], findMax(legal, nil))
	})
}
