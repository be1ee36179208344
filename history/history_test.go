package history

import (
	"path/filepath"
	"strings"
	"testing"
	"wars/game"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBattle(t *testing.T, rec *Recorder) *game.Battle {
	t.Helper()
	m := game.NewBlankMap(2, 3)
	require.NoError(t, m.SetObjective(game.Position{Row: 0, Col: 0}, 0, game.HQ))
	require.NoError(t, m.SetObjective(game.Position{Row: 0, Col: 2}, 1, game.HQ))
	b, err := game.NewBattle(m, 2, 0, []game.UnitPlacement{
		{Team: 0, Type: game.Infantry, Pos: game.Position{Row: 1, Col: 0}},
	}, game.WithSeed(1), game.WithFirstTeam(0), game.WithObserver(rec))
	require.NoError(t, err)
	return b
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	b := newBattle(t, rec)
	require.NoError(t, b.BeginTurn())
	require.NoError(t, b.Select(game.Position{Row: 1, Col: 0}))
	require.NoError(t, b.MoveTo(game.Position{Row: 1, Col: 1}))

	events := rec.Events()
	require.Len(t, events, 2)
	require.Equal(t, "TurnBegan", events[0].Kind)
	require.Equal(t, 1000, events[0].Amount, "income for the HQ")
	require.Empty(t, events[0].UnitType)
	require.Equal(t, EventRecord{
		Seq: 2, Kind: "UnitMoved", Turn: 1, Team: 0, UnitID: 1, UnitType: "Infantry",
		FromRow: 1, FromCol: 0, ToRow: 1, ToCol: 1,
	}, events[1])

	match := rec.Match("duel", b, []string{"human", "greedy"})
	require.Equal(t, "unfinished", match.Reason)
	require.Equal(t, -1, match.Winner)
	require.Equal(t, "human,greedy", match.Agents)
	require.Equal(t, b.Scenario().Format(), match.FinalSave)
	require.Len(t, match.Events, 2)
}

func TestStore(t *testing.T) {
	for name, path := range map[string]string{
		"memory": "",
		"file":   filepath.Join(t.TempDir(), "wars.db"),
	} {
		t.Run(name, func(t *testing.T) {
			store, err := Open(path)
			require.NoError(t, err)
			defer store.Close()

			rec := NewRecorder()
			b := newBattle(t, rec)
			require.NoError(t, b.BeginTurn())
			require.NoError(t, b.EliminateTeam(1))

			first := rec.Match("first", b, nil)
			first.Intents = 1
			require.NoError(t, store.SaveMatch(first))
			require.NotZero(t, first.ID)
			second := &MatchRecord{Name: "second", Players: 2, Winner: -1}
			require.NoError(t, store.SaveMatch(second))

			matches, err := store.Matches(0)
			require.NoError(t, err)
			require.Len(t, matches, 2)
			require.Equal(t, "second", matches[0].Name, "newest first")
			require.Equal(t, "victory", matches[1].Reason)
			require.Equal(t, 0, matches[1].Winner)
			require.True(t, strings.HasPrefix(matches[1].FinalSave, "00 "))

			limited, err := store.Matches(1)
			require.NoError(t, err)
			require.Len(t, limited, 1)

			events, err := store.Events(first.ID)
			require.NoError(t, err)
			require.Equal(t, []string{"TurnBegan", "TeamEliminated", "GameOver"}, kinds(events))
			for i, e := range events {
				require.Equal(t, i+1, e.Seq)
				require.Equal(t, first.ID, e.MatchID)
			}

			loaded, err := store.Match(first.ID)
			require.NoError(t, err)
			require.Equal(t, 1, loaded.Intents)

			require.NoError(t, store.DeleteMatch(first.ID))
			events, err = store.Events(first.ID)
			require.NoError(t, err)
			require.Empty(t, events)
			require.ErrorIs(t, store.DeleteMatch(first.ID), gorm.ErrRecordNotFound)
			_, err = store.Match(first.ID)
			require.Error(t, err)
		})
	}
}

func TestStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wars.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveMatch(&MatchRecord{Name: "kept", Winner: 1}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	matches, err := store.Matches(10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "kept", matches[0].Name)
}

func kinds(events []EventRecord) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}
