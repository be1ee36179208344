package gamemaster

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"wars/agent"
	"wars/game"
	"wars/history"

	"github.com/stretchr/testify/require"
)

// duel: Red infantry next to Blue's HQ, Blue has a factory and no units.
const duel = "00 1  10 \n1  1  12 \n*\n2\n*\n0\n*\n0 1 0,1"

func scenario(t *testing.T) *game.Scenario {
	t.Helper()
	s, err := game.ParseScenario(strings.NewReader(duel))
	require.NoError(t, err)
	return s
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithBattleOptions(game.WithSeed(1), game.WithFirstTeam(0))}, opts...)
	s, err := NewSession(scenario(t), opts...)
	require.NoError(t, err)
	return s
}

var (
	infantry = game.Position{Row: 0, Col: 1}
	blueHQ   = game.Position{Row: 0, Col: 2}
)

// captureBlueHQ takes Blue's HQ over two of Red's turns.
var captureBlueHQ = []game.Intent{
	{Kind: game.SelectIntent, Pos: infantry},
	{Kind: game.MoveToIntent, Pos: blueHQ},
	{Kind: game.ChooseActionIntent, Action: game.CaptureAction},
	{Kind: game.EndTurnIntent},
	{Kind: game.EndTurnIntent},
	{Kind: game.SelectIntent, Pos: blueHQ},
	{Kind: game.MoveToIntent, Pos: blueHQ},
	{Kind: game.ChooseActionIntent, Action: game.CaptureAction},
}

func TestSessionInit(t *testing.T) {
	s := newSession(t)
	snap := s.Snapshot()
	require.Equal(t, "Idle", snap.Phase)
	require.Equal(t, 0, snap.ActiveTeam)
	require.Equal(t, 1, snap.Turn)
	require.Len(t, snap.Units, 1)
	require.False(t, s.GameOver())

	select {
	case u := <-s.Updates():
		t.Fatalf("expected no update yet, got %v", u.Intent)
	default:
	}

	paused := newSession(t, WithoutBeginTurn())
	require.Equal(t, "Setup", paused.Snapshot().Phase)
	require.NoError(t, paused.Play(game.Intent{Kind: game.BeginTurnIntent}))
}

func TestSessionPlay(t *testing.T) {
	t.Run("valid intent", func(t *testing.T) {
		s := newSession(t)
		updates := s.Updates()
		require.NoError(t, s.Play(game.Intent{Kind: game.SelectIntent, Pos: infantry}))

		u := <-updates
		require.Equal(t, game.SelectIntent, u.Intent.Kind)
		require.Equal(t, "Selected", u.Snapshot.Phase)
		require.Equal(t, u.Snapshot.Hash, u.Hash)
		require.Contains(t, u.Snapshot.MovementRange, blueHQ)
	})

	t.Run("illegal intent", func(t *testing.T) {
		s := newSession(t)
		before := s.Snapshot()
		err := s.Play(game.Intent{Kind: game.ConfirmAttackIntent})
		require.ErrorIs(t, err, game.ErrIllegalIntent)
		require.Equal(t, before.Hash, s.Snapshot().Hash)
		require.Empty(t, s.Updates())
	})

	t.Run("game over", func(t *testing.T) {
		s := newSession(t)
		updates := s.Updates()
		for _, i := range captureBlueHQ {
			require.NoError(t, s.Play(i), "%v", i)
		}
		require.True(t, s.GameOver())

		var last Update
		count := 0
		for u := range updates {
			last = u
			count++
		}
		require.Equal(t, len(captureBlueHQ), count, "channel closes after the final update")
		require.True(t, last.Snapshot.GameOver)
		require.Equal(t, 0, last.Snapshot.Winner)

		err := s.Play(game.Intent{Kind: game.EndTurnIntent})
		require.Error(t, err)
		require.Equal(t, "game is over - no moves allowed", err.Error())

		late, _ := s.Subscribe()
		_, ok := <-late
		require.False(t, ok, "subscribing after the end yields a closed channel")
	})
}

func TestSessionSerialisesPlayers(t *testing.T) {
	s := newSession(t)
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Play(game.Intent{Kind: game.SelectIntent, Pos: infantry}) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, accepted, "only the first select finds the battle idle")
	require.Equal(t, "Selected", s.Snapshot().Phase)
}

func TestSessionSave(t *testing.T) {
	s := newSession(t)
	require.Equal(t, duel, s.Save())
	require.NoError(t, s.Play(game.Intent{Kind: game.SelectIntent, Pos: infantry}))
	require.NoError(t, s.Play(game.Intent{Kind: game.MoveToIntent, Pos: game.Position{Row: 1, Col: 1}}))
	require.NoError(t, s.Play(game.Intent{Kind: game.ChooseActionIntent, Action: game.WaitAction}))
	require.True(t, strings.HasSuffix(s.Save(), "0 1 1,1"))
}

func TestSessionHistory(t *testing.T) {
	store, err := history.Open("")
	require.NoError(t, err)
	defer store.Close()

	s := newSession(t, WithHistory(store, "duel"), WithAgents("human", "human"))
	for _, i := range captureBlueHQ {
		require.NoError(t, s.Play(i))
	}
	s.Close()

	matches, err := store.Matches(0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "duel", matches[0].Name)
	require.Equal(t, 0, matches[0].Winner)
	require.Equal(t, len(captureBlueHQ), matches[0].Intents)
	require.Equal(t, "human,human", matches[0].Agents)

	unfinished := newSession(t, WithHistory(store, "abandoned"))
	unfinished.Close()
	unfinished.Close()
	matches, err = store.Matches(0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "unfinished", matches[0].Reason)
}

func TestGameMaster(t *testing.T) {
	t.Run("computer plays its turns", func(t *testing.T) {
		s := newSession(t)
		blue, err := agent.New("random", 1)
		require.NoError(t, err)
		gm := NewGameMaster(s, map[int]agent.Agent{1: blue})

		played, err := gm.Step()
		require.NoError(t, err)
		require.Zero(t, played, "red is a player")

		require.NoError(t, s.Play(game.Intent{Kind: game.EndTurnIntent}))
		played, err = gm.Step()
		require.NoError(t, err)
		require.Positive(t, played)
		require.Equal(t, 0, s.Snapshot().ActiveTeam, "blue handed the turn back")
	})

	t.Run("run until the game ends", func(t *testing.T) {
		s := newSession(t)
		blue, err := agent.New("greedy", 1)
		require.NoError(t, err)
		gm := NewGameMaster(s, map[int]agent.Agent{1: blue})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- gm.Run(ctx) }()

		for !s.GameOver() {
			snap := s.Snapshot()
			if snap.ActiveTeam != 0 {
				time.Sleep(time.Millisecond)
				continue
			}
			if err := s.Play(redMove(snap)); err != nil && !errors.Is(err, ErrSessionOver) {
				require.ErrorIs(t, err, game.ErrIllegalIntent)
			}
		}
		require.NoError(t, <-done)
	})
}

// redMove walks Red's infantry onto Blue's HQ and keeps capturing.
func redMove(snap game.Snapshot) game.Intent {
	switch snap.Phase {
	case "Selected":
		return game.Intent{Kind: game.MoveToIntent, Pos: blueHQ}
	case "AwaitingAction":
		for _, a := range snap.Actions {
			if a == game.CaptureAction {
				return game.Intent{Kind: game.ChooseActionIntent, Action: a}
			}
		}
		return game.Intent{Kind: game.ChooseActionIntent, Action: game.WaitAction}
	}
	for _, u := range snap.Units {
		if u.Team == 0 && !u.HasMoved {
			return game.Intent{Kind: game.SelectIntent, Pos: u.Pos}
		}
	}
	return game.Intent{Kind: game.EndTurnIntent}
}
