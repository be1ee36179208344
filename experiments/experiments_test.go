package experiments

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"wars/experiments/metrics"
	"wars/game"
	"wars/history"

	"github.com/stretchr/testify/require"
)

const skirmish = "00 1  1  1  41 \n1  1  5  1  12 \n02 1  1  1  10 \n*\n2\n*\n1000\n*\n0 1 0,1\n1 1 2,3"

func scenario(t *testing.T) *game.Scenario {
	t.Helper()
	s, err := game.ParseScenario(strings.NewReader(skirmish))
	require.NoError(t, err)
	return s
}

var (
	random = metrics.AgentConfig{ID: 1, Name: "random", Seed: 10}
	greedy = metrics.AgentConfig{ID: 2, Name: "greedy", Seed: 20}
)

func TestRun(t *testing.T) {
	s := scenario(t)
	dir := t.TempDir()
	store, err := history.Open("")
	require.NoError(t, err)
	defer store.Close()

	matchUps := [][]metrics.AgentConfig{{random, greedy}, {greedy, greedy}}
	summary, err := Run("smoke", s, matchUps, 2, WithOutputDir(dir), WithMaxTurns(12), WithSeed(5), WithHistory(store))
	require.NoError(t, err)

	require.Len(t, summary.GameRecords, 4)
	wins := summary.Unfinished
	for _, n := range summary.Wins {
		wins += n
	}
	require.Equal(t, 4, wins, "every game is won or unfinished")

	for i, record := range summary.GameRecords {
		require.Equal(t, i+1, record.ID)
		require.Len(t, record.Agents, 2)
		require.LessOrEqual(t, record.Turns, 13)
		intents := 0
		for _, tr := range summary.TurnRecords {
			if tr.Game == record.ID {
				intents += tr.Intents
			}
		}
		require.Equal(t, record.TotalIntents, intents, "game %d", record.ID)
	}
	require.Equal(t, []int{1, 2}, summary.GameRecords[0].Agents)
	require.Equal(t, []int{2, 2}, summary.GameRecords[3].Agents)

	require.Equal(t, filepath.Join(dir, "smoke"), filepath.Dir(summary.Dir))
	for _, name := range []string{"agent_configs.csv", "game_records.csv", "turn_records.csv"} {
		_, err := os.Stat(filepath.Join(summary.Dir, name))
		require.NoError(t, err, name)
	}

	matches, err := store.Matches(0)
	require.NoError(t, err)
	require.Len(t, matches, 4)
	require.Equal(t, "smoke #4", matches[0].Name)
	require.Equal(t, "greedy,greedy", matches[0].Agents)
	require.Equal(t, summary.GameRecords[3].TotalIntents, matches[0].Intents)
	events, err := store.Events(matches[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, "TurnBegan", events[0].Kind)
}

func TestRunIsReproducible(t *testing.T) {
	s := scenario(t)
	matchUps := [][]metrics.AgentConfig{{greedy, random}}
	first, err := Run("repro", s, matchUps, 2, WithMaxTurns(10), WithSeed(3))
	require.NoError(t, err)
	second, err := Run("repro", s, matchUps, 2, WithMaxTurns(10), WithSeed(3))
	require.NoError(t, err)
	require.Empty(t, first.Dir, "nothing written without an output dir")

	for i := range first.GameRecords {
		require.Equal(t, first.GameRecords[i].TotalIntents, second.GameRecords[i].TotalIntents)
		require.Equal(t, first.GameRecords[i].Winner, second.GameRecords[i].Winner)
		require.Equal(t, first.GameRecords[i].StartingTeam, second.GameRecords[i].StartingTeam)
	}
}

func TestRunRejectsBadMatchups(t *testing.T) {
	s := scenario(t)
	_, err := Run("bad", s, [][]metrics.AgentConfig{{random}}, 1)
	require.Error(t, err)

	_, err = Run("bad", s, [][]metrics.AgentConfig{{random, {ID: 9, Name: "oracle"}}}, 1)
	require.Error(t, err)
}

func TestRunThroughputExperiment(t *testing.T) {
	results, err := RunThroughputExperiment(scenario(t), []string{"random", "greedy"}, 1, WithMaxTurns(6))
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, 1, r.Games, r.Agent)
		require.Positive(t, r.Intents, r.Agent)
	}
	require.Equal(t, "random", results[0].Agent)
}
