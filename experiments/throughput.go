package experiments

import (
	"time"
	"wars/experiments/metrics"
	"wars/game"
)

// Throughput is how fast an agent plays against itself.
type Throughput struct {
	Agent            string
	Games            int
	Intents          int
	Duration         time.Duration
	IntentsPerSecond float64
}

// RunThroughputExperiment plays each agent against copies of itself on the
// scenario and measures intents applied per second.
func RunThroughputExperiment(s *game.Scenario, agentNames []string, numGames int, opts ...Option) ([]Throughput, error) {
	// Same agent for every team
	// for the same playing strength and similar game length
	var matchUps [][]metrics.AgentConfig
	for i, name := range agentNames {
		config := metrics.AgentConfig{ID: i + 1, Name: name, Seed: uint64(i + 1)}
		matchup := make([]metrics.AgentConfig, s.NumPlayers)
		for team := range matchup {
			matchup[team] = config
		}
		matchUps = append(matchUps, matchup)
	}

	summary, err := Run("throughput", s, matchUps, numGames, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]Throughput, len(agentNames))
	for i, name := range agentNames {
		results[i].Agent = name
	}
	for _, record := range summary.GameRecords {
		r := &results[record.Agents[0]-1]
		r.Games++
		r.Intents += record.TotalIntents
		r.Duration += record.Duration
	}
	for i := range results {
		if seconds := results[i].Duration.Seconds(); seconds > 0 {
			results[i].IntentsPerSecond = float64(results[i].Intents) / seconds
		}
	}
	return results, nil
}
