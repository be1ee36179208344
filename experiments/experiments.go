package experiments

import (
	"fmt"
	"wars/agent"
	"wars/engine"
	"wars/experiments/metrics"
	"wars/game"
	"wars/history"
	"wars/meta"

	"github.com/rs/zerolog/log"
)

type options struct {
	outputDir string
	maxTurns  int
	seed      uint64
	store     *history.Store
	rules     game.Rules
}

type Option func(*options)

// WithOutputDir writes CSV results under dir; without it nothing is written.
func WithOutputDir(dir string) Option {
	return func(o *options) { o.outputDir = dir }
}

func WithMaxTurns(n int) Option {
	return func(o *options) { o.maxTurns = n }
}

// WithSeed sets the base seed; game i of the experiment uses seed+i.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithHistory stores every game as a match.
func WithHistory(store *history.Store) Option {
	return func(o *options) { o.store = store }
}

func WithRules(r game.Rules) Option {
	return func(o *options) { o.rules = r }
}

// Summary is what an experiment produced.
type Summary struct {
	Dir         string // empty unless results were written
	GameRecords []metrics.GameRecord
	TurnRecords []metrics.TurnRecord
	Wins        map[int]int // AgentConfig.ID -> games won
	Unfinished  int
}

// Run plays numGames games of the scenario for every matchup. A matchup
// lists one agent config per team.
func Run(name string, s *game.Scenario, matchUps [][]metrics.AgentConfig, numGames int, opts ...Option) (Summary, error) {
	o := options{maxTurns: meta.MAX_TURNS, seed: 1}
	for _, opt := range opts {
		opt(&o)
	}
	summary := Summary{Wins: map[int]int{}}

	var configs []metrics.AgentConfig
	seen := map[int]bool{}
	for _, matchup := range matchUps {
		if len(matchup) != s.NumPlayers {
			return summary, fmt.Errorf("matchup %v has %d agents for %d teams", matchup, len(matchup), s.NumPlayers)
		}
		for _, config := range matchup {
			if !seen[config.ID] {
				seen[config.ID] = true
				configs = append(configs, config)
			}
		}
	}

	log.Info().Msgf("starting %s experiment...", name)

	count := 0
	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d: %v...", mi+1, len(matchUps), matchup)

		for i := 0; i < numGames; i++ {
			count++
			record, turnMetrics, err := runGame(name, s, matchup, count, o)
			if err != nil {
				return summary, err
			}
			summary.GameRecords = append(summary.GameRecords, record)
			for _, tm := range turnMetrics {
				summary.TurnRecords = append(summary.TurnRecords, metrics.TurnRecord{Game: count, TurnMetric: tm})
			}
			if record.Winner >= 0 {
				summary.Wins[matchup[record.Winner].ID]++
			} else {
				summary.Unfinished++
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %d (%s)", mi+1, len(matchUps), i+1, record.Winner, record.Reason)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	if o.outputDir == "" {
		return summary, nil
	}
	writer, err := metrics.NewWriter(o.outputDir, name)
	if err != nil {
		return summary, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	summary.Dir = writer.Dir()
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return summary, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(summary.GameRecords); err != nil {
		return summary, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteTurnRecords(summary.TurnRecords); err != nil {
		return summary, fmt.Errorf("failed to write turn records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return summary, nil
}

// runGame plays one game of a matchup with agents seeded per game.
func runGame(name string, s *game.Scenario, matchup []metrics.AgentConfig, id int, o options) (metrics.GameRecord, []metrics.TurnMetric, error) {
	record := metrics.GameRecord{ID: id}
	agents := make([]agent.Agent, len(matchup))
	names := make([]string, len(matchup))
	for team, config := range matchup {
		a, err := agent.New(config.Name, config.Seed+uint64(id)*uint64(len(matchup))+uint64(team))
		if err != nil {
			return record, nil, err
		}
		agents[team] = a
		names[team] = config.Name
		record.Agents = append(record.Agents, config.ID)
	}

	battleOpts := []game.Option{game.WithSeed(o.seed + uint64(id))}
	if o.rules != nil {
		battleOpts = append(battleOpts, game.WithRules(o.rules))
	}
	var recorder *history.Recorder
	if o.store != nil {
		recorder = history.NewRecorder()
		battleOpts = append(battleOpts, game.WithObserver(recorder))
	}
	b, err := game.NewBattleFromScenario(s, battleOpts...)
	if err != nil {
		return record, nil, err
	}

	e := engine.NewLocalEngine(b, agents, engine.WithMaxTurns(o.maxTurns), engine.WithCollector(metrics.NewCollector()))
	_, gameMetric, turnMetrics := e.Run()
	record.GameMetric = gameMetric

	if recorder != nil {
		match := recorder.Match(fmt.Sprintf("%s #%d", name, id), b, names)
		match.Reason = gameMetric.Reason
		match.Intents = gameMetric.TotalIntents
		if err := o.store.SaveMatch(match); err != nil {
			return record, nil, err
		}
	}
	return record, turnMetrics, nil
}
