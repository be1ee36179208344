package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"wars/agent"
	"wars/config"
	"wars/experiments"
	"wars/experiments/metrics"
	"wars/history"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func simulateCmd() *cobra.Command {
	var (
		agents  string
		games   int
		swap    bool
		noFiles bool
	)
	cmd := &cobra.Command{
		Use:   "simulate <map>",
		Short: "Play computer agents against each other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			names, err := agentNames(agents)
			if err != nil {
				return err
			}
			if len(names) != s.NumPlayers {
				return fmt.Errorf("%s has %d teams but %d agents were given", args[0], s.NumPlayers, len(names))
			}

			battleCfg := config.GetBattleConfig()
			expCfg := config.GetExperimentsConfig()
			if games <= 0 {
				games = expCfg.Games
			}

			matchup := make([]metrics.AgentConfig, len(names))
			for team, name := range names {
				matchup[team] = metrics.AgentConfig{ID: team + 1, Name: name, Seed: battleCfg.Seed + uint64(team)}
			}
			matchUps := [][]metrics.AgentConfig{matchup}
			if swap {
				matchUps = append(matchUps, reversed(matchup))
			}

			opts := []experiments.Option{
				experiments.WithSeed(battleCfg.Seed),
				experiments.WithMaxTurns(battleCfg.MaxTurns),
			}
			if !noFiles {
				opts = append(opts, experiments.WithOutputDir(expCfg.OutputDir))
			}
			if battleCfg.RulesFile != "" {
				rules, err := loadRules(battleCfg.RulesFile)
				if err != nil {
					return err
				}
				opts = append(opts, experiments.WithRules(rules))
			}
			store, err := openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, experiments.WithHistory(store))
			}

			summary, err := experiments.Run("simulate", s, matchUps, games, opts...)
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Agent", "Name", "Wins"}),
			)
			for _, c := range matchup {
				table.Append([]string{
					strconv.Itoa(c.ID),
					c.Name,
					strconv.Itoa(summary.Wins[c.ID]),
				})
			}
			table.Append([]string{"-", "unfinished", strconv.Itoa(summary.Unfinished)})
			table.Render()
			if summary.Dir != "" {
				color.Cyan("results written to %s", summary.Dir)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&agents, "agents", "a", "greedy,random", "comma separated agent per team: "+strings.Join(agent.Names, ", "))
	cmd.Flags().IntVarP(&games, "games", "n", 0, "games per matchup (default from config)")
	cmd.Flags().BoolVar(&swap, "swap", false, "also play with the team order reversed")
	cmd.Flags().BoolVar(&noFiles, "no-files", false, "skip the CSV results")
	return cmd
}

func benchCmd() *cobra.Command {
	var (
		agents string
		games  int
	)
	cmd := &cobra.Command{
		Use:   "bench <map>",
		Short: "Measure how fast each agent plays against itself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			names, err := agentNames(agents)
			if err != nil {
				return err
			}
			battleCfg := config.GetBattleConfig()
			results, err := experiments.RunThroughputExperiment(s, names, games,
				experiments.WithSeed(battleCfg.Seed),
				experiments.WithMaxTurns(battleCfg.MaxTurns),
				experiments.WithOutputDir(config.GetExperimentsConfig().OutputDir),
			)
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Agent", "Games", "Intents", "Duration", "Intents/s"}),
			)
			for _, r := range results {
				table.Append([]string{
					r.Agent,
					strconv.Itoa(r.Games),
					strconv.Itoa(r.Intents),
					r.Duration.String(),
					fmt.Sprintf("%.0f", r.IntentsPerSecond),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&agents, "agents", "a", strings.Join(agent.Names, ","), "comma separated agents to measure")
	cmd.Flags().IntVarP(&games, "games", "n", 3, "games per agent")
	return cmd
}

func agentNames(list string) ([]string, error) {
	var names []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if !slices.Contains(agent.Names, name) {
			return nil, fmt.Errorf("unknown agent %q, choose from %s", name, strings.Join(agent.Names, ", "))
		}
		names = append(names, name)
	}
	return names, nil
}

func reversed(matchup []metrics.AgentConfig) []metrics.AgentConfig {
	r := slices.Clone(matchup)
	slices.Reverse(r)
	return r
}

// openHistory opens the match store, or returns nil when history is off.
func openHistory() (*history.Store, error) {
	cfg := config.GetHistoryConfig()
	if !cfg.Enabled {
		return nil, nil
	}
	return history.Open(cfg.Path)
}
