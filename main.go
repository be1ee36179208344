package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"wars/config"
	"wars/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configDir string
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wars",
		Short: "Turn-based tactics battles on grid maps",
		Long: `Loads maps written by the map editor, plays them hot-seat or over the
network, pits computer agents against each other and keeps a history of
finished matches.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding "+config.FileName)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(
		validateCmd(),
		inspectCmd(),
		newMapCmd(),
		simulateCmd(),
		benchCmd(),
		serveCmd(),
		playCmd(),
		joinCmd(),
		historyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(*cobra.Command, []string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(config.LogLevel())
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return nil
}

// loadScenario reads a save file, looking in the maps directory when the
// path does not exist as given.
func loadScenario(path string) (*game.Scenario, error) {
	if _, err := os.Stat(path); err != nil && !filepath.IsAbs(path) {
		candidate := filepath.Join(config.GetMapsDir(), path)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	return game.LoadScenarioFile(path)
}

// battleOptions turns the battle config into battle options.
func battleOptions(cfg config.BattleConfig) ([]game.Option, error) {
	opts := []game.Option{game.WithSeed(cfg.Seed)}
	if cfg.RulesFile == "" {
		return opts, nil
	}
	rules, err := loadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return append(opts, game.WithRules(rules)), nil
}

func loadRules(path string) (*game.StandardRules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rules: %w", err)
	}
	defer f.Close()
	rules, err := game.LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load rules %s: %w", path, err)
	}
	return rules, nil
}
