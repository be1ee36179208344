package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"wars/meta"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// FileName is looked up in the config directory.
const FileName = "wars.cfg.json"

// BattleConfig holds settings for newly created battles.
type BattleConfig struct {
	Seed      uint64 `json:"seed" mapstructure:"seed"`
	MaxTurns  int    `json:"maxTurns" mapstructure:"maxTurns"`
	RulesFile string `json:"rulesFile" mapstructure:"rulesFile"`
}

type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

type ExperimentsConfig struct {
	Games     int    `json:"games" mapstructure:"games"`
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
}

// Load reads configuration from the JSON file in configDir, if present, and
// sets default values. WARS_* environment variables override both, with
// dots in keys written as underscores.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("mapsDir", "maps")

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "wars.db")

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("battle.seed", 0)
	viper.SetDefault("battle.maxTurns", meta.MAX_TURNS)
	viper.SetDefault("battle.rulesFile", "")

	viper.SetDefault("experiments.games", meta.GAMES)
	viper.SetDefault("experiments.outputDir", "experiments")

	viper.SetEnvPrefix("wars")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetBattleConfig returns the battle settings. A zero seed draws one from
// the clock.
func GetBattleConfig() BattleConfig {
	cfg := BattleConfig{
		Seed:      viper.GetUint64("battle.seed"),
		MaxTurns:  viper.GetInt("battle.maxTurns"),
		RulesFile: viper.GetString("battle.rulesFile"),
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = meta.MAX_TURNS
	}
	return cfg
}

func GetServerConfig() ServerConfig {
	return ServerConfig{Addr: viper.GetString("server.addr")}
}

func GetHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Enabled: viper.GetBool("history.enabled"),
		Path:    viper.GetString("history.path"),
	}
}

func GetExperimentsConfig() ExperimentsConfig {
	cfg := ExperimentsConfig{
		Games:     viper.GetInt("experiments.games"),
		OutputDir: viper.GetString("experiments.outputDir"),
	}
	if cfg.Games <= 0 {
		cfg.Games = meta.GAMES
	}
	return cfg
}

func GetMapsDir() string {
	return viper.GetString("mapsDir")
}

// LogLevel parses logLevel, falling back to info.
func LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
