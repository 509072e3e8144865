// Package config reads match settings from an optional battlefield.yaml,
// BATTLEFIELD_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
)

const (
	configName = "battlefield"
	envPrefix  = "BATTLEFIELD"
)

// Settings is the resolved configuration of a frontend run.
type Settings struct {
	Level     string   `mapstructure:"level"`
	ChaosMode bool     `mapstructure:"chaosMode"`
	Seed      int64    `mapstructure:"seed"` // 0 lets the frontend pick one
	HumanTeam string   `mapstructure:"humanTeam"`
	AITeams   []string `mapstructure:"aiTeams"`
	LogLevel  string   `mapstructure:"logLevel"`
	LogFormat string   `mapstructure:"logFormat"` // console or json
	SaveApp   string   `mapstructure:"saveApp"`
	FrameMs   int64    `mapstructure:"frameMs"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("level", "battlefield")
	v.SetDefault("chaosMode", false)
	v.SetDefault("seed", 0)
	v.SetDefault("humanTeam", "blue")
	v.SetDefault("aiTeams", []string{"red"})
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")
	v.SetDefault("saveApp", "battlefield_first_edition")
	v.SetDefault("frameMs", 16)
}

// Load resolves settings. configDir may hold a battlefield.yaml; a missing
// file is not an error.
func Load(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if s.FrameMs <= 0 {
		return Settings{}, fmt.Errorf("frameMs must be positive, got %d", s.FrameMs)
	}
	return s, nil
}

// GameConfig converts the settings into the engine's match configuration.
func (s Settings) GameConfig() (game.Config, error) {
	human, err := game.ParseTeam(s.HumanTeam)
	if err != nil {
		return game.Config{}, fmt.Errorf("humanTeam: %w", err)
	}
	cfg := game.Config{
		ChaosMode: s.ChaosMode,
		Seed:      s.Seed,
		HumanTeam: human,
	}
	for _, name := range s.AITeams {
		t, err := game.ParseTeam(name)
		if err != nil {
			return game.Config{}, fmt.Errorf("aiTeams: %w", err)
		}
		if t == game.TeamNone {
			continue
		}
		if t == human {
			return game.Config{}, fmt.Errorf("aiTeams: %s is already human-controlled", t)
		}
		cfg.AITeams = append(cfg.AITeams, t)
	}
	return cfg, nil
}
