// Package config resolves runtime settings from defaults, an optional YAML
// file and PURRSEVERE_* environment variables, in that order. Command-line
// flags are applied on top by the cmd packages.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/purrsevere/internal/game"
)

// Default file names in the working directory.
const (
	DefaultTurnLog = "turn_history.txt"
	DefaultPort    = "9000"
	DefaultAddr    = "localhost:9000"
	DefaultWebPort = 8080
)

// Config holds every setting a purrsevere binary may need.
type Config struct {
	Difficulty  string `yaml:"difficulty" env:"PURRSEVERE_DIFFICULTY"`
	Length      string `yaml:"length" env:"PURRSEVERE_LENGTH"`
	Seed        int64  `yaml:"seed" env:"PURRSEVERE_SEED"`
	PlayerCards string `yaml:"player_cards" env:"PURRSEVERE_PLAYER_CARDS"`
	CatCards    string `yaml:"cat_cards" env:"PURRSEVERE_CAT_CARDS"`
	TurnLog     string `yaml:"turn_log" env:"PURRSEVERE_TURN_LOG"`
	Port        string `yaml:"port" env:"PURRSEVERE_PORT"`
	Addr        string `yaml:"addr" env:"PURRSEVERE_ADDR"`
	WebPort     int    `yaml:"web_port" env:"PURRSEVERE_WEB_PORT"`
	LogLevel    string `yaml:"log_level" env:"PURRSEVERE_LOG_LEVEL"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Difficulty: game.DifficultyEasy.String(),
		Length:     game.LengthShort.String(),
		TurnLog:    DefaultTurnLog,
		Port:       DefaultPort,
		Addr:       DefaultAddr,
		WebPort:    DefaultWebPort,
		LogLevel:   "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables. Fields whose
// variable is unset keep their current value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Rules parses the difficulty and match length.
func (c Config) Rules() (game.Rules, error) {
	d, err := game.ParseDifficulty(strings.ToLower(c.Difficulty))
	if err != nil {
		return game.Rules{}, err
	}
	l, err := game.ParseLength(strings.ToLower(c.Length))
	if err != nil {
		return game.Rules{}, err
	}
	return game.Rules{Difficulty: d, Length: l}, nil
}

// Catalogs loads both card catalogs, falling back to the embedded defaults
// for any path left empty.
func (c Config) Catalogs() (player, cat []*game.Card, err error) {
	player, err = game.LoadCatalogOrDefault(c.PlayerCards, game.PlayerCatalogFile)
	if err != nil {
		return nil, nil, err
	}
	cat, err = game.LoadCatalogOrDefault(c.CatCards, game.CatCatalogFile)
	if err != nil {
		return nil, nil, err
	}
	return player, cat, nil
}

// Validate checks the settings that have no natural zero value.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Rules(); err != nil {
		errs = append(errs, err)
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid web port %d", c.WebPort))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewLogger returns the operator logger: a slog text handler on w at the
// configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
