// Package config reads server settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
)

type Config struct {
	Addr           string   `env:"ADDR"            envDefault:":8080"`
	LogLevel       string   `env:"LOG_LEVEL"       envDefault:"info"`
	LogDevelopment bool     `env:"LOG_DEVELOPMENT" envDefault:"false"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	Game GameConfig `envPrefix:"GAME_"`
}

// GameConfig holds the rule overrides applied to every new session.
type GameConfig struct {
	TotalTurns      int  `env:"TOTAL_TURNS"      envDefault:"4"`
	MinPlayers      int  `env:"MIN_PLAYERS"      envDefault:"2"`
	MaxPlayers      int  `env:"MAX_PLAYERS"      envDefault:"8"`
	StartingBank    int  `env:"STARTING_BANK"    envDefault:"10000"`
	TotalMedallions int  `env:"TOTAL_MEDALLIONS" envDefault:"10"`
	CycleReset      bool `env:"CYCLE_RESET"      envDefault:"true"`
	AutoAdvance     bool `env:"AUTO_ADVANCE"     envDefault:"false"`
	VoteRounds      int  `env:"VOTE_ROUNDS"      envDefault:"3"`
	// Seed 0 gives every session a fresh random seed.
	Seed uint64 `env:"SEED" envDefault:"0"`
}

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("ADDR must not be empty"))
	}
	g := c.Game
	if g.TotalTurns < 1 {
		err = multierr.Append(err, fmt.Errorf("GAME_TOTAL_TURNS must be at least 1, got %d", g.TotalTurns))
	}
	if g.MinPlayers < 2 {
		err = multierr.Append(err, fmt.Errorf("GAME_MIN_PLAYERS must be at least 2, got %d", g.MinPlayers))
	}
	if g.MaxPlayers < g.MinPlayers {
		err = multierr.Append(err, fmt.Errorf("GAME_MAX_PLAYERS (%d) is below GAME_MIN_PLAYERS (%d)", g.MaxPlayers, g.MinPlayers))
	}
	if g.StartingBank < 0 {
		err = multierr.Append(err, fmt.Errorf("GAME_STARTING_BANK must not be negative, got %d", g.StartingBank))
	}
	if g.TotalMedallions < 0 {
		err = multierr.Append(err, fmt.Errorf("GAME_TOTAL_MEDALLIONS must not be negative, got %d", g.TotalMedallions))
	}
	if g.VoteRounds < 1 {
		err = multierr.Append(err, fmt.Errorf("GAME_VOTE_ROUNDS must be at least 1, got %d", g.VoteRounds))
	}
	return err
}

// Rules maps the game settings onto engine rules. Module tunables keep
// their defaults.
func (c Config) Rules() engine.Rules {
	r := engine.DefaultRules()
	r.TotalTurns = c.Game.TotalTurns
	r.MinPlayers = c.Game.MinPlayers
	r.MaxPlayers = c.Game.MaxPlayers
	r.StartingBank = c.Game.StartingBank
	r.TotalMedallions = c.Game.TotalMedallions
	r.CycleReset = c.Game.CycleReset
	r.AutoAdvance = c.Game.AutoAdvance
	r.VoteRounds = c.Game.VoteRounds
	return r
}
