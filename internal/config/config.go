// internal/config/config.go
//
// Environment-driven configuration. main loads .env first (godotenv), then
// Load parses the process environment into Config.

package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/brailledle/internal/game"
	"github.com/robalobadob/brailledle/internal/symbols"
)

// Config is every tunable setting of the server.
type Config struct {
	Port         string `env:"PORT"          envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	Target        string `env:"TARGET"         envDefault:"a6ect"`
	WordLength    int    `env:"WORD_LENGTH"    envDefault:"5"`
	MaxGuesses    int    `env:"MAX_GUESSES"    envDefault:"6"`
	NormalizeCase bool   `env:"NORMALIZE_CASE" envDefault:"false"`
	ScoringPolicy string `env:"SCORING_POLICY" envDefault:"strict"`
	Placeholder   string `env:"PLACEHOLDER"    envDefault:"·"`

	SymbolsFile      string `env:"SYMBOLS_FILE"`
	SymbolsURL       string `env:"SYMBOLS_URL"`
	SymbolsBijective bool   `env:"SYMBOLS_BIJECTIVE" envDefault:"true"`

	// DBPath enables the results journal when set.
	DBPath string `env:"DB_PATH"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that do not need the symbol map.
func (c Config) Validate() error {
	var errs []error
	if c.WordLength <= 0 {
		errs = append(errs, fmt.Errorf("WORD_LENGTH must be positive, got %d", c.WordLength))
	}
	if n := utf8.RuneCountInString(c.Target); n != c.WordLength {
		errs = append(errs, fmt.Errorf("TARGET %q has %d characters, WORD_LENGTH is %d", c.Target, n, c.WordLength))
	}
	if c.MaxGuesses <= 0 {
		errs = append(errs, fmt.Errorf("MAX_GUESSES must be positive, got %d", c.MaxGuesses))
	}
	if _, err := game.ParsePolicy(c.ScoringPolicy); err != nil {
		errs = append(errs, fmt.Errorf("SCORING_POLICY: %w", err))
	}
	if utf8.RuneCountInString(c.Placeholder) != 1 {
		errs = append(errs, fmt.Errorf("PLACEHOLDER must be a single character, got %q", c.Placeholder))
	}
	if c.SymbolsFile != "" && c.SymbolsURL != "" {
		errs = append(errs, errors.New("set at most one of SYMBOLS_FILE and SYMBOLS_URL"))
	}
	return errors.Join(errs...)
}

// GameOptions converts the settings into session options.
func (c Config) GameOptions() game.Options {
	policy, _ := game.ParsePolicy(c.ScoringPolicy)
	ph, _ := utf8.DecodeRuneInString(c.Placeholder)
	return game.Options{
		MaxTurns:      c.MaxGuesses,
		NormalizeCase: c.NormalizeCase,
		Policy:        policy,
		Placeholder:   ph,
	}
}

// SymbolOptions converts the settings into map load options.
func (c Config) SymbolOptions() symbols.Options {
	return symbols.Options{Bijective: c.SymbolsBijective}
}

// SymbolSource names where the map comes from, for logs.
func (c Config) SymbolSource() string {
	switch {
	case c.SymbolsURL != "":
		return c.SymbolsURL
	case c.SymbolsFile != "":
		return c.SymbolsFile
	}
	return "embedded"
}
