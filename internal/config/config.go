package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Addr        string        `env:"SKETCH_ADDR" envDefault:":3000"`
	JWTSecret   string        `env:"SKETCH_JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL    time.Duration `env:"SKETCH_TOKEN_TTL" envDefault:"12h"`
	MaxPlayers  int           `env:"SKETCH_MAX_PLAYERS" envDefault:"10"`
	WordsFile   string        `env:"SKETCH_WORDS_FILE"`
	LogLevel    string        `env:"SKETCH_LOG_LEVEL" envDefault:"info"`
	CORSOrigins string        `env:"SKETCH_CORS_ORIGINS" envDefault:"*"`
	GuessRate   float64       `env:"SKETCH_GUESS_RATE" envDefault:"10"`
	GuessBurst  int           `env:"SKETCH_GUESS_BURST" envDefault:"5"`
	RedisURL    string        `env:"REDIS_URL"`
	RedisPrefix string        `env:"SKETCH_REDIS_PREFIX" envDefault:"sketchrush"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.MaxPlayers < 2 {
		return fmt.Errorf("SKETCH_MAX_PLAYERS must be at least 2, got %d", c.MaxPlayers)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("SKETCH_JWT_SECRET must not be empty")
	}
	if c.GuessRate <= 0 || c.GuessBurst <= 0 {
		return fmt.Errorf("guess rate and burst must be positive")
	}
	return nil
}
