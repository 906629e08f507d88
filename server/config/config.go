// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorePlatform = "platform"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Empty disables the application id check.
	AlexaAppID string `env:"ALEXA_APP_ID"`

	GameServiceURL     string        `env:"GAME_SERVICE_URL" envDefault:"http://blackjacktutor-env.us-west-2.elasticbeanstalk.com"`
	GameServiceTimeout time.Duration `env:"GAME_SERVICE_TIMEOUT" envDefault:"8s"`

	// Empty selects the built-in chart.
	StrategyEngineURL     string        `env:"STRATEGY_ENGINE_URL"`
	StrategyEngineTimeout time.Duration `env:"STRATEGY_ENGINE_TIMEOUT" envDefault:"5s"`

	SessionStore  string        `env:"SESSION_STORE" envDefault:"platform"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	AutoMigrate   bool          `env:"AUTO_MIGRATE" envDefault:"false"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	RateLimitPerMin int `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`
}

// Load parses the environment into a Config and checks it.
func Load() (Config, error) {
	var c Config
	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	switch c.SessionStore {
	case StorePlatform, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: SESSION_STORE=postgres needs DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}
	if strings.TrimSpace(c.GameServiceURL) == "" {
		return fmt.Errorf("config: GAME_SERVICE_URL is empty")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MIN must not be negative")
	}
	return nil
}

func (c Config) Production() bool { return strings.EqualFold(c.Env, "production") }
