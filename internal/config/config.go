package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote user API the adapter reads from
	RemoteAPI struct {
		BaseURL string        `env:"BASE_URL" envDefault:"https://jsonplaceholder.typicode.com"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	} `envPrefix:"REMOTE_API_"`

	// Redis is optional; the adapter degrades to uncached reads without it
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	AutoSync struct {
		Enabled  bool          `env:"ENABLED" envDefault:"false"`
		Interval time.Duration `env:"INTERVAL" envDefault:"5m"`
	} `envPrefix:"AUTO_SYNC_"`

	// Kafka brokers are optional; when set, directory events are also
	// forwarded to the configured topic.
	Kafka struct {
		Brokers []string `env:"BROKERS"`
		Topic   string   `env:"TOPIC" envDefault:"directory.events"`
	} `envPrefix:"KAFKA_"`
}

// LoadConfig reads .env (if present) and parses the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// LogLevel maps the configured level string onto slog levels.
func (c *Config) LogLevel() slog.Level {
	switch c.LogLevelRaw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
