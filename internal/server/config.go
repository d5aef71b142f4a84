package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	MessageRate     int           `env:"MESSAGE_RATE" envDefault:"20"`
	MessageInterval time.Duration `env:"MESSAGE_INTERVAL" envDefault:"1s"`
}

// LoadConfig reads configuration from the environment. A .env file, if
// present, is loaded by the godotenv autoload import in cmd/api.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
