package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Env holds settings read from PICKUP_* environment variables.
type Env struct {
	Config   string `envconfig:"CONFIG" default:"pickup.yaml"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// LoadEnv reads the environment. Callers load any .env file first.
func LoadEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process("pickup", &e); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &e, nil
}

// ParseLogLevel maps debug, info, warn and error onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
}
