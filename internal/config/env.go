// Package config loads inochi2d host configuration from the environment
// and from YAML scene manifests.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env is configuration read from INOCHI2D_* environment variables.
type Env struct {
	Driver         string `env:"INOCHI2D_DRIVER" envDefault:"dynamic"`
	LibraryPath    string `env:"INOCHI2D_LIBRARY"`
	ViewportWidth  int    `env:"INOCHI2D_VIEWPORT_WIDTH" envDefault:"800"`
	ViewportHeight int    `env:"INOCHI2D_VIEWPORT_HEIGHT" envDefault:"600"`
	LogLevel       string `env:"INOCHI2D_LOG_LEVEL" envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean warn.
func (e Env) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(e.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
