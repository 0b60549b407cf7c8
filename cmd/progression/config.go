package main

import (
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config is the CLI's environment configuration
type Config struct {
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	ContentDir string `env:"CONTENT_DIR" envDefault:"./content"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
