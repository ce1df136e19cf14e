package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingua-bot/internal/config"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
)

// bootstrap loads the configuration and installs the application logger.
func bootstrap(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel, Format: cfg.Server.LogFormat})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("llm_provider", cfg.LLM.Provider))
	return cfg, log, nil
}
