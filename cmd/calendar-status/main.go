package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/qj0r9j0vc2/calendar-status/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap logger until configuration is loaded
	logger := app.NewLogger("info", "json", os.Stderr)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, configPath)
	if err != nil {
		logger.Error("failed to initialize application", "error", err, "config_path", configPath)
		return 1
	}

	result, err := application.Run(ctx)
	if shutdownErr := application.Shutdown(); shutdownErr != nil {
		logger.Error("shutdown failed", "error", shutdownErr)
	}
	if err != nil {
		logger.Error("status sync failed", "error", err)
		return 1
	}

	logger.Debug("status sync finished", "action", result.Action, "reason", result.Decision.Reason)
	return 0
}
