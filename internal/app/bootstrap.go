package app

import (
	"context"
	"fmt"

	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/config"
)

func (app *Application) bootstrap(ctx context.Context, configPath string) error {
	// 1. Load configuration
	if err := app.loadConfig(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// 2. Setup logger
	app.setupLogger()

	// 3. Setup telemetry (OpenTelemetry)
	if err := app.setupTelemetry(); err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	// 4. Initialize storage layer
	if err := app.initializeStorage(ctx); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	// 5. Initialize infrastructure clients
	if err := app.initializeClients(ctx); err != nil {
		return fmt.Errorf("initializing clients: %w", err)
	}

	// 6. Initialize use cases
	app.initializeUseCases()

	return nil
}

func (app *Application) loadConfig(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}
