package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/calendar-status/internal/usecase/status"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// Application holds all application dependencies and lifecycle
type Application struct {
	config    *config.Config
	logger    *slog.Logger
	telemetry *observability.Telemetry

	// Storage
	journal  repository.StatusChangeRepository
	dbCloser io.Closer // For cleanup

	// Infrastructure clients
	clients *Clients

	// Use cases
	useCases *UseCases
}

// New creates a new Application instance
func New(ctx context.Context, configPath string) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(ctx, configPath); err != nil {
		// Release whatever was set up before the failing step
		_ = app.Shutdown()
		return nil, err
	}

	return app, nil
}

// Run performs one status sync, then prunes the journal.
func (app *Application) Run(ctx context.Context) (*status.SyncResult, error) {
	app.logger.Info("starting calendar-status",
		"version", Version,
		"config", app.config.String(),
	)

	result, err := app.useCases.SyncStatus.Execute(ctx)
	if err != nil {
		return nil, err
	}

	if app.useCases.PruneJournal != nil {
		if _, err := app.useCases.PruneJournal.Execute(ctx); err != nil {
			app.logger.Warn("failed to prune status journal", "error", err)
		}
	}

	return result, nil
}

// Shutdown flushes metrics and releases resources. It is safe to call on a
// partially bootstrapped application.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if app.telemetry != nil {
		if app.config != nil && app.config.Metrics.TextfilePath != "" {
			if err := app.telemetry.WriteTextfile(app.config.Metrics.TextfilePath); err != nil {
				app.log().Error("failed to write metrics textfile", "error", err)
			}
		}

		if err := app.telemetry.Shutdown(ctx); err != nil {
			app.log().Error("failed to shutdown telemetry", "error", err)
		}
	}

	// Close database
	if app.dbCloser != nil {
		if err := app.dbCloser.Close(); err != nil {
			app.log().Error("failed to close database", "error", err)
			return err
		}
		app.dbCloser = nil
	}

	return nil
}

// log returns the configured logger, or the default one before setup.
func (app *Application) log() *slog.Logger {
	if app.logger == nil {
		return slog.Default()
	}
	return app.logger
}
