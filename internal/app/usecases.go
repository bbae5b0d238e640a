package app

import (
	"github.com/qj0r9j0vc2/calendar-status/internal/usecase/status"
)

// UseCases holds the application use cases.
type UseCases struct {
	SyncStatus   *status.SyncStatusUseCase
	PruneJournal *status.PruneJournalUseCase
}

func (app *Application) initializeUseCases() {
	logger := &slogAdapter{logger: app.logger}

	app.useCases = &UseCases{
		SyncStatus: status.NewSyncStatusUseCase(
			app.clients.Calendar,
			app.clients.Slack,
			app.journal,
			app.telemetry.Metrics,
			app.telemetry.Tracer("github.com/qj0r9j0vc2/calendar-status/internal/usecase/status"),
			logger,
			status.SyncOptions{
				CalendarID: app.config.Calendar.ID,
				Lookahead:  app.config.Calendar.Lookahead,
				MaxResults: app.config.Calendar.MaxResults,
				DryRun:     app.config.DryRun,
			},
		),
	}

	if app.journal != nil {
		app.useCases.PruneJournal = status.NewPruneJournalUseCase(app.journal, app.config.Storage.Retention, logger)
	}
}
