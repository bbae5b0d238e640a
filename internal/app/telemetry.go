package app

import (
	"github.com/qj0r9j0vc2/calendar-status/internal/infrastructure/observability"
)

// setupTelemetry initializes OpenTelemetry tracing and metrics.
func (app *Application) setupTelemetry() error {
	telemetry, err := observability.NewTelemetry(observability.ServiceName, Version)
	if err != nil {
		return err
	}

	app.telemetry = telemetry

	app.logger.Debug("telemetry initialized",
		"service", observability.ServiceName,
		"metrics_textfile", app.config.Metrics.TextfilePath,
		"tracing_enabled", false, // NoOp tracer
	)

	return nil
}
