package status

import (
	"context"
	"time"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
)

// EventSource lists upcoming calendar events.
// Implementations must honor the ordering, expansion and cancellation rules
// documented on entity.EventQuery, and return an empty slice (not an error)
// when nothing matches.
type EventSource interface {
	ListUpcomingEvents(ctx context.Context, query entity.EventQuery) ([]entity.Event, error)

	// Name returns the provider identifier (e.g., "google", "caldav").
	Name() string
}

// StatusClient reads and replaces the chat custom status.
type StatusClient interface {
	GetStatus(ctx context.Context) (entity.Status, error)

	// SetStatus replaces text, emoji and expiration in one call. It returns an
	// error if the service does not acknowledge the write.
	SetStatus(ctx context.Context, status entity.Status) error
}

// MetricsRecorder receives per-run measurements.
type MetricsRecorder interface {
	RecordEvents(ctx context.Context, source string, seen, kept int)
	RecordRun(ctx context.Context, source string, action entity.ChangeAction, reason string, duration time.Duration, success bool)
}

// Logger defines the contract for logging within use cases.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
