package status

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
)

// SyncOptions configures the calendar window and write behavior of a run.
type SyncOptions struct {
	CalendarID string
	Lookahead  time.Duration
	MaxResults int

	// DryRun logs the decision without writing the status.
	DryRun bool
}

// SyncResult describes what a run did.
type SyncResult struct {
	Decision   Decision
	Action     entity.ChangeAction
	EventsSeen int
	EventsKept int

	// PreviousWrite is the last journaled write before this run, nil when
	// there is none or no journal.
	PreviousWrite *entity.StatusChange

	// Repeated is true when this run wrote the same status as PreviousWrite.
	Repeated bool
}

// SyncStatusUseCase updates the chat status from upcoming calendar events.
type SyncStatusUseCase struct {
	events  EventSource
	status  StatusClient
	journal repository.StatusChangeRepository
	metrics MetricsRecorder
	tracer  trace.Tracer
	logger  Logger
	opts    SyncOptions
	now     func() time.Time
}

// NewSyncStatusUseCase creates a new SyncStatusUseCase with dependencies.
// journal and metrics may be nil.
func NewSyncStatusUseCase(
	events EventSource,
	status StatusClient,
	journal repository.StatusChangeRepository,
	metrics MetricsRecorder,
	tracer trace.Tracer,
	logger Logger,
	opts SyncOptions,
) *SyncStatusUseCase {
	return &SyncStatusUseCase{
		events:  events,
		status:  status,
		journal: journal,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *SyncStatusUseCase) WithClock(now func() time.Time) *SyncStatusUseCase {
	uc.now = now
	return uc
}

// Execute runs one fetch-filter-decide-write cycle. It issues exactly one
// calendar query, reads the current status only when no event qualifies, and
// writes at most once. Any failure aborts the run.
func (uc *SyncStatusUseCase) Execute(ctx context.Context) (*SyncResult, error) {
	started := uc.now()
	source := uc.events.Name()

	ctx, span := uc.tracer.Start(ctx, "status.sync",
		trace.WithAttributes(attribute.String("calendar.source", source)),
	)
	defer span.End()

	result, err := uc.execute(ctx, started, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.recordRun(ctx, source, "", "", started, false)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("status.reason", result.Decision.Reason),
		attribute.String("status.action", string(result.Action)),
	)
	uc.recordRun(ctx, source, result.Action, result.Decision.Reason, started, true)
	return result, nil
}

func (uc *SyncStatusUseCase) execute(ctx context.Context, started time.Time, source string) (*SyncResult, error) {
	// 1. Fetch the lookahead window
	query := entity.NewEventQuery(uc.opts.CalendarID, started, uc.opts.Lookahead, uc.opts.MaxResults)
	events, err := uc.events.ListUpcomingEvents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming events: %w", err)
	}

	// 2. Drop declined, tentative and unanswered events
	filtered := FilterEvents(events)
	uc.logger.Debug("calendar events fetched",
		"source", source,
		"calendar_id", query.CalendarID,
		"seen", len(events),
		"kept", len(filtered),
	)
	if uc.metrics != nil {
		uc.metrics.RecordEvents(ctx, source, len(events), len(filtered))
	}

	// 3. The current status only matters when there is no meeting
	var current *entity.Status
	if len(filtered) == 0 {
		st, err := uc.status.GetStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading current status: %w", err)
		}
		current = &st
	}

	// 4. Decide and write
	decision := Decide(filtered, current)
	result := &SyncResult{
		Decision:   decision,
		Action:     entity.ActionNone,
		EventsSeen: len(events),
		EventsKept: len(filtered),
	}

	switch {
	case !decision.Write:
		uc.logger.Info("keeping current status",
			"reason", decision.Reason,
			"status_text", current.Text,
		)
	case uc.opts.DryRun:
		result.Action = entity.ActionDryRun
		uc.logger.Info("dry run, status not written",
			"reason", decision.Reason,
			"status_text", decision.Status.Text,
			"status_emoji", decision.Status.Emoji,
			"status_expiration", decision.Status.Expiration,
		)
	default:
		// Read before the write so this run's record is not found.
		result.PreviousWrite = uc.lastWrite(ctx)

		if err := uc.status.SetStatus(ctx, decision.Status); err != nil {
			return nil, fmt.Errorf("writing status: %w", err)
		}
		result.Action = entity.ActionSet

		fields := []any{
			"reason", decision.Reason,
			"status_text", decision.Status.Text,
			"status_emoji", decision.Status.Emoji,
			"status_expiration", decision.Status.Expiration,
		}
		if prev := result.PreviousWrite; prev != nil {
			result.Repeated = prev.Status == decision.Status
			fields = append(fields,
				"previous_write_at", prev.RanAt,
				"previous_reason", prev.Reason,
				"repeated", result.Repeated,
			)
		}
		uc.logger.Info("status updated", fields...)
	}

	// 5. Journal (best effort)
	uc.saveJournal(ctx, started, source, result)

	return result, nil
}

// lastWrite looks up the previous write. Lookup failures are logged and
// treated as no previous write.
func (uc *SyncStatusUseCase) lastWrite(ctx context.Context) *entity.StatusChange {
	if uc.journal == nil {
		return nil
	}

	prev, err := uc.journal.FindLastWrite(ctx)
	if err != nil {
		uc.logger.Warn("failed to read last status write from journal", "error", err)
		return nil
	}
	return prev
}

func (uc *SyncStatusUseCase) saveJournal(ctx context.Context, ranAt time.Time, source string, result *SyncResult) {
	if uc.journal == nil {
		return
	}

	change := entity.NewStatusChange(result.Action, result.Decision.Reason, ranAt).
		WithStatus(result.Decision.Status).
		ForEvent(result.Decision.Event).
		WithCounts(result.EventsSeen, result.EventsKept).
		FromSource(source)

	if err := uc.journal.Save(ctx, change); err != nil {
		uc.logger.Warn("failed to save status journal record",
			"id", change.ID,
			"error", err,
		)
	}
}

func (uc *SyncStatusUseCase) recordRun(ctx context.Context, source string, action entity.ChangeAction, reason string, started time.Time, success bool) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordRun(ctx, source, action, reason, uc.now().Sub(started), success)
}
